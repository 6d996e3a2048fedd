package bulletproofs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func TestRangeProofBinaryRoundTrip(t *testing.T) {
	bases := testBases(t, 4)
	gammas := make([]curve.Scalar, 3)
	values := make([]uint64, 3)
	for i := range gammas {
		gammas[i] = randomScalar(t)
		values[i] = uint64(i*97 + 3)
	}
	proof, err := Prove(gammas, values, bases)
	require.NoError(t, err)

	encoded, err := proof.MarshalBinary()
	require.NoError(t, err)

	var decoded RangeProof
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.True(t, Verify(decoded, bases))
}

func TestRangeOrSchnorrProofBinaryRoundTrip(t *testing.T) {
	bases := testBases(t, 1)
	apPriv := randomScalar(t)
	apKey := bases.G0.ScalarMult(apPriv)

	proof, err := CreateRangeOrSchnorrFakeSchnorr(randomScalar(t), 7, bases, apKey, []byte("msg"))
	require.NoError(t, err)

	encoded, err := proof.MarshalBinary()
	require.NoError(t, err)

	var decoded RangeOrSchnorrProof
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.True(t, VerifyRangeOrSchnorr(bases, decoded, apKey, []byte("msg")))
}
