package ringsig

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func TestBlindingSignatureBinaryRoundTrip(t *testing.T) {
	var candidates []ValueCommitmentPublic
	var hiddenValue, hiddenSecret curve.Scalar
	const hiddenIndex = 2

	for i := 0; i < 6; i++ {
		c, v, s := randomCommitment(t)
		candidates = append(candidates, c)
		if i == hiddenIndex {
			hiddenValue, hiddenSecret = v, s
		}
	}

	ss, err := curve.RandomScalar()
	require.NoError(t, err)

	sig, err := CreateBlindingSignature(candidates, hiddenValue, hiddenSecret, ss, hiddenIndex)
	require.NoError(t, err)

	encoded, err := sig.MarshalBinary()
	require.NoError(t, err)

	var decoded BlindingSignature
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.True(t, VerifyBlindingSignatures(candidates, decoded))
}
