package kyc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func TestSpendingLimitProofBinaryRoundTrip(t *testing.T) {
	p, err := curve.RandomScalar()
	require.NoError(t, err)

	var sources []SpendingLimitProof
	for i := 0; i < 3; i++ {
		sources = append(sources, NewStartingProof(p))
	}

	aSecret, err := curve.RandomScalar()
	require.NoError(t, err)
	aPub := curve.BaseG().ScalarMult(aSecret)
	bPub := aPub.ScalarMult(p)

	sSecret, err := curve.RandomScalar()
	require.NoError(t, err)
	s := curve.BaseG().ScalarMult(sSecret)
	sp := s.ScalarMult(p)

	outputs := randomOutputs(t, 2)
	outputs[0] = aPub.ScalarMult(p)

	const hiddenIndex = 1
	proof, err := Generate(sources, aPub, bPub, outputs, s, sp, hiddenIndex, p)
	require.NoError(t, err)

	// Chain one more link so the encoded proof carries a non-empty,
	// non-leaf Sources vector, exercising the recursive case.
	var chained []SpendingLimitProof
	for i := 0; i < 2; i++ {
		chained = append(chained, proof)
	}
	outputs2 := randomOutputs(t, 2)
	outputs2[0] = aPub.ScalarMult(p)
	linked, err := Generate(chained, aPub, bPub, outputs2, s, sp, 0, p)
	require.NoError(t, err)

	encoded, err := linked.MarshalBinary()
	require.NoError(t, err)

	var decoded SpendingLimitProof
	require.NoError(t, decoded.UnmarshalBinary(encoded))
	require.True(t, Verify(decoded, aPub, bPub, outputs2, s, sp))
}
