package kyc

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func randomOutputs(t *testing.T, n int) []curve.Point {
	t.Helper()
	out := make([]curve.Point, n)
	for i := range out {
		s, err := curve.RandomScalar()
		require.NoError(t, err)
		out[i] = curve.BaseG().ScalarMult(s)
	}
	return out
}

func TestSpendingLimitProofRoundTrip(t *testing.T) {
	p, err := curve.RandomScalar()
	require.NoError(t, err)

	var sources []SpendingLimitProof
	for i := 0; i < 4; i++ {
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

	const hiddenIndex = 2
	proof, err := Generate(sources, aPub, bPub, outputs, s, sp, hiddenIndex, p)
	require.NoError(t, err)
	require.True(t, Verify(proof, aPub, bPub, outputs, s, sp))
}

func TestSpendingLimitProofRejectsForeignOutputs(t *testing.T) {
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

	proof, err := Generate(sources, aPub, bPub, outputs, s, sp, 0, p)
	require.NoError(t, err)

	tamperedOutputs := randomOutputs(t, 2)
	require.False(t, Verify(proof, aPub, bPub, tamperedOutputs, s, sp))
}

func TestSpendingLimitProofRejectsExcessiveChainDepth(t *testing.T) {
	p, err := curve.RandomScalar()
	require.NoError(t, err)

	root := []SpendingLimitProof{NewStartingProof(p)}
	chain := root
	for i := 0; i < MaxChainDepth+2; i++ {
		chain = []SpendingLimitProof{{Sources: chain}}
	}

	deep := SpendingLimitProof{Sources: chain}

	aPub := curve.BaseG()
	bPub := curve.BaseG()
	s := curve.BaseG()
	sp := curve.BaseG()
	outputs := randomOutputs(t, 1)

	require.False(t, Verify(deep, aPub, bPub, outputs, s, sp))

	_, err = Generate(deep.Sources, aPub, bPub, outputs, s, sp, 0, p)
	require.Error(t, err)
}

func TestSpendingLimitProofRejectsTooManySources(t *testing.T) {
	p, err := curve.RandomScalar()
	require.NoError(t, err)

	sources := make([]SpendingLimitProof, MaxSources+1)
	for i := range sources {
		sources[i] = NewStartingProof(p)
	}

	aPub := curve.BaseG()
	bPub := curve.BaseG()
	s := curve.BaseG()
	sp := curve.BaseG()
	outputs := randomOutputs(t, 1)

	_, err = Generate(sources, aPub, bPub, outputs, s, sp, 0, p)
	require.Error(t, err)
}
