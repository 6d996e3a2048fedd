package ringsig

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func randomCommitment(t *testing.T) (ValueCommitmentPublic, curve.Scalar, curve.Scalar) {
	t.Helper()
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	v, err := curve.RandomScalar()
	require.NoError(t, err)
	a, err := curve.RandomScalar()
	require.NoError(t, err)
	p, err := curve.RandomScalar()
	require.NoError(t, err)

	S := curve.BaseG().ScalarMult(s)
	V := curve.BaseK().ScalarMult(v.Multiply(s))
	A := curve.BaseG().ScalarMult(a)
	B := A.ScalarMult(p)

	return ValueCommitmentPublic{S: S, V: V, A: A, B: B}, v, s
}

func TestBlindingSignatureRoundTrip(t *testing.T) {
	var candidates []ValueCommitmentPublic
	var hiddenValue, hiddenSecret curve.Scalar
	const hiddenIndex = 3

	for i := 0; i < 9; i++ {
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
	require.True(t, VerifyBlindingSignatures(candidates, sig))
}

func TestBlindingSignatureRejectsForeignProof(t *testing.T) {
	var candidates []ValueCommitmentPublic
	var hiddenValue, hiddenSecret curve.Scalar
	for i := 0; i < 4; i++ {
		c, v, s := randomCommitment(t)
		candidates = append(candidates, c)
		if i == 0 {
			hiddenValue, hiddenSecret = v, s
		}
	}
	ss, err := curve.RandomScalar()
	require.NoError(t, err)
	sig, err := CreateBlindingSignature(candidates, hiddenValue, hiddenSecret, ss, 0)
	require.NoError(t, err)

	other, _, _ := randomCommitment(t)
	tampered := append([]ValueCommitmentPublic{}, candidates...)
	tampered[1] = other
	require.False(t, VerifyBlindingSignatures(tampered, sig))
}

func TestCreateRandomDivisionsSumsToTotal(t *testing.T) {
	sum, err := curve.RandomScalar()
	require.NoError(t, err)

	divisions, err := CreateRandomDivisions(sum, 5)
	require.NoError(t, err)
	require.Len(t, divisions, 5)

	total := curve.ZeroScalar()
	for _, d := range divisions {
		total = total.Add(d)
	}
	require.True(t, total.Equal(sum))
}

func TestCreateRandomDivisionsRejectsNonPositiveCount(t *testing.T) {
	sum, err := curve.RandomScalar()
	require.NoError(t, err)
	_, err = CreateRandomDivisions(sum, 0)
	require.Error(t, err)
}
