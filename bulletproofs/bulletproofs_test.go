package bulletproofs

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/transcript"
)

func testBases(t *testing.T, mMax int) *curve.Bases {
	t.Helper()
	bases, err := curve.DeriveBases(curve.BaseL(), curve.BaseK(), mMax)
	require.NoError(t, err)
	return bases
}

func randomScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar()
	require.NoError(t, err)
	return s
}

func TestInnerProductRoundTrip(t *testing.T) {
	const n = 16
	bases := testBases(t, 1)
	g := bases.G[:n]
	h := bases.H[:n]
	u := curve.BaseG()

	a := make([]curve.Scalar, n)
	b := make([]curve.Scalar, n)
	for i := range a {
		a[i] = randomScalar(t)
		b[i] = randomScalar(t)
	}

	p := commitVectors(a, g, b, h).Add(u.ScalarMult(innerProduct(a, b)))
	proof, err := ProveIPA(g, h, u, a, b)
	require.NoError(t, err)
	require.True(t, VerifyIPA(g, h, u, p, proof))
}

func TestInnerProductRejectsNonPowerOfTwo(t *testing.T) {
	a := make([]curve.Scalar, 3)
	b := make([]curve.Scalar, 3)
	bases := testBases(t, 1)
	_, err := ProveIPA(bases.G[:3], bases.H[:3], curve.BaseG(), a, b)
	require.Error(t, err)
}

// TestIPAFoldMatchesProverFolding checks that the generator folding the
// verifier reconstructs via altMult over the original g/h vectors agrees
// with the generators the prover actually folded down to during proving,
// for every round of the argument.
func TestIPAFoldMatchesProverFolding(t *testing.T) {
	const n = 8
	bases := testBases(t, 1)
	g := append([]curve.Point{}, bases.G[:n]...)
	h := append([]curve.Point{}, bases.H[:n]...)
	u := curve.BaseG()

	a := make([]curve.Scalar, n)
	b := make([]curve.Scalar, n)
	for i := range a {
		a[i] = randomScalar(t)
		b[i] = randomScalar(t)
	}

	origG := append([]curve.Point{}, g...)
	origH := append([]curve.Point{}, h...)

	proof, err := ProveIPA(g, h, u, a, b)
	require.NoError(t, err)

	// Reproduce the verifier's single-pass fold of the original generator
	// vectors using only the challenges recovered from L/R, and check it
	// lands on the same single generator pair the prover's iterative
	// halving produced.
	nVar := n
	s := constVector(curve.ScalarU64(1), n)
	sInv := constVector(curve.ScalarU64(1), n)
	for i := range proof.L {
		x := transcript.ChallengeH2(proof.L[i], proof.R[i])
		xInv := x.Invert()
		altMult(xInv, s, nVar/2)
		altMult(x, sInv, nVar/2)
		nVar /= 2
	}
	require.Equal(t, 1, nVar)

	gFold := curve.MultiScalarMult(s, origG)
	hFold := curve.MultiScalarMult(sInv, origH)

	gFolded := origG
	hFolded := origH
	for i := range proof.L {
		x := transcript.ChallengeH2(proof.L[i], proof.R[i])
		xInv := x.Invert()
		half := len(gFolded) / 2
		gFolded = foldPoints(xInv, gFolded[:half], x, gFolded[half:])
		hFolded = foldPoints(x, hFolded[:half], xInv, hFolded[half:])
	}
	require.True(t, gFold.Equal(gFolded[0]))
	require.True(t, hFold.Equal(hFolded[0]))
}

func TestRangeProofSingleValue(t *testing.T) {
	bases := testBases(t, 1)
	gamma := randomScalar(t)
	proof, err := Prove([]curve.Scalar{gamma}, []uint64{424242}, bases)
	require.NoError(t, err)
	require.True(t, Verify(proof, bases))
}

func TestRangeProofAggregated(t *testing.T) {
	bases := testBases(t, 8)
	gammas := make([]curve.Scalar, 5)
	values := make([]uint64, 5)
	for i := range gammas {
		gammas[i] = randomScalar(t)
		values[i] = uint64(i*1000 + 7)
	}
	proof, err := Prove(gammas, values, bases)
	require.NoError(t, err)
	require.True(t, Verify(proof, bases))
}

func TestRangeProofRejectsTamperedCommitment(t *testing.T) {
	bases := testBases(t, 1)
	gamma := randomScalar(t)
	proof, err := Prove([]curve.Scalar{gamma}, []uint64{7}, bases)
	require.NoError(t, err)

	proof.V[0] = proof.V[0].Add(curve.BaseG())
	require.False(t, Verify(proof, bases))
}

func TestModifiedSchnorrRoundTrip(t *testing.T) {
	bases := testBases(t, 1)
	privateKey := randomScalar(t)
	p := bases.G0.ScalarMult(privateKey)
	extra := [2]curve.Point{bases.G[0], bases.H[0]}
	message := []byte("hello")
	otherHash := randomScalar(t)

	sig, err := CreateModifiedSchnorr(bases, message, privateKey, extra, otherHash)
	require.NoError(t, err)
	require.True(t, VerifyModifiedSchnorr(bases, message, sig, p, extra, otherHash))
}

func TestRangeOrSchnorrFakeSchnorrBranch(t *testing.T) {
	bases := testBases(t, 1)
	gamma := randomScalar(t)
	apPrivateKey := randomScalar(t)
	apKey := bases.G0.ScalarMult(apPrivateKey)
	message := []byte{0, 1, 2}

	proof, err := CreateRangeOrSchnorrFakeSchnorr(gamma, 123456, bases, apKey, message)
	require.NoError(t, err)
	require.True(t, VerifyRangeOrSchnorr(bases, proof, apKey, message))
}

func TestRangeOrSchnorrFakeRangeBranch(t *testing.T) {
	bases := testBases(t, 1)
	gamma := randomScalar(t)
	v := randomScalar(t)
	apPrivateKey := randomScalar(t)
	apKey := bases.G0.ScalarMult(apPrivateKey)
	message := []byte{0, 1, 2}

	proof, err := CreateRangeOrSchnorrFakeRange(gamma, v, bases, apPrivateKey, message)
	require.NoError(t, err)
	require.True(t, VerifyRangeOrSchnorr(bases, proof, apKey, message))
}

func TestNextPowerOfTwo(t *testing.T) {
	require.Equal(t, 1, nextPowerOfTwo(1))
	require.Equal(t, 4, nextPowerOfTwo(3))
	require.Equal(t, 8, nextPowerOfTwo(5))
	require.Equal(t, 8, nextPowerOfTwo(8))
}
