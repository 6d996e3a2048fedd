package tx

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/takakv/zkpay/aprecover"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/kyc"
)

func testBases(t *testing.T, mMax int) *curve.Bases {
	t.Helper()
	g0, err := curve.RandomPoint()
	require.NoError(t, err)
	h0, err := curve.RandomPoint()
	require.NoError(t, err)
	bases, err := curve.DeriveBases(g0, h0, mMax)
	require.NoError(t, err)
	return bases
}

func ownedCandidate(t *testing.T, bases *curve.Bases, p curve.Scalar, value uint64) (InputCandidate, curve.Scalar) {
	t.Helper()
	a, err := curve.RandomPoint()
	require.NoError(t, err)
	b := a.ScalarMult(p)

	r, err := curve.RandomScalar()
	require.NoError(t, err)
	commitment := bases.G0.ScalarMult(curve.ScalarU64(value)).Add(bases.H0.ScalarMult(r))

	return InputCandidate{A: a, B: b, Commitment: commitment}, r
}

func decoyCandidate(t *testing.T, bases *curve.Bases) InputCandidate {
	t.Helper()
	a, err := curve.RandomPoint()
	require.NoError(t, err)
	b, err := curve.RandomPoint()
	require.NoError(t, err)
	commitment, err := curve.RandomPoint()
	require.NoError(t, err)
	return InputCandidate{A: a, B: b, Commitment: commitment}
}

func TestTransactionRoundTrip(t *testing.T) {
	bases := testBases(t, 2)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 5)
	in1, r1 := ownedCandidate(t, bases, p, 7)
	trueSet := []InputCandidate{in0, in1}
	decoySet := []InputCandidate{decoyCandidate(t, bases), decoyCandidate(t, bases)}

	outKey, err := curve.RandomPoint()
	require.NoError(t, err)

	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{decoySet, trueSet},
		1,
		[]curve.Scalar{r0, r1},
		[]*big.Int{big.NewInt(12)},
		[]curve.Point{outKey},
		p,
		apKey,
		nil,
		0,
	)
	require.NoError(t, err)
	require.True(t, VerifyTransaction(bases, apKey, transaction))
}

func TestTransactionRejectsTamperedOutputCommitment(t *testing.T) {
	bases := testBases(t, 2)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 3)
	trueSet := []InputCandidate{in0}
	decoySet := []InputCandidate{decoyCandidate(t, bases)}

	outKey, err := curve.RandomPoint()
	require.NoError(t, err)

	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{trueSet, decoySet},
		0,
		[]curve.Scalar{r0},
		[]*big.Int{big.NewInt(3)},
		[]curve.Point{outKey},
		p,
		apKey,
		nil,
		0,
	)
	require.NoError(t, err)
	require.True(t, VerifyTransaction(bases, apKey, transaction))

	stray, err := curve.RandomPoint()
	require.NoError(t, err)
	transaction.Outputs[0].Commitment = stray
	require.False(t, VerifyTransaction(bases, apKey, transaction))
}

func TestTransactionRejectsWrongSpendSecret(t *testing.T) {
	bases := testBases(t, 2)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	wrongP, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 4)
	trueSet := []InputCandidate{in0}
	decoySet := []InputCandidate{decoyCandidate(t, bases)}

	outKey, err := curve.RandomPoint()
	require.NoError(t, err)

	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{trueSet, decoySet},
		0,
		[]curve.Scalar{r0},
		[]*big.Int{big.NewInt(4)},
		[]curve.Point{outKey},
		wrongP,
		apKey,
		nil,
		0,
	)
	require.NoError(t, err)
	require.False(t, VerifyTransaction(bases, apKey, transaction))
}

func TestTransactionRejectsUnbalancedValues(t *testing.T) {
	bases := testBases(t, 2)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 10)
	trueSet := []InputCandidate{in0}
	decoySet := []InputCandidate{decoyCandidate(t, bases)}

	outKey, err := curve.RandomPoint()
	require.NoError(t, err)

	// The output value (1) does not match the spent input's value (10).
	// CreateTransaction has no way to know that on its own; the mismatch
	// must be caught by VerifyTransaction via the ring's balance row.
	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{trueSet, decoySet},
		0,
		[]curve.Scalar{r0},
		[]*big.Int{big.NewInt(1)},
		[]curve.Point{outKey},
		p,
		apKey,
		nil,
		0,
	)
	require.NoError(t, err)
	require.False(t, VerifyTransaction(bases, apKey, transaction))
}

func TestTransactionWithKYCChain(t *testing.T) {
	bases := testBases(t, 2)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 6)
	trueSet := []InputCandidate{in0}
	decoySet := []InputCandidate{decoyCandidate(t, bases)}

	outKey, err := curve.RandomPoint()
	require.NoError(t, err)

	start := kyc.NewStartingProof(p)

	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{trueSet, decoySet},
		0,
		[]curve.Scalar{r0},
		[]*big.Int{big.NewInt(6)},
		[]curve.Point{outKey},
		p,
		apKey,
		[]kyc.SpendingLimitProof{start},
		0,
	)
	require.NoError(t, err)
	require.True(t, transaction.HasKYC)
	require.True(t, VerifyTransaction(bases, apKey, transaction))
}

func TestTransactionWithNonPowerOfTwoOutputCount(t *testing.T) {
	bases := testBases(t, 4)

	p, err := curve.RandomScalar()
	require.NoError(t, err)
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	in0, r0 := ownedCandidate(t, bases, p, 9)
	trueSet := []InputCandidate{in0}
	decoySet := []InputCandidate{decoyCandidate(t, bases)}

	outKeys := make([]curve.Point, 3)
	for i := range outKeys {
		k, err := curve.RandomPoint()
		require.NoError(t, err)
		outKeys[i] = k
	}

	transaction, err := CreateTransaction(
		bases,
		[][]InputCandidate{trueSet, decoySet},
		0,
		[]curve.Scalar{r0},
		[]*big.Int{big.NewInt(4), big.NewInt(3), big.NewInt(2)},
		outKeys,
		p,
		apKey,
		nil,
		0,
	)
	require.NoError(t, err)
	require.Len(t, transaction.Outputs, 3)
	// Bulletproofs pads 3 values to the next power of two (4); the range
	// proof's V carries that padding, VerifyTransaction must not choke on it.
	require.Len(t, transaction.RangeProof.V, 4)
	require.True(t, VerifyTransaction(bases, apKey, transaction))
}

func TestAPValueRecovery(t *testing.T) {
	apPriv, err := curve.RandomScalar()
	require.NoError(t, err)
	apKey := curve.BaseG().ScalarMult(apPriv)

	gamma, err := curve.RandomScalar()
	require.NoError(t, err)

	decl, err := createAPValueDeclaration(apKey, curve.ScalarU64(42), gamma)
	require.NoError(t, err)
	require.True(t, verifyAPValueDeclaration(decl))

	table := aprecover.NewTableWithBase(6, curve.BaseL())
	got, ok := RecoverOutputValue(table, decl, apPriv)
	require.True(t, ok)
	require.Equal(t, uint64(42), got)
}
