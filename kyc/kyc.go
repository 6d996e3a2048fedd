// Package kyc implements the spending-limit proof chain: a recursive,
// self-referential proof that an accountable party's running total spend
// (across a chain of linked transactions) stays consistent, without
// revealing the individual transaction amounts that make it up.
//
// The proof's Sources field recurses into earlier SpendingLimitProofs,
// which in an unrestrained implementation lets a hostile chain of
// transactions force unbounded recursion during verification. This package
// enforces MaxChainDepth and MaxSources explicitly rather than recursing
// without limit.
package kyc

import (
	"errors"
	"fmt"

	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// MaxChainDepth bounds how many levels of Sources a SpendingLimitProof may
// recurse through before Generate/Verify refuse to process it.
const MaxChainDepth = 32

// MaxSources bounds how many sibling sources a single SpendingLimitProof
// level may cite.
const MaxSources = 256

// SpendingLimitProof is one link of the spending-limit chain: a commitment
// to the total spent so far (TotalSpendingCommitment), a unique marker that
// lets double-spend attempts on the same chain be detected, and proofs
// binding this link to the sources it was derived from.
type SpendingLimitProof struct {
	Sources                 []SpendingLimitProof
	TotalSpendingCommitment curve.Point
	UniqueMarker            curve.Point
	C, D                    curve.Point
	Alpha2                  *zkplmt.Proof
	Gamma                   *zkplmt.Proof
}

// NewStartingProof creates the root of a spending-limit chain for an
// accountable party whose per-chain secret is p: an unspent, un-chained
// starting point with no sources and no spend recorded yet.
func NewStartingProof(p curve.Scalar) SpendingLimitProof {
	g := curve.BaseG()
	return SpendingLimitProof{
		Sources:                 nil,
		TotalSpendingCommitment: curve.Identity(),
		UniqueMarker:            curve.Identity(),
		C:                       g,
		D:                       g.ScalarMult(p),
	}
}

func edwardHash(c, d curve.Point) curve.Point {
	buf := make([]byte, 0, 64)
	buf = append(buf, c.Bytes()...)
	buf = append(buf, d.Bytes()...)
	return curve.HashToEdwards(buf)
}

func validateChain(sources []SpendingLimitProof, depth int) error {
	if depth > MaxChainDepth {
		return fmt.Errorf("kyc: spending-limit chain exceeds max depth %d", MaxChainDepth)
	}
	if len(sources) > MaxSources {
		return fmt.Errorf("kyc: spending-limit proof cites %d sources, max %d", len(sources), MaxSources)
	}
	for _, s := range sources {
		if err := validateChain(s.Sources, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func sumPoints(points []curve.Point) curve.Point {
	sum := curve.Identity()
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum
}

func buildGammaTuples(sources []SpendingLimitProof, hashes []curve.Point, cc, c, d, aPub, bPub, uniqueMarker, s, sp curve.Point, vFirst, outputSum curve.Point) []zkplmt.Tuple {
	tuples := make([]zkplmt.Tuple, len(sources))
	for i, src := range sources {
		e := cc.Subtract(src.TotalSpendingCommitment).Add(vFirst).Subtract(outputSum)
		tuples[i] = zkplmt.Tuple{Values: []zkplmt.CurveVector{
			{X: s, Y: sp},
			{X: src.C, Y: src.D},
			{X: c, Y: d},
			{X: src.D, Y: e},
			{X: aPub, Y: bPub},
			{X: hashes[i], Y: uniqueMarker},
		}}
	}
	return tuples
}

// Generate extends the spending-limit chain by spending from
// sources[hiddenIndex] (whose opening secret is p), without revealing which
// source was spent. aPub/bPub are the output's accountable-party key pair
// and outputCommitments are the transaction's output value commitments
// (outputCommitments[0] must be the commitment AP-bound to aPub/bPub). s/sp
// are the transaction's one-time spend key pair.
func Generate(sources []SpendingLimitProof, aPub, bPub curve.Point, outputCommitments []curve.Point, s, sp curve.Point, hiddenIndex int, p curve.Scalar) (SpendingLimitProof, error) {
	if err := validateChain(sources, 0); err != nil {
		return SpendingLimitProof{}, err
	}
	if hiddenIndex < 0 || hiddenIndex >= len(sources) {
		return SpendingLimitProof{}, fmt.Errorf("kyc: hidden index %d out of range [0,%d)", hiddenIndex, len(sources))
	}
	if len(outputCommitments) == 0 {
		return SpendingLimitProof{}, errors.New("kyc: no output commitments")
	}

	hashes := make([]curve.Point, len(sources))
	for i, src := range sources {
		hashes[i] = edwardHash(src.C, src.D)
	}

	c := sources[hiddenIndex].C
	d := sources[hiddenIndex].D
	e := d.ScalarMult(p)
	hash := hashes[hiddenIndex]
	j := hash.ScalarMult(p)

	x, err := curve.RandomScalar()
	if err != nil {
		return SpendingLimitProof{}, err
	}
	cPrime := c.ScalarMult(x)
	dPrime := d.ScalarMult(x)

	aTuples := make([]zkplmt.Tuple, len(sources))
	for i, src := range sources {
		aTuples[i] = zkplmt.Tuple{Values: []zkplmt.CurveVector{{X: src.C, Y: cPrime}}}
	}
	alpha2, err := zkplmt.Create(aTuples, hiddenIndex, x)
	if err != nil {
		return SpendingLimitProof{}, err
	}

	vFirst := outputCommitments[0]
	outputSum := sumPoints(outputCommitments)
	cc := sources[hiddenIndex].TotalSpendingCommitment.Add(e).Subtract(vFirst).Add(outputSum)

	tuples := buildGammaTuples(sources, hashes, cc, cPrime, dPrime, aPub, bPub, j, s, sp, vFirst, outputSum)
	gamma, err := zkplmt.Create(tuples, hiddenIndex, p)
	if err != nil {
		return SpendingLimitProof{}, err
	}

	return SpendingLimitProof{
		Sources:                 sources,
		TotalSpendingCommitment: cc,
		UniqueMarker:            j,
		C:                       cPrime,
		D:                       dPrime,
		Alpha2:                  &alpha2,
		Gamma:                   &gamma,
	}, nil
}

// Verify checks proof's internal consistency against the same
// aPub/bPub/outputCommitments/s/sp a valid Generate call for the link would
// have used.
func Verify(proof SpendingLimitProof, aPub, bPub curve.Point, outputCommitments []curve.Point, s, sp curve.Point) bool {
	if err := validateChain(proof.Sources, 0); err != nil {
		return false
	}
	if len(outputCommitments) == 0 {
		return false
	}
	if proof.Alpha2 == nil || proof.Gamma == nil {
		return false
	}

	hashes := make([]curve.Point, len(proof.Sources))
	for i, src := range proof.Sources {
		hashes[i] = edwardHash(src.C, src.D)
	}

	if proof.Alpha2 != nil {
		aTuples := make([]zkplmt.Tuple, len(proof.Sources))
		for i, src := range proof.Sources {
			aTuples[i] = zkplmt.Tuple{Values: []zkplmt.CurveVector{{X: src.C, Y: proof.C}}}
		}
		if !zkplmt.Verify(aTuples, *proof.Alpha2) {
			return false
		}
	}

	vFirst := outputCommitments[0]
	outputSum := sumPoints(outputCommitments)
	tuples := buildGammaTuples(proof.Sources, hashes, proof.TotalSpendingCommitment, proof.C, proof.D, aPub, bPub, proof.UniqueMarker, s, sp, vFirst, outputSum)

	if proof.Gamma != nil {
		if !zkplmt.Verify(tuples, *proof.Gamma) {
			return false
		}
	}
	return true
}
