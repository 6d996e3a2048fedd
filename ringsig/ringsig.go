// Package ringsig implements the blinding/value-commitment ring signature: a
// one-of-many proof that the signer knows the opening of one of a set of
// published value commitments, re-randomised ("blinded") so that the
// published commitment itself changes on every signature while the
// underlying value stays provably the same. It is built directly on top of
// package zkplmt's one-of-many linear-relation proof.
package ringsig

import (
	"errors"
	"fmt"

	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// ValueCommitmentPublic is the public half of a value commitment: a
// one-time spend key S = s*G, a value commitment V = v*s*K, and an
// accountable-party key pair (A, B = p*A) the blinding signature's key
// image is bound to.
type ValueCommitmentPublic struct {
	S, V, A, B curve.Point
}

// ValueCommitment is the private opening of a ValueCommitmentPublic: the
// committed value v and the one-time spend scalar s with S = s*G.
type ValueCommitment struct {
	Public ValueCommitmentPublic
	Value  curve.Scalar
	Secret curve.Scalar
}

// BlindingSignature is a one-of-many proof that the signer opened one of a
// set of ValueCommitmentPublics, published in a re-randomised form (Public)
// together with a key image I that lets double-signing on the same
// commitment be detected without revealing which commitment was used.
type BlindingSignature struct {
	Public ValueCommitmentPublic
	Proof  zkplmt.Proof
	I      curve.Point
}

// transformBlindingKey re-randomises vc's public commitment by the blinding
// factor t = ss/vc.Secret, producing a commitment that opens to the same
// value under the new secret ss.
func transformBlindingKey(vc ValueCommitment, ss curve.Scalar) ValueCommitment {
	t := ss.Multiply(vc.Secret.Invert())
	p := vc.Public
	return ValueCommitment{
		Public: ValueCommitmentPublic{
			S: p.S.ScalarMult(t),
			V: p.V.ScalarMult(t),
			A: p.A.ScalarMult(t),
			B: p.B.ScalarMult(t),
		},
		Value:  vc.Value,
		Secret: ss,
	}
}

// buildTuples lays out, for every candidate commitment c, the five curve
// vector pairs a ZKPLMT proof over this ring must bind: (c.S, S), (c.V, V),
// (c.A, A), (c.B, B), and (keyImage, H(c.A)) — the last pair is what turns
// the proof into a key-image-bearing signature rather than a bare
// one-of-many disclosure.
func buildTuples(candidates []ValueCommitmentPublic, transformed ValueCommitmentPublic, keyImage curve.Point) []zkplmt.Tuple {
	tuples := make([]zkplmt.Tuple, len(candidates))
	for i, c := range candidates {
		h := curve.HashToEdwards(c.A.Bytes())
		tuples[i] = zkplmt.Tuple{Values: []zkplmt.CurveVector{
			{X: c.S, Y: transformed.S},
			{X: c.V, Y: transformed.V},
			{X: c.A, Y: transformed.A},
			{X: c.B, Y: transformed.B},
			{X: keyImage, Y: h},
		}}
	}
	return tuples
}

// CreateBlindingSignature proves knowledge of the opening of
// candidates[hiddenIndex], re-randomising it under a fresh secret ss. v and
// s must be the value and one-time secret of candidates[hiddenIndex].
func CreateBlindingSignature(candidates []ValueCommitmentPublic, v, s, ss curve.Scalar, hiddenIndex int) (BlindingSignature, error) {
	if hiddenIndex < 0 || hiddenIndex >= len(candidates) {
		return BlindingSignature{}, fmt.Errorf("ringsig: hidden index %d out of range [0,%d)", hiddenIndex, len(candidates))
	}

	transformed := transformBlindingKey(ValueCommitment{
		Public: candidates[hiddenIndex],
		Secret: s,
		Value:  v,
	}, ss)

	t := ss.Multiply(s.Invert())
	keyImage := curve.HashToEdwards(candidates[hiddenIndex].A.Bytes()).ScalarMult(t.Invert())

	tuples := buildTuples(candidates, transformed.Public, keyImage)
	proof, err := zkplmt.Create(tuples, hiddenIndex, t)
	if err != nil {
		return BlindingSignature{}, err
	}

	return BlindingSignature{Proof: proof, Public: transformed.Public, I: keyImage}, nil
}

// VerifyBlindingSignatures checks that signature proves knowledge of the
// opening of one of candidates.
func VerifyBlindingSignatures(candidates []ValueCommitmentPublic, signature BlindingSignature) bool {
	tuples := buildTuples(candidates, signature.Public, signature.I)
	return zkplmt.Verify(tuples, signature.Proof)
}

// CreateRandomDivisions splits sum into count random scalars that add back
// up to sum: count-1 independently random shares, with the last share
// absorbing whatever remains. It is used to split a transaction's total
// value across its outputs without leaking the individual output values
// relative to each other.
func CreateRandomDivisions(sum curve.Scalar, count int) ([]curve.Scalar, error) {
	if count <= 0 {
		return nil, errors.New("ringsig: division count must be positive")
	}
	out := make([]curve.Scalar, 0, count)
	remaining := sum
	for i := 0; i < count-1; i++ {
		r, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		remaining = remaining.Subtract(r)
		out = append(out, r)
	}
	out = append(out, remaining)
	return out, nil
}
