package curve

import (
	"crypto/sha256"
	"errors"
	"math/big"
)

// Bases is the long-lived generator set that every Bulletproof, range
// proof, and transaction in this module is built against. G0/H0 anchor the
// Pedersen commitments used throughout; G/H are the per-bit vector
// generators consumed by the inner-product argument. A Bases value has no
// mutable state after DeriveBases returns, so it is safe to share across
// goroutines and across proofs.
type Bases struct {
	G0 Point
	H0 Point
	G  []Point
	H  []Point
}

// DeriveBases deterministically derives 64*mMax generators for both G and H
// from the seed points g0, h0. Any two callers that derive from the same
// (g0, h0, mMax) obtain byte-identical bases, which is what lets
// independent provers and verifiers agree on the Bulletproof generators
// without exchanging them.
func DeriveBases(g0, h0 Point, mMax int) (*Bases, error) {
	if mMax <= 0 {
		return nil, errors.New("curve: DeriveBases requires mMax > 0")
	}

	n := 64 * mMax
	g := make([]Point, n)
	h := make([]Point, n)

	curG, curH := g0, h0
	for i := 0; i < n; i++ {
		e := hashToScalar(curG, curH)
		g[i] = curG.ScalarMult(e)

		ePrime := hashToScalar(curH, curG)
		h[i] = curH.ScalarMult(ePrime)

		curG, curH = g[i], h[i]
	}

	return &Bases{G0: g0, H0: h0, G: g, H: h}, nil
}

// hashToScalar implements the "SHA-256(a||b) reduced mod l" step used by
// Bases derivation.
func hashToScalar(a, b Point) Scalar {
	hasher := sha256.New()
	hasher.Write(a.Bytes())
	hasher.Write(b.Bytes())
	digest := hasher.Sum(nil)
	return ScalarFromBigInt(new(big.Int).SetBytes(digest))
}
