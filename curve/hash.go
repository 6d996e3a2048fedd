package curve

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"
)

// HashToEdwards maps an arbitrary byte string onto a point in the
// prime-order subgroup. It repeatedly extends input with an extra zero byte
// (acting as a unary counter), hashes the growing buffer with SHA-256, XORs
// the result with SHA-256(input) (guarding against a second-preimage
// shortcut that would let an attacker reuse a hash computed for a shorter
// counter), attempts to decompress the result as a curve point, and
// multiplies any successful decompression by the cofactor. The loop repeats
// on decompression failure or identity until it succeeds, which happens
// with overwhelming probability within a handful of iterations.
func HashToEdwards(input []byte) Point {
	sourceHash := sha256.Sum256(input)

	buf := append([]byte(nil), input...)
	for {
		buf = append(buf, 0)
		h := sha256.Sum256(buf)
		for i := range h {
			h[i] ^= sourceHash[i]
		}

		candidate, err := PointFromBytes(h[:])
		if err != nil {
			continue
		}
		cleared := candidate.MultByCofactor()
		if !cleared.IsIdentity() {
			return cleared
		}
	}
}

// RandomPoint samples a uniformly random subgroup point by hashing 8 bytes
// of OS randomness onto the curve. Used where a domain-separated generator
// is not required, e.g. test fixtures and the reference's
// get_random_curve_point.
func RandomPoint() (Point, error) {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return Point{}, fmt.Errorf("curve: reading randomness: %w", err)
	}
	return HashToEdwards(seed[:]), nil
}

var (
	baseG Point
	baseK Point
	baseL Point
)

func init() {
	baseG = HashToEdwards([]byte("XAND"))
	baseK = HashToEdwards([]byte("Transparent"))
	baseL = HashToEdwards([]byte("Systems"))
}

// BaseG is the fixed, domain-separated generator G: the base of one-time
// spend keys S = s*G and of the blinding term r*G in commitments of the
// form r*G + v*L.
func BaseG() Point { return baseG }

// BaseK is the fixed, domain-separated generator K that value commitments
// V = v*s*K in the blinding signature (§4.7) are taken over.
func BaseK() Point { return baseK }

// BaseL is the fixed, domain-separated generator L that carries the value v
// in commitments of the form r*G + v*L.
func BaseL() Point { return baseL }
