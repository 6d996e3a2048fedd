// Package curve provides the Edwards25519 group primitives that every other
// package in this module is built on: scalar field arithmetic modulo the
// group order, point operations, compressed encoding, and the deterministic
// generator derivation used throughout the proof system.
package curve

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"filippo.io/edwards25519"
)

// GroupOrder is l, the order of the prime-order subgroup of Edwards25519.
var GroupOrder, _ = new(big.Int).SetString("1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3", 16)

// Scalar is an element of Z/l, backed by filippo.io/edwards25519's reduced
// scalar representation.
type Scalar struct {
	s *edwards25519.Scalar
}

// ZeroScalar returns the additive identity.
func ZeroScalar() Scalar {
	return Scalar{s: edwards25519.NewScalar()}
}

// RandomScalar draws a uniformly random scalar from the OS CSPRNG.
func RandomScalar() (Scalar, error) {
	var wide [64]byte
	if _, err := rand.Read(wide[:]); err != nil {
		return Scalar{}, fmt.Errorf("curve: reading randomness: %w", err)
	}
	s, err := edwards25519.NewScalar().SetUniformBytes(wide[:])
	if err != nil {
		return Scalar{}, fmt.Errorf("curve: reducing random scalar: %w", err)
	}
	return Scalar{s: s}, nil
}

// ScalarFromBigInt reduces x modulo l and returns the corresponding Scalar.
// x may be negative; the result is always in [0, l).
func ScalarFromBigInt(x *big.Int) Scalar {
	reduced := new(big.Int).Mod(x, GroupOrder)
	var le [32]byte
	leftPadThenReverse(le[:], reduced)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(le[:])
	if err != nil {
		// reduced is always < l by construction, so this can only
		// happen if GroupOrder above is wrong.
		panic(fmt.Sprintf("curve: internal scalar encoding invariant violated: %v", err))
	}
	return Scalar{s: s}
}

// ScalarFromUniformBytes reduces a 64-byte wide value modulo l, matching the
// SHA-512-based reduction used by ZKPLMT.
func ScalarFromUniformBytes(wide []byte) (Scalar, error) {
	s, err := edwards25519.NewScalar().SetUniformBytes(wide)
	if err != nil {
		return Scalar{}, fmt.Errorf("curve: reducing wide bytes: %w", err)
	}
	return Scalar{s: s}, nil
}

// ScalarFromCanonicalBytes decodes a 32-byte little-endian canonical scalar.
func ScalarFromCanonicalBytes(b []byte) (Scalar, error) {
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return Scalar{}, fmt.Errorf("curve: decoding scalar: %w", err)
	}
	return Scalar{s: s}, nil
}

// ScalarU64 wraps a small non-negative integer as a Scalar.
func ScalarU64(x uint64) Scalar {
	return ScalarFromBigInt(new(big.Int).SetUint64(x))
}

// Bytes returns the 32-byte little-endian canonical encoding.
func (a Scalar) Bytes() []byte {
	return append([]byte(nil), a.s.Bytes()...)
}

// BigInt returns the scalar as a non-negative big.Int in [0, l).
func (a Scalar) BigInt() *big.Int {
	b := a.Bytes()
	return reverseToBigInt(b)
}

func (a Scalar) Add(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Add(a.s, b.s)}
}

func (a Scalar) Subtract(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Subtract(a.s, b.s)}
}

func (a Scalar) Multiply(b Scalar) Scalar {
	return Scalar{s: edwards25519.NewScalar().Multiply(a.s, b.s)}
}

func (a Scalar) Negate() Scalar {
	return Scalar{s: edwards25519.NewScalar().Negate(a.s)}
}

// Invert returns a^-1 mod l. Panics if a is zero, mirroring the teacher's
// convention of treating inversion-of-zero as programmer error rather than
// a recoverable verification failure.
func (a Scalar) Invert() Scalar {
	if a.IsZero() {
		panic("curve: inverting zero scalar")
	}
	return Scalar{s: edwards25519.NewScalar().Invert(a.s)}
}

func (a Scalar) Equal(b Scalar) bool {
	return a.s.Equal(b.s) == 1
}

func (a Scalar) IsZero() bool {
	return a.Equal(ZeroScalar())
}

func (a Scalar) inner() *edwards25519.Scalar { return a.s }

func (a Scalar) MarshalJSON() ([]byte, error) {
	return json.Marshal(hex.EncodeToString(a.Bytes()))
}

func (a *Scalar) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("curve: decoding scalar hex: %w", err)
	}
	decoded, err := ScalarFromCanonicalBytes(b)
	if err != nil {
		return err
	}
	*a = decoded
	return nil
}

// leftPadThenReverse writes x (big-endian within math/big) into dst as a
// 32-byte little-endian buffer, left-padding with zero bytes as needed.
func leftPadThenReverse(dst []byte, x *big.Int) {
	be := x.Bytes()
	if len(be) > 32 {
		panic("curve: scalar does not fit in 32 bytes")
	}
	for i, b := range be {
		dst[len(be)-1-i] = b
	}
}

func reverseToBigInt(le []byte) *big.Int {
	be := make([]byte, len(le))
	for i, b := range le {
		be[len(le)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}
