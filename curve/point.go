package curve

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"filippo.io/edwards25519"
)

// Point is an Edwards25519 curve point. Values produced by this package's
// constructors (hash-to-curve, scalar multiplication of a subgroup point,
// Bases derivation) always lie in the prime-order subgroup; SetBytes alone
// does not enforce that, matching filippo.io/edwards25519's own contract.
type Point struct {
	p *edwards25519.Point
}

// Identity returns the group identity element.
func Identity() Point {
	return Point{p: edwards25519.NewIdentityPoint()}
}

// ScalarBaseMult returns s * B, where B is the Edwards25519 conventional
// base point (not one of this module's domain-separated generators).
func ScalarBaseMult(s Scalar) Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarBaseMult(s.inner())}
}

// PointFromBytes decodes a 32-byte compressed Edwards point.
func PointFromBytes(b []byte) (Point, error) {
	p, err := edwards25519.NewIdentityPoint().SetBytes(b)
	if err != nil {
		return Point{}, fmt.Errorf("curve: decoding point: %w", err)
	}
	return Point{p: p}, nil
}

func (a Point) Add(b Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().Add(a.p, b.p)}
}

func (a Point) Subtract(b Point) Point {
	return Point{p: edwards25519.NewIdentityPoint().Subtract(a.p, b.p)}
}

func (a Point) Negate() Point {
	return Point{p: edwards25519.NewIdentityPoint().Negate(a.p)}
}

func (a Point) ScalarMult(s Scalar) Point {
	return Point{p: edwards25519.NewIdentityPoint().ScalarMult(s.inner(), a.p)}
}

// MultByCofactor clears the cofactor (multiplies by 8), mapping a point on
// the curve into the prime-order subgroup.
func (a Point) MultByCofactor() Point {
	return Point{p: edwards25519.NewIdentityPoint().MultByCofactor(a.p)}
}

func (a Point) Equal(b Point) bool {
	return a.p.Equal(b.p) == 1
}

func (a Point) IsIdentity() bool {
	return a.Equal(Identity())
}

// Bytes returns the 32-byte compressed encoding.
func (a Point) Bytes() []byte {
	return append([]byte(nil), a.p.Bytes()...)
}

func (a Point) String() string {
	return hex.EncodeToString(a.Bytes())
}

func (a Point) inner() *edwards25519.Point { return a.p }

func (a Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *Point) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("curve: decoding point hex: %w", err)
	}
	p, err := PointFromBytes(b)
	if err != nil {
		return err
	}
	*a = p
	return nil
}

// MultiScalarMult computes sum_i scalars[i] * points[i]. Uses the
// constant-time Straus implementation; callers proving knowledge of secret
// scalars should prefer this over VarTimeMultiScalarMult.
func MultiScalarMult(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("curve: MultiScalarMult length mismatch")
	}
	ss := make([]*edwards25519.Scalar, len(scalars))
	ps := make([]*edwards25519.Point, len(points))
	for i := range scalars {
		ss[i] = scalars[i].inner()
		ps[i] = points[i].inner()
	}
	return Point{p: edwards25519.NewIdentityPoint().MultiScalarMult(ss, ps)}
}

// VarTimeMultiScalarMult is the variable-time (Pippenger) equivalent of
// MultiScalarMult, appropriate for verification where every operand is
// public.
func VarTimeMultiScalarMult(scalars []Scalar, points []Point) Point {
	if len(scalars) != len(points) {
		panic("curve: VarTimeMultiScalarMult length mismatch")
	}
	ss := make([]*edwards25519.Scalar, len(scalars))
	ps := make([]*edwards25519.Point, len(points))
	for i := range scalars {
		ss[i] = scalars[i].inner()
		ps[i] = points[i].inner()
	}
	return Point{p: edwards25519.NewIdentityPoint().VarTimeMultiScalarMult(ss, ps)}
}
