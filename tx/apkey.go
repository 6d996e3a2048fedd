package tx

import (
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// APKeyDeclaration binds a transaction's one-time spend key S = s*G to the
// Auditing Party's public key apKey = q*G, so that the AP (and only the AP,
// holding q) can recompute Qs = q*S = s*q*G itself and match it against the
// published Qs. ZPrime/X/Y/Qsz exist only to let a verifier check this
// binding without learning s.
type APKeyDeclaration struct {
	S, SPrime curve.Point
	ZPrime    curve.Point
	X, Y      curve.Point
	Qs, Qsz   curve.Point
	Proof1    zkplmt.Proof
	Proof2    zkplmt.Proof
}

// createAPKeyDeclaration proves, without revealing s or zPrime, that S = s*G,
// Y = s*X and Qs = s*apKey share the same s (Proof1), and that
// ZPrime = zPrime*G and Qsz = zPrime*Qs share the same zPrime (Proof2). X is
// computed as zPrime*apKey + p*G, but neither proof covers how X is formed;
// SPrime = p*S is carried in the declaration and is not covered by either
// proof here (the transaction's ring proof binds it).
func createAPKeyDeclaration(apKey curve.Point, p, s curve.Scalar, S, SPrime curve.Point) (APKeyDeclaration, error) {
	zPrime, err := curve.RandomScalar()
	if err != nil {
		return APKeyDeclaration{}, err
	}

	Zp := curve.BaseG().ScalarMult(zPrime)
	P := curve.BaseG().ScalarMult(p)
	X := apKey.ScalarMult(zPrime).Add(P)
	Y := X.ScalarMult(s)
	Qs := apKey.ScalarMult(s)
	Qsz := Qs.ScalarMult(zPrime)

	proof1, err := zkplmt.Create([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: S},
		{X: X, Y: Y},
		{X: apKey, Y: Qs},
	}}}, 0, s)
	if err != nil {
		return APKeyDeclaration{}, err
	}

	proof2, err := zkplmt.Create([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: Zp},
		{X: Qs, Y: Qsz},
	}}}, 0, zPrime)
	if err != nil {
		return APKeyDeclaration{}, err
	}

	return APKeyDeclaration{
		S: S, SPrime: SPrime,
		ZPrime: Zp, X: X, Y: Y,
		Qs: Qs, Qsz: Qsz,
		Proof1: proof1, Proof2: proof2,
	}, nil
}

func verifyAPKeyDeclaration(decl APKeyDeclaration, apKey curve.Point) bool {
	tuple1 := zkplmt.Tuple{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: decl.S},
		{X: decl.X, Y: decl.Y},
		{X: apKey, Y: decl.Qs},
	}}
	if !zkplmt.Verify([]zkplmt.Tuple{tuple1}, decl.Proof1) {
		return false
	}

	tuple2 := zkplmt.Tuple{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: decl.ZPrime},
		{X: decl.Qs, Y: decl.Qsz},
	}}
	return zkplmt.Verify([]zkplmt.Tuple{tuple2}, decl.Proof2)
}
