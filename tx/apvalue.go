package tx

import (
	"github.com/takakv/zkpay/aprecover"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// APValueDeclaration lets the Auditing Party recover a single output's
// value, given its private recovery key q, without the proof itself
// revealing the value to anyone else. V = gamma*G + value*L commits to the
// output's own blinding factor and value; W = gamma*apKey is the shared
// point the AP derives from its private key; C blinds both under a fresh
// per-declaration scalar so that Vc/Wc/Lcv/Rc can be published without
// leaking gamma or value directly.
type APValueDeclaration struct {
	C          curve.Scalar
	V, W       curve.Point
	Vc, Wc     curve.Point
	Lcv, Rc    curve.Point
	Proof1     zkplmt.Proof
	Proof2     zkplmt.Proof
	Proof3     zkplmt.Proof
}

// createAPValueDeclaration declares value (already committed to in the
// output's own range-proof commitment under blinding gamma) to apKey.
func createAPValueDeclaration(apKey curve.Point, value, gamma curve.Scalar) (APValueDeclaration, error) {
	V := curve.BaseG().ScalarMult(gamma).Add(curve.BaseL().ScalarMult(value))
	W := apKey.ScalarMult(gamma)

	c, err := curve.RandomScalar()
	if err != nil {
		return APValueDeclaration{}, err
	}

	Vc := V.ScalarMult(c)
	Wc := W.ScalarMult(c)
	Lcv := curve.BaseL().ScalarMult(value.Multiply(c))
	Rc := Vc.Subtract(Lcv)

	proof1, err := zkplmt.Create([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: V, Y: Vc},
		{X: W, Y: Wc},
	}}}, 0, c)
	if err != nil {
		return APValueDeclaration{}, err
	}

	proof2, err := zkplmt.Create([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseL(), Y: Lcv},
	}}}, 0, value.Multiply(c))
	if err != nil {
		return APValueDeclaration{}, err
	}

	proof3, err := zkplmt.Create([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: Rc},
	}}}, 0, gamma.Multiply(c))
	if err != nil {
		return APValueDeclaration{}, err
	}

	return APValueDeclaration{
		C: c,
		V: V, W: W,
		Vc: Vc, Wc: Wc,
		Lcv: Lcv, Rc: Rc,
		Proof1: proof1, Proof2: proof2, Proof3: proof3,
	}, nil
}

func verifyAPValueDeclaration(decl APValueDeclaration) bool {
	if !decl.Vc.Subtract(decl.Lcv).Equal(decl.Rc) {
		return false
	}
	if !zkplmt.Verify([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: decl.V, Y: decl.Vc},
		{X: decl.W, Y: decl.Wc},
	}}}, decl.Proof1) {
		return false
	}
	if !zkplmt.Verify([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseL(), Y: decl.Lcv},
	}}}, decl.Proof2) {
		return false
	}
	return zkplmt.Verify([]zkplmt.Tuple{{Values: []zkplmt.CurveVector{
		{X: curve.BaseG(), Y: decl.Rc},
	}}}, decl.Proof3)
}

// RecoverOutputValue lets the Auditing Party, holding its private recovery
// key apPrivateKey (apKey = apPrivateKey*G), recover the value committed to
// in decl using table, a precomputed aprecover.Table over curve.BaseL().
func RecoverOutputValue(table *aprecover.Table, decl APValueDeclaration, apPrivateKey curve.Scalar) (uint64, bool) {
	cGammaG := decl.Wc.ScalarMult(apPrivateKey.Invert())
	cvL := decl.Vc.Subtract(cGammaG)
	vL := cvL.ScalarMult(decl.C.Invert())
	return table.Recover(vL)
}
