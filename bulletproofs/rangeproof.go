package bulletproofs

import (
	"errors"
	"fmt"

	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/transcript"
)

// RangeSize is the bit width every aggregated value is proven to fit in.
const RangeSize = 64

// RangeProof is an aggregated Bulletproofs range proof over one or more
// 64-bit values, each committed to as V[i] = value[i]*G0 + gamma[i]*H0.
type RangeProof struct {
	A, S, T1, T2   curve.Point
	TauX, Mu, THat curve.Scalar
	V              []curve.Point
	IPA            IPAProof
}

// PhaseState carries everything RangeProofPhase1 computes that
// RangeProofPhase2 needs once the T1/T2 challenge has been fixed. It exists
// so that a caller composing the range proof into a larger OR-proof can
// inject a challenge of its own choosing between the two phases instead of
// deriving it purely from T1 and T2.
type PhaseState struct {
	l0, r0, l1, r1 []curve.Scalar
	tau1, tau2     curve.Scalar
	z              curve.Scalar
	alpha, rho     curve.Scalar
	gs, hs         []curve.Point
	a, s, t1, t2   curve.Point
	y              curve.Scalar
	values         []uint64
	gammas         []curve.Scalar
}

func commitVectors(x []curve.Scalar, g []curve.Point, y []curve.Scalar, h []curve.Point) curve.Point {
	return curve.MultiScalarMult(
		append(append([]curve.Scalar{}, x...), y...),
		append(append([]curve.Point{}, g...), h...),
	)
}

func randomScalarVector(n int) ([]curve.Scalar, error) {
	out := make([]curve.Scalar, n)
	for i := range out {
		s, err := curve.RandomScalar()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// RangeProofPhase1 commits to the bit decomposition of values (padded, along
// with gammas, to the next power of two) and returns the T1/T2 commitments
// that the Fiat-Shamir challenge binding the second phase must be derived
// from.
func RangeProofPhase1(gammas []curve.Scalar, values []uint64, bases *curve.Bases) (curve.Point, curve.Point, *PhaseState, error) {
	if len(values) != len(gammas) {
		return curve.Point{}, curve.Point{}, nil, errors.New("bulletproofs: values and gammas must have equal length")
	}
	if len(values) == 0 {
		return curve.Point{}, curve.Point{}, nil, errors.New("bulletproofs: no values to prove a range over")
	}

	values = padValues(values)
	gammas = padScalars(gammas)
	m := len(values)
	n := RangeSize * m
	if len(bases.G) < n || len(bases.H) < n {
		return curve.Point{}, curve.Point{}, nil, fmt.Errorf("bulletproofs: bases support only %d generators, need %d", len(bases.G), n)
	}

	gs := bases.G[:n]
	hs := bases.H[:n]
	g, h := bases.G0, bases.H0

	aL := bitsOfValues(values, RangeSize)
	aR := subScalarVectors(aL, constVector(curve.ScalarU64(1), n))

	alpha, err := curve.RandomScalar()
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}
	sL, err := randomScalarVector(n)
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}
	sR, err := randomScalarVector(n)
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}
	rho, err := curve.RandomScalar()
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}

	A := h.ScalarMult(alpha).Add(commitVectors(aL, gs, aR, hs))
	S := h.ScalarMult(rho).Add(commitVectors(sL, gs, sR, hs))

	y := transcript.ChallengeH2(A, S)
	z := transcript.ChallengeH2(S, A)

	tau1, err := curve.RandomScalar()
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}
	tau2, err := curve.RandomScalar()
	if err != nil {
		return curve.Point{}, curve.Point{}, nil, err
	}

	zmn := constVector(z, n)
	l0 := subScalarVectors(aL, zmn)
	l1 := sL

	ymn := powersOf(y, n)
	twonZpow := multiVarPowers(curve.ScalarU64(2), z, RangeSize, m)

	r1 := mulScalarVectors(ymn, sR)
	r0 := addScalarVectors(mulScalarVectors(ymn, addScalarVectors(aR, zmn)), twonZpow)

	t1 := innerProduct(l0, r1).Add(innerProduct(l1, r0))
	t2 := innerProduct(l1, r1)

	T1 := g.ScalarMult(t1).Add(h.ScalarMult(tau1))
	T2 := g.ScalarMult(t2).Add(h.ScalarMult(tau2))

	state := &PhaseState{
		l0: l0, r0: r0, l1: l1, r1: r1,
		tau1: tau1, tau2: tau2, z: z,
		alpha: alpha, rho: rho,
		gs: gs, hs: hs, a: A, s: S, t1: T1, t2: T2, y: y,
		values: values, gammas: gammas,
	}
	return T1, T2, state, nil
}

// RangeProofPhase2 completes the proof once challenge (normally
// ChallengeH2(T1, T2), or a jointly derived challenge when this range proof
// is one branch of an OR-composition) has been fixed.
func RangeProofPhase2(bases *curve.Bases, state *PhaseState, challenge curve.Scalar) RangeProof {
	g, h := bases.G0, bases.H0
	x := challenge

	l := addScalarVectors(state.l0, scaleVector(state.l1, x))
	r := addScalarVectors(state.r0, scaleVector(state.r1, x))

	m := len(state.values)
	zM := powersOf(state.z, m)
	tauX := state.tau2.Multiply(x.Multiply(x)).
		Add(state.tau1.Multiply(x)).
		Add(state.z.Multiply(state.z).Multiply(innerProduct(zM, state.gammas)))

	tHat := innerProduct(l, r)
	mu := state.alpha.Add(state.rho.Multiply(x))

	v := make([]curve.Point, m)
	for i := range v {
		v[i] = g.ScalarMult(curve.ScalarU64(state.values[i])).Add(h.ScalarMult(state.gammas[i]))
	}

	yInv := state.y.Invert()
	hPrime := scalePoints(powersOf(yInv, RangeSize*m), state.hs)
	ipa, err := ProveIPA(state.gs, hPrime, h, l, r)
	if err != nil {
		// l and r are always a power-of-two length built from a padded m;
		// ProveIPA can only fail on a length mismatch, which cannot happen here.
		panic(fmt.Sprintf("bulletproofs: internal IPA precondition violated: %v", err))
	}

	return RangeProof{
		A: state.a, S: state.s, T1: state.t1, T2: state.t2,
		TauX: tauX, Mu: mu, THat: tHat,
		V: v, IPA: ipa,
	}
}

// Prove produces an aggregated range proof that every values[i] fits in
// RangeSize bits, using gamma[i] as the blinding factor for commitment V[i].
func Prove(gammas []curve.Scalar, values []uint64, bases *curve.Bases) (RangeProof, error) {
	t1, t2, state, err := RangeProofPhase1(gammas, values, bases)
	if err != nil {
		return RangeProof{}, err
	}
	challenge := transcript.ChallengeH2(t1, t2)
	return RangeProofPhase2(bases, state, challenge), nil
}

// ExtraHashInput binds the T1/T2 challenge to an external message and the
// two extra points a Schnorr-or-Range OR-composition hashes alongside them:
// the accountable party's public key and the Schnorr nonce commitment.
type ExtraHashInput struct {
	Message    []byte
	Key, Nonce curve.Point
}

// Verify checks proof against bases with no external binding.
func Verify(proof RangeProof, bases *curve.Bases) bool {
	return VerifyEx(proof, bases, nil, curve.ZeroScalar())
}

// VerifyEx checks proof against bases. When extra is non-nil, the T1/T2
// challenge is derived from hashing extra.Message together with T1, T2,
// extra.Key and extra.Nonce instead of just T1 and T2, and otherHash is
// subtracted from it — the binding the Schnorr-or-Range composition relies
// on.
func VerifyEx(proof RangeProof, bases *curve.Bases, extra *ExtraHashInput, otherHash curve.Scalar) bool {
	m := len(proof.V)
	if m == 0 {
		return false
	}
	n := RangeSize * m
	if len(bases.G) < n || len(bases.H) < n {
		return false
	}
	gs := bases.G[:n]
	hs := bases.H[:n]
	g, h := bases.G0, bases.H0

	var x curve.Scalar
	if extra != nil {
		x = transcript.ChallengeHD(extra.Message, proof.T1, proof.T2, extra.Key, extra.Nonce).Subtract(otherHash)
	} else {
		x = transcript.ChallengeH2(proof.T1, proof.T2)
	}
	y := transcript.ChallengeH2(proof.A, proof.S)
	z := transcript.ChallengeH2(proof.S, proof.A)

	ymn := powersOf(y, n)
	zM := powersOf(z, m)
	twon := powersOf(curve.ScalarU64(2), RangeSize)
	onen := constVector(curve.ScalarU64(1), RangeSize)
	oneM := constVector(curve.ScalarU64(1), m)
	z2zm := scaleVector(zM, z.Multiply(z).Negate())
	twonZpow := multiVarPowers(curve.ScalarU64(2), z, RangeSize, m)

	oneMN := constVector(curve.ScalarU64(1), n)
	sigma := z.Subtract(z.Multiply(z)).Multiply(innerProduct(oneMN, ymn)).
		Subtract(z.Multiply(z).Multiply(z).Multiply(innerProduct(onen, twon)).Multiply(innerProduct(zM, oneM)))

	multScalars := append([]curve.Scalar{proof.THat, proof.TauX, sigma.Negate(), x.Negate(), x.Multiply(x).Negate()}, z2zm...)
	multPoints := append([]curve.Point{g, h, g, proof.T1, proof.T2}, proof.V...)

	sum := curve.MultiScalarMult(multScalars, multPoints)
	if !sum.IsIdentity() {
		return false
	}

	yInvMN := powersOf(y.Invert(), n)
	zymn := scaleVector(ymn, z)

	hFoldScalars := append(append([]curve.Scalar{}, mulScalarVectors(twonZpow, yInvMN)...), mulScalarVectors(zymn, yInvMN)...)
	hFoldPoints := append(append([]curve.Point{}, hs...), hs...)
	hFold := curve.MultiScalarMult(hFoldScalars, hFoldPoints)

	gFold := curve.MultiScalarMult(constVector(z.Negate(), n), gs)

	P := proof.A.Add(proof.S.ScalarMult(x)).Add(gFold).Add(hFold)
	PPrime := P.Subtract(h.ScalarMult(proof.Mu)).Add(h.ScalarMult(proof.THat))

	return VerifyIPAWithHMul(gs, hs, yInvMN, h, PPrime, proof.IPA)
}
