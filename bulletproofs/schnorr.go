package bulletproofs

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/transcript"
)

// SchnorrSignature is a (response, challenge) pair, the "modified" form used
// throughout this package where the challenge itself is carried in the
// signature rather than recomputed purely from the message, so that it can
// be offset by a fake_hash / other_hash term when composed into an
// OR-proof.
type SchnorrSignature struct {
	S, H curve.Scalar
}

// CreateModifiedSchnorr proves knowledge of privateKey for P = privateKey*G0,
// binding message and two extra points into the challenge and subtracting
// fakeHash from it. Passing a zero fakeHash yields an ordinary Schnorr
// signature over (message, extraPoints, P).
func CreateModifiedSchnorr(bases *curve.Bases, message []byte, privateKey curve.Scalar, extraPoints [2]curve.Point, fakeHash curve.Scalar) (SchnorrSignature, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return SchnorrSignature{}, err
	}
	p := bases.G0.ScalarMult(privateKey)
	R := bases.G0.ScalarMult(r)
	h := transcript.ChallengeHD(message, extraPoints[0], extraPoints[1], p, R).Subtract(fakeHash)
	s := r.Subtract(h.Multiply(privateKey))
	return SchnorrSignature{S: s, H: h}, nil
}

// VerifyModifiedSchnorr checks signature against public key P, the same
// message, extraPoints and otherHash used to create it.
func VerifyModifiedSchnorr(bases *curve.Bases, message []byte, signature SchnorrSignature, p curve.Point, extraPoints [2]curve.Point, otherHash curve.Scalar) bool {
	R := curve.MultiScalarMult([]curve.Scalar{signature.S, signature.H}, []curve.Point{bases.G0, p})
	hash := transcript.ChallengeHD(message, extraPoints[0], extraPoints[1], p, R).Subtract(otherHash)
	return hash.Equal(signature.H)
}

// RangeOrSchnorrProof is a disjunctive proof that either the AP declared a
// true value commitment backed by a range proof, or the AP signed the
// message with its own key. Exactly one of the two branches is real; the
// other is simulated, and a verifier cannot tell which.
type RangeOrSchnorrProof struct {
	RangeProof RangeProof
	Schnorr    SchnorrSignature
	RangeHash  curve.Scalar
}

func randomUint64() (uint64, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 0, fmt.Errorf("bulletproofs: reading randomness: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// CreateRangeOrSchnorrFakeRange builds a RangeOrSchnorrProof whose real
// branch is the Schnorr signature: the range proof is simulated to commit
// to v (via V), while genuinely proving a random decoy value, and the
// Schnorr signature over apPrivateKey carries the real challenge.
func CreateRangeOrSchnorrFakeRange(gamma, v curve.Scalar, bases *curve.Bases, apPrivateKey curve.Scalar, schnorrMessage []byte) (RangeOrSchnorrProof, error) {
	V := bases.G0.ScalarMult(v).Add(bases.H0.ScalarMult(gamma))

	decoy, err := randomUint64()
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}
	challenge, err := curve.RandomScalar()
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}

	t1, t2, state, err := RangeProofPhase1([]curve.Scalar{gamma}, []uint64{decoy}, bases)
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}

	vDiff := v.Subtract(curve.ScalarU64(decoy))
	offset := state.z.Multiply(state.z).Multiply(challenge.Invert()).Multiply(vDiff)
	state.t1 = t1.Subtract(bases.G0.ScalarMult(offset))

	sig, err := CreateModifiedSchnorr(bases, schnorrMessage, apPrivateKey, [2]curve.Point{state.t1, t2}, challenge)
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}

	rp := RangeProofPhase2(bases, state, challenge)
	rp.V[0] = V

	return RangeOrSchnorrProof{RangeProof: rp, Schnorr: sig, RangeHash: challenge}, nil
}

// CreateRangeOrSchnorrFakeSchnorr builds a RangeOrSchnorrProof whose real
// branch is the range proof over v with blinding gamma; the Schnorr
// signature half is simulated.
func CreateRangeOrSchnorrFakeSchnorr(gamma curve.Scalar, v uint64, bases *curve.Bases, apKey curve.Point, schnorrMessage []byte) (RangeOrSchnorrProof, error) {
	s, err := curve.RandomScalar()
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}
	h, err := curve.RandomScalar()
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}
	R := bases.G0.ScalarMult(s).Add(apKey.ScalarMult(h))

	t1, t2, state, err := RangeProofPhase1([]curve.Scalar{gamma}, []uint64{v}, bases)
	if err != nil {
		return RangeOrSchnorrProof{}, err
	}

	hash := transcript.ChallengeHD(schnorrMessage, t1, t2, apKey, R)
	challenge := hash.Subtract(h)

	rp := RangeProofPhase2(bases, state, challenge)

	return RangeOrSchnorrProof{RangeProof: rp, Schnorr: SchnorrSignature{S: s, H: h}, RangeHash: challenge}, nil
}

// VerifyRangeOrSchnorr checks proof against the accountable party's public
// key apKey and the bound message.
func VerifyRangeOrSchnorr(bases *curve.Bases, proof RangeOrSchnorrProof, apKey curve.Point, message []byte) bool {
	T1, T2 := proof.RangeProof.T1, proof.RangeProof.T2
	R := curve.MultiScalarMult([]curve.Scalar{proof.Schnorr.S, proof.Schnorr.H}, []curve.Point{bases.G0, apKey})
	hash := transcript.ChallengeHD(message, T1, T2, apKey, R)

	if !hash.Equal(proof.Schnorr.H.Add(proof.RangeHash)) {
		return false
	}
	if !VerifyEx(proof.RangeProof, bases, &ExtraHashInput{Message: message, Key: apKey, Nonce: R}, proof.Schnorr.H) {
		return false
	}
	return VerifyModifiedSchnorr(bases, message, proof.Schnorr, apKey, [2]curve.Point{T1, T2}, proof.RangeHash)
}
