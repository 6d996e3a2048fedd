package tx

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/takakv/zkpay/bulletproofs"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/kyc"
	"github.com/takakv/zkpay/transcript"
	"github.com/takakv/zkpay/zkplmt"
)

// candidateRow pairs a ring tuple with the input set it was built from, so
// that shuffling the tuples for Fiat-Shamir hiding also shuffles the
// InputSets a verifier needs to reconstruct the same tuples.
type candidateRow struct {
	tuple zkplmt.Tuple
	set   []InputCandidate
}

func oneTimeKeyHash(a, b curve.Point) curve.Point {
	buf := append(append([]byte{}, a.Bytes()...), b.Bytes()...)
	return curve.HashToEdwards(buf)
}

// contextDigest binds the balance signature to the transaction's key images
// and output commitments, so that Alpha cannot be replayed against a
// different Z or a different set of outputs.
func contextDigest(keyImages, outputs []curve.Point) []byte {
	h := sha256.New()
	for _, k := range keyImages {
		h.Write(k.Bytes())
	}
	for _, o := range outputs {
		h.Write(o.Bytes())
	}
	return h.Sum(nil)
}

func signZ(bases *curve.Bases, msg []byte, z curve.Scalar, Z curve.Point) (ZSignature, error) {
	r, err := curve.RandomScalar()
	if err != nil {
		return ZSignature{}, err
	}
	R := bases.H0.ScalarMult(r)
	h := transcript.ChallengeHD(msg, R, Z)
	s := r.Subtract(h.Multiply(z))
	return ZSignature{S: s, H: h}, nil
}

func verifyZ(bases *curve.Bases, msg []byte, sig ZSignature, Z curve.Point) bool {
	R := curve.MultiScalarMult([]curve.Scalar{sig.S, sig.H}, []curve.Point{bases.H0, Z})
	h := transcript.ChallengeHD(msg, R, Z)
	return h.Equal(sig.H)
}

func sumCommitments(points []curve.Point) curve.Point {
	sum := curve.Identity()
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum
}

// buildRingTuple lays out the ZKPLMT tuple one candidate input set must
// satisfy: an ownership row and a key-image row for each input, the
// transaction's one-time-key row (S, S'), and the balance row that ties
// Z = z*H0 to the difference between the set's input commitments and the
// transaction's output commitments. A tuple is satisfied under secret p
// exactly when the candidate owns every input, the key images are correctly
// derived, S' = p*S, and the inputs and outputs balance (input sum - output
// sum = z*p*H0, i.e. the same p also opens the balance row against Z).
func buildRingTuple(set []InputCandidate, keyImages []curve.Point, S, SPrime, Z curve.Point, outputCommitments []curve.Point) zkplmt.Tuple {
	n := len(set)
	values := make([]zkplmt.CurveVector, 0, 2*n+2)
	for i := 0; i < n; i++ {
		values = append(values, zkplmt.CurveVector{X: set[i].A, Y: set[i].B})
	}
	for i := 0; i < n; i++ {
		values = append(values, zkplmt.CurveVector{X: oneTimeKeyHash(set[i].A, set[i].B), Y: keyImages[i]})
	}
	values = append(values, zkplmt.CurveVector{X: S, Y: SPrime})

	deltaC := curve.Identity()
	for _, in := range set {
		deltaC = deltaC.Add(in.Commitment)
	}
	deltaC = deltaC.Subtract(sumCommitments(outputCommitments))
	values = append(values, zkplmt.CurveVector{X: Z, Y: deltaC})

	return zkplmt.Tuple{Values: values}
}

// CreateTransaction assembles a transaction spending inputs[trueIndex] (with
// per-input opening secrets rIn, and whose one-time keys share spend secret
// p) against the other candidate input sets in inputs, producing outputs of
// value vOut to outPubKeys, an aggregated range proof over those outputs, an
// Auditing Party key declaration under apKey, and, if kycSources is
// non-empty, a spending-limit chain link extending kycSources[kycIndex].
func CreateTransaction(
	bases *curve.Bases,
	inputs [][]InputCandidate,
	trueIndex int,
	rIn []curve.Scalar,
	vOut []*big.Int,
	outPubKeys []curve.Point,
	p curve.Scalar,
	apKey curve.Point,
	kycSources []kyc.SpendingLimitProof,
	kycIndex int,
) (Transaction, error) {
	m := len(inputs)
	if m == 0 {
		return Transaction{}, errors.New("tx: no candidate input sets")
	}
	n := len(inputs[0])
	if n == 0 {
		return Transaction{}, errors.New("tx: input sets must be non-empty")
	}
	for j, set := range inputs {
		if len(set) != n {
			return Transaction{}, fmt.Errorf("tx: input set %d has %d members, want %d", j, len(set), n)
		}
	}
	if trueIndex < 0 || trueIndex >= m {
		return Transaction{}, fmt.Errorf("tx: true index %d out of range [0,%d)", trueIndex, m)
	}
	if len(rIn) != n {
		return Transaction{}, fmt.Errorf("tx: rIn has %d entries, want %d", len(rIn), n)
	}
	if len(vOut) == 0 {
		return Transaction{}, errors.New("tx: no outputs")
	}
	if len(outPubKeys) != len(vOut) {
		return Transaction{}, errors.New("tx: outPubKeys must match vOut in length")
	}

	values := make([]uint64, len(vOut))
	for i, v := range vOut {
		if v.Sign() < 0 || !v.IsUint64() {
			return Transaction{}, fmt.Errorf("tx: output %d value does not fit a 64-bit range", i)
		}
		values[i] = v.Uint64()
	}

	keyImages := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		h := oneTimeKeyHash(inputs[trueIndex][i].A, inputs[trueIndex][i].B)
		keyImages[i] = h.ScalarMult(p)
	}

	gammaIn := curve.ZeroScalar()
	for _, r := range rIn {
		gammaIn = gammaIn.Add(r)
	}

	z, err := curve.RandomScalar()
	if err != nil {
		return Transaction{}, err
	}
	Z := bases.H0.ScalarMult(z)

	gammaOut := make([]curve.Scalar, len(values))
	gammaSum := curve.ZeroScalar()
	for i := 0; i < len(values)-1; i++ {
		g, err := curve.RandomScalar()
		if err != nil {
			return Transaction{}, err
		}
		gammaOut[i] = g
		gammaSum = gammaSum.Add(g)
	}
	gammaOut[len(values)-1] = gammaIn.Subtract(gammaSum).Subtract(p.Multiply(z))

	outputCommitments := make([]curve.Point, len(values))
	for i := range values {
		outputCommitments[i] = bases.G0.ScalarMult(curve.ScalarU64(values[i])).Add(bases.H0.ScalarMult(gammaOut[i]))
	}

	sSecret, err := curve.RandomScalar()
	if err != nil {
		return Transaction{}, err
	}
	S := curve.BaseG().ScalarMult(sSecret)
	SPrime := S.ScalarMult(p)

	rows := make([]candidateRow, m)
	for j, set := range inputs {
		rows[j] = candidateRow{
			tuple: buildRingTuple(set, keyImages, S, SPrime, Z, outputCommitments),
			set:   set,
		}
	}
	rows[0], rows[trueIndex] = rows[trueIndex], rows[0]

	tags := make([]uint32, m)
	var raw [4]byte
	for i := range tags {
		if _, err := rand.Read(raw[:]); err != nil {
			return Transaction{}, fmt.Errorf("tx: reading shuffle randomness: %w", err)
		}
		tags[i] = binary.LittleEndian.Uint32(raw[:])
	}
	newIndex := zkplmt.JointSort(tags, rows)

	shuffledTuples := make([]zkplmt.Tuple, m)
	shuffledSets := make([][]InputCandidate, m)
	for j, r := range rows {
		shuffledTuples[j] = r.tuple
		shuffledSets[j] = r.set
	}

	ring, err := zkplmt.Create(shuffledTuples, newIndex, p)
	if err != nil {
		return Transaction{}, err
	}

	msg := contextDigest(keyImages, outputCommitments)
	alpha, err := signZ(bases, msg, z, Z)
	if err != nil {
		return Transaction{}, err
	}

	apKeyDecl, err := createAPKeyDeclaration(apKey, p, sSecret, S, SPrime)
	if err != nil {
		return Transaction{}, err
	}

	outputs := make([]Output, len(values))
	for i := range values {
		decl, err := createAPValueDeclaration(apKey, curve.ScalarU64(values[i]), gammaOut[i])
		if err != nil {
			return Transaction{}, err
		}
		outputs[i] = Output{Commitment: outputCommitments[i], OneTimeKey: outPubKeys[i], Value: decl}
	}

	rangeProof, err := bulletproofs.Prove(append([]curve.Scalar(nil), gammaOut...), values, bases)
	if err != nil {
		return Transaction{}, err
	}

	transaction := Transaction{
		InputSets:  shuffledSets,
		KeyImages:  keyImages,
		Z:          Z,
		Alpha:      alpha,
		Ring:       ring,
		APKey:      apKeyDecl,
		Outputs:    outputs,
		RangeProof: rangeProof,
	}

	if len(kycSources) > 0 {
		chainProof, err := kyc.Generate(kycSources, S, SPrime, outputCommitments, S, SPrime, kycIndex, p)
		if err != nil {
			return Transaction{}, err
		}
		transaction.HasKYC = true
		transaction.KYC = chainProof
	}

	return transaction, nil
}

// VerifyTransaction checks every component of transaction: the ring
// balance-and-ownership proof, the range proof over the outputs, the
// balance signature, the Auditing Party key declaration against apKey, each
// output's AP value declaration, and, if present, the spending-limit chain
// link.
func VerifyTransaction(bases *curve.Bases, apKey curve.Point, transaction Transaction) bool {
	m := len(transaction.InputSets)
	if m == 0 {
		return false
	}
	n := len(transaction.InputSets[0])
	if n == 0 || len(transaction.KeyImages) != n {
		return false
	}
	for _, set := range transaction.InputSets {
		if len(set) != n {
			return false
		}
	}
	if len(transaction.Outputs) == 0 {
		return false
	}

	outputCommitments := make([]curve.Point, len(transaction.Outputs))
	for i, o := range transaction.Outputs {
		outputCommitments[i] = o.Commitment
	}

	// The range proof pads its value vector to the next power of two;
	// only the leading len(outputCommitments) entries correspond to real
	// outputs, the rest are the prover's committed-to-zero padding slots.
	if len(transaction.RangeProof.V) < len(outputCommitments) {
		return false
	}
	for i := range outputCommitments {
		if !outputCommitments[i].Equal(transaction.RangeProof.V[i]) {
			return false
		}
	}
	if !bulletproofs.Verify(transaction.RangeProof, bases) {
		return false
	}

	tuples := make([]zkplmt.Tuple, m)
	for j, set := range transaction.InputSets {
		tuples[j] = buildRingTuple(set, transaction.KeyImages, transaction.APKey.S, transaction.APKey.SPrime, transaction.Z, outputCommitments)
	}
	if !zkplmt.Verify(tuples, transaction.Ring) {
		return false
	}

	msg := contextDigest(transaction.KeyImages, outputCommitments)
	if !verifyZ(bases, msg, transaction.Alpha, transaction.Z) {
		return false
	}

	if !verifyAPKeyDeclaration(transaction.APKey, apKey) {
		return false
	}

	for _, o := range transaction.Outputs {
		if !verifyAPValueDeclaration(o.Value) {
			return false
		}
	}

	if transaction.HasKYC {
		if !kyc.Verify(transaction.KYC, transaction.APKey.S, transaction.APKey.SPrime, outputCommitments, transaction.APKey.S, transaction.APKey.SPrime) {
			return false
		}
	}

	return true
}
