package tx

import (
	"encoding/binary"

	"github.com/takakv/zkpay/bulletproofs"
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/kyc"
	"github.com/takakv/zkpay/zkplmt"
)

// MarshalBinary encodes an InputCandidate as its three fixed points (A, B,
// Commitment).
func (c InputCandidate) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 3*32)
	buf = append(buf, c.A.Bytes()...)
	buf = append(buf, c.B.Bytes()...)
	buf = append(buf, c.Commitment.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes an InputCandidate written by MarshalBinary.
func (c *InputCandidate) UnmarshalBinary(data []byte) error {
	cand, _, err := readInputCandidate(data)
	if err != nil {
		return err
	}
	*c = cand
	return nil
}

func readInputCandidate(data []byte) (InputCandidate, []byte, error) {
	if len(data) < 3*32 {
		return InputCandidate{}, nil, errTruncated("tx: InputCandidate")
	}
	var c InputCandidate
	var err error
	if c.A, err = curve.PointFromBytes(data[0:32]); err != nil {
		return InputCandidate{}, nil, err
	}
	if c.B, err = curve.PointFromBytes(data[32:64]); err != nil {
		return InputCandidate{}, nil, err
	}
	if c.Commitment, err = curve.PointFromBytes(data[64:96]); err != nil {
		return InputCandidate{}, nil, err
	}
	return c, data[96:], nil
}

// MarshalBinary encodes a ZSignature as its fixed (S, H) scalar pair.
func (s ZSignature) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, s.S.Bytes()...)
	buf = append(buf, s.H.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes a ZSignature written by MarshalBinary.
func (s *ZSignature) UnmarshalBinary(data []byte) error {
	sig, _, err := readZSignature(data)
	if err != nil {
		return err
	}
	*s = sig
	return nil
}

func readZSignature(data []byte) (ZSignature, []byte, error) {
	if len(data) < 64 {
		return ZSignature{}, nil, errTruncated("tx: ZSignature")
	}
	var s ZSignature
	var err error
	if s.S, err = curve.ScalarFromCanonicalBytes(data[:32]); err != nil {
		return ZSignature{}, nil, err
	}
	if s.H, err = curve.ScalarFromCanonicalBytes(data[32:64]); err != nil {
		return ZSignature{}, nil, err
	}
	return s, data[64:], nil
}

// MarshalBinary encodes an APKeyDeclaration as its seven fixed points (S,
// SPrime, ZPrime, X, Y, Qs, Qsz) followed by Proof1 and Proof2.
func (d APKeyDeclaration) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 7*32)
	buf = append(buf, d.S.Bytes()...)
	buf = append(buf, d.SPrime.Bytes()...)
	buf = append(buf, d.ZPrime.Bytes()...)
	buf = append(buf, d.X.Bytes()...)
	buf = append(buf, d.Y.Bytes()...)
	buf = append(buf, d.Qs.Bytes()...)
	buf = append(buf, d.Qsz.Bytes()...)
	p1, err := d.Proof1.MarshalBinary()
	if err != nil {
		return nil, err
	}
	p2, err := d.Proof2.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, p1...)
	buf = append(buf, p2...)
	return buf, nil
}

// UnmarshalBinary decodes an APKeyDeclaration written by MarshalBinary.
func (d *APKeyDeclaration) UnmarshalBinary(data []byte) error {
	decl, _, err := readAPKeyDeclaration(data)
	if err != nil {
		return err
	}
	*d = decl
	return nil
}

func readAPKeyDeclaration(data []byte) (APKeyDeclaration, []byte, error) {
	if len(data) < 7*32 {
		return APKeyDeclaration{}, nil, errTruncated("tx: APKeyDeclaration header")
	}
	var d APKeyDeclaration
	var err error
	if d.S, err = curve.PointFromBytes(data[0:32]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.SPrime, err = curve.PointFromBytes(data[32:64]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.ZPrime, err = curve.PointFromBytes(data[64:96]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.X, err = curve.PointFromBytes(data[96:128]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.Y, err = curve.PointFromBytes(data[128:160]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.Qs, err = curve.PointFromBytes(data[160:192]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	if d.Qsz, err = curve.PointFromBytes(data[192:224]); err != nil {
		return APKeyDeclaration{}, nil, err
	}
	p1, rest, err := zkplmt.ReadProof(data[224:])
	if err != nil {
		return APKeyDeclaration{}, nil, err
	}
	p2, rest, err := zkplmt.ReadProof(rest)
	if err != nil {
		return APKeyDeclaration{}, nil, err
	}
	d.Proof1, d.Proof2 = p1, p2
	return d, rest, nil
}

// MarshalBinary encodes an APValueDeclaration as the scalar C, the six
// fixed points (V, W, Vc, Wc, Lcv, Rc), and Proof1/Proof2/Proof3.
func (d APValueDeclaration) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 7*32)
	buf = append(buf, d.C.Bytes()...)
	buf = append(buf, d.V.Bytes()...)
	buf = append(buf, d.W.Bytes()...)
	buf = append(buf, d.Vc.Bytes()...)
	buf = append(buf, d.Wc.Bytes()...)
	buf = append(buf, d.Lcv.Bytes()...)
	buf = append(buf, d.Rc.Bytes()...)
	for _, proof := range []zkplmt.Proof{d.Proof1, d.Proof2, d.Proof3} {
		pb, err := proof.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, pb...)
	}
	return buf, nil
}

// UnmarshalBinary decodes an APValueDeclaration written by MarshalBinary.
func (d *APValueDeclaration) UnmarshalBinary(data []byte) error {
	decl, _, err := readAPValueDeclaration(data)
	if err != nil {
		return err
	}
	*d = decl
	return nil
}

func readAPValueDeclaration(data []byte) (APValueDeclaration, []byte, error) {
	if len(data) < 7*32 {
		return APValueDeclaration{}, nil, errTruncated("tx: APValueDeclaration header")
	}
	var d APValueDeclaration
	var err error
	if d.C, err = curve.ScalarFromCanonicalBytes(data[0:32]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.V, err = curve.PointFromBytes(data[32:64]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.W, err = curve.PointFromBytes(data[64:96]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.Vc, err = curve.PointFromBytes(data[96:128]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.Wc, err = curve.PointFromBytes(data[128:160]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.Lcv, err = curve.PointFromBytes(data[160:192]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	if d.Rc, err = curve.PointFromBytes(data[192:224]); err != nil {
		return APValueDeclaration{}, nil, err
	}
	rest := data[224:]
	p1, rest, err := zkplmt.ReadProof(rest)
	if err != nil {
		return APValueDeclaration{}, nil, err
	}
	p2, rest, err := zkplmt.ReadProof(rest)
	if err != nil {
		return APValueDeclaration{}, nil, err
	}
	p3, rest, err := zkplmt.ReadProof(rest)
	if err != nil {
		return APValueDeclaration{}, nil, err
	}
	d.Proof1, d.Proof2, d.Proof3 = p1, p2, p3
	return d, rest, nil
}

// MarshalBinary encodes an Output as its two fixed points (Commitment,
// OneTimeKey) followed by the AP value declaration.
func (o Output) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 2*32)
	buf = append(buf, o.Commitment.Bytes()...)
	buf = append(buf, o.OneTimeKey.Bytes()...)
	valueBytes, err := o.Value.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, valueBytes...)
	return buf, nil
}

// UnmarshalBinary decodes an Output written by MarshalBinary.
func (o *Output) UnmarshalBinary(data []byte) error {
	out, _, err := readOutput(data)
	if err != nil {
		return err
	}
	*o = out
	return nil
}

func readOutput(data []byte) (Output, []byte, error) {
	if len(data) < 2*32 {
		return Output{}, nil, errTruncated("tx: Output header")
	}
	var o Output
	var err error
	if o.Commitment, err = curve.PointFromBytes(data[0:32]); err != nil {
		return Output{}, nil, err
	}
	if o.OneTimeKey, err = curve.PointFromBytes(data[32:64]); err != nil {
		return Output{}, nil, err
	}
	value, rest, err := readAPValueDeclaration(data[64:])
	if err != nil {
		return Output{}, nil, err
	}
	o.Value = value
	return o, rest, nil
}

// MarshalBinary encodes a Transaction following its declared field order:
// the ring of input-candidate sets, key images, the balance nonce Z and its
// signature, the ring ZKPLMT proof, the AP key declaration, the outputs,
// the aggregated range proof, and, if present, the spending-limit proof.
func (t Transaction) MarshalBinary() ([]byte, error) {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(t.InputSets)))
	for _, set := range t.InputSets {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(set)))
		for _, c := range set {
			cb, err := c.MarshalBinary()
			if err != nil {
				return nil, err
			}
			buf = append(buf, cb...)
		}
	}

	buf = curve.AppendPointVector(buf, t.KeyImages)
	buf = append(buf, t.Z.Bytes()...)

	alphaBytes, err := t.Alpha.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, alphaBytes...)

	ringBytes, err := t.Ring.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, ringBytes...)

	apKeyBytes, err := t.APKey.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, apKeyBytes...)

	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(t.Outputs)))
	for _, o := range t.Outputs {
		ob, err := o.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, ob...)
	}

	rangeBytes, err := t.RangeProof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, rangeBytes...)

	if t.HasKYC {
		buf = append(buf, 1)
		kycBytes, err := t.KYC.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, kycBytes...)
	} else {
		buf = append(buf, 0)
	}

	return buf, nil
}

// UnmarshalBinary decodes a Transaction written by MarshalBinary.
func (t *Transaction) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errTruncated("tx: Transaction.InputSets length")
	}
	setCount := binary.LittleEndian.Uint32(data)
	data = data[4:]

	inputSets := make([][]InputCandidate, setCount)
	for i := range inputSets {
		if len(data) < 4 {
			return errTruncated("tx: Transaction.InputSets element length")
		}
		candidateCount := binary.LittleEndian.Uint32(data)
		data = data[4:]
		set := make([]InputCandidate, candidateCount)
		for j := range set {
			c, rest, err := readInputCandidate(data)
			if err != nil {
				return err
			}
			set[j] = c
			data = rest
		}
		inputSets[i] = set
	}

	keyImages, data, err := curve.ReadPointVector(data)
	if err != nil {
		return err
	}
	if len(data) < 32 {
		return errTruncated("tx: Transaction.Z")
	}
	z, err := curve.PointFromBytes(data[:32])
	if err != nil {
		return err
	}
	data = data[32:]

	alpha, data, err := readZSignature(data)
	if err != nil {
		return err
	}
	ring, data, err := zkplmt.ReadProof(data)
	if err != nil {
		return err
	}
	apKey, data, err := readAPKeyDeclaration(data)
	if err != nil {
		return err
	}

	if len(data) < 4 {
		return errTruncated("tx: Transaction.Outputs length")
	}
	outputCount := binary.LittleEndian.Uint32(data)
	data = data[4:]
	outputs := make([]Output, outputCount)
	for i := range outputs {
		o, rest, err := readOutput(data)
		if err != nil {
			return err
		}
		outputs[i] = o
		data = rest
	}

	rangeProof, data, err := bulletproofs.ReadRangeProof(data)
	if err != nil {
		return err
	}

	if len(data) < 1 {
		return errTruncated("tx: Transaction.HasKYC flag")
	}
	hasKYC := data[0] == 1
	data = data[1:]

	var kycProof kyc.SpendingLimitProof
	if hasKYC {
		if err := kycProof.UnmarshalBinary(data); err != nil {
			return err
		}
	}

	t.InputSets = inputSets
	t.KeyImages = keyImages
	t.Z = z
	t.Alpha = alpha
	t.Ring = ring
	t.APKey = apKey
	t.Outputs = outputs
	t.RangeProof = rangeProof
	t.HasKYC = hasKYC
	t.KYC = kycProof
	return nil
}

type marshalError string

func (e marshalError) Error() string { return string(e) }

func errTruncated(what string) error { return marshalError(what + ": truncated encoding") }
