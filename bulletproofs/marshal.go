package bulletproofs

import "github.com/takakv/zkpay/curve"

// MarshalBinary encodes an IPAProof as length-prefixed L and R point
// vectors followed by the fixed-size (A, B) scalar pair.
func (p IPAProof) MarshalBinary() ([]byte, error) {
	buf := curve.AppendPointVector(nil, p.L)
	buf = curve.AppendPointVector(buf, p.R)
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.B.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes an IPAProof written by MarshalBinary.
func (p *IPAProof) UnmarshalBinary(data []byte) error {
	proof, _, err := ReadIPAProof(data)
	if err != nil {
		return err
	}
	*p = proof
	return nil
}

// ReadIPAProof decodes an IPAProof from the front of data, returning the
// decoded proof and the unconsumed remainder, so composite encodings
// (RangeProof, and tx's transaction encoding through it) can embed one
// followed by more fields.
func ReadIPAProof(data []byte) (IPAProof, []byte, error) {
	l, rest, err := curve.ReadPointVector(data)
	if err != nil {
		return IPAProof{}, nil, err
	}
	r, rest, err := curve.ReadPointVector(rest)
	if err != nil {
		return IPAProof{}, nil, err
	}
	if len(rest) < 64 {
		return IPAProof{}, nil, errTruncated("bulletproofs: IPAProof")
	}
	a, err := curve.ScalarFromCanonicalBytes(rest[:32])
	if err != nil {
		return IPAProof{}, nil, err
	}
	b, err := curve.ScalarFromCanonicalBytes(rest[32:64])
	if err != nil {
		return IPAProof{}, nil, err
	}
	return IPAProof{L: l, R: r, A: a, B: b}, rest[64:], nil
}

// MarshalBinary encodes a RangeProof as its four fixed commitment points
// (A, S, T1, T2), the three scalars (TauX, Mu, THat), the length-prefixed V
// vector, and the nested IPA proof, in that order.
func (p RangeProof) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 7*32)
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.S.Bytes()...)
	buf = append(buf, p.T1.Bytes()...)
	buf = append(buf, p.T2.Bytes()...)
	buf = append(buf, p.TauX.Bytes()...)
	buf = append(buf, p.Mu.Bytes()...)
	buf = append(buf, p.THat.Bytes()...)
	buf = curve.AppendPointVector(buf, p.V)
	ipaBytes, err := p.IPA.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf = append(buf, ipaBytes...)
	return buf, nil
}

// UnmarshalBinary decodes a RangeProof written by MarshalBinary.
func (p *RangeProof) UnmarshalBinary(data []byte) error {
	proof, _, err := ReadRangeProof(data)
	if err != nil {
		return err
	}
	*p = proof
	return nil
}

// ReadRangeProof decodes a RangeProof from the front of data, returning the
// decoded proof and the unconsumed remainder.
func ReadRangeProof(data []byte) (RangeProof, []byte, error) {
	if len(data) < 7*32 {
		return RangeProof{}, nil, errTruncated("bulletproofs: RangeProof header")
	}
	var p RangeProof
	var err error
	if p.A, err = curve.PointFromBytes(data[0:32]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.S, err = curve.PointFromBytes(data[32:64]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.T1, err = curve.PointFromBytes(data[64:96]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.T2, err = curve.PointFromBytes(data[96:128]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.TauX, err = curve.ScalarFromCanonicalBytes(data[128:160]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.Mu, err = curve.ScalarFromCanonicalBytes(data[160:192]); err != nil {
		return RangeProof{}, nil, err
	}
	if p.THat, err = curve.ScalarFromCanonicalBytes(data[192:224]); err != nil {
		return RangeProof{}, nil, err
	}
	v, rest, err := curve.ReadPointVector(data[224:])
	if err != nil {
		return RangeProof{}, nil, err
	}
	p.V = v
	ipa, rest, err := ReadIPAProof(rest)
	if err != nil {
		return RangeProof{}, nil, err
	}
	p.IPA = ipa
	return p, rest, nil
}

// MarshalBinary encodes a SchnorrSignature as the fixed (S, H) scalar pair.
func (s SchnorrSignature) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 64)
	buf = append(buf, s.S.Bytes()...)
	buf = append(buf, s.H.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes a SchnorrSignature written by MarshalBinary.
func (s *SchnorrSignature) UnmarshalBinary(data []byte) error {
	if len(data) < 64 {
		return errTruncated("bulletproofs: SchnorrSignature")
	}
	var err error
	if s.S, err = curve.ScalarFromCanonicalBytes(data[:32]); err != nil {
		return err
	}
	if s.H, err = curve.ScalarFromCanonicalBytes(data[32:64]); err != nil {
		return err
	}
	return nil
}

// MarshalBinary encodes a RangeOrSchnorrProof as its nested RangeProof,
// SchnorrSignature, and the trailing RangeHash scalar.
func (p RangeOrSchnorrProof) MarshalBinary() ([]byte, error) {
	rangeBytes, err := p.RangeProof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	schnorrBytes, err := p.Schnorr.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(rangeBytes)+len(schnorrBytes)+32)
	buf = append(buf, rangeBytes...)
	buf = append(buf, schnorrBytes...)
	buf = append(buf, p.RangeHash.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes a RangeOrSchnorrProof written by MarshalBinary.
func (p *RangeOrSchnorrProof) UnmarshalBinary(data []byte) error {
	rangeProof, rest, err := ReadRangeProof(data)
	if err != nil {
		return err
	}
	if len(rest) < 64 {
		return errTruncated("bulletproofs: RangeOrSchnorrProof.Schnorr")
	}
	var schnorr SchnorrSignature
	if err := schnorr.UnmarshalBinary(rest[:64]); err != nil {
		return err
	}
	rest = rest[64:]
	if len(rest) < 32 {
		return errTruncated("bulletproofs: RangeOrSchnorrProof.RangeHash")
	}
	rangeHash, err := curve.ScalarFromCanonicalBytes(rest[:32])
	if err != nil {
		return err
	}
	p.RangeProof, p.Schnorr, p.RangeHash = rangeProof, schnorr, rangeHash
	return nil
}

type marshalError string

func (e marshalError) Error() string { return string(e) }

func errTruncated(what string) error { return marshalError(what + ": truncated encoding") }
