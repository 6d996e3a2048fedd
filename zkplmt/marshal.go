package zkplmt

import "github.com/takakv/zkpay/curve"

// MarshalBinary encodes a Proof as two length-prefixed scalar vectors, C
// followed by D, matching the declaration order of the Proof struct.
func (p Proof) MarshalBinary() ([]byte, error) {
	buf := curve.AppendScalarVector(nil, p.C)
	buf = curve.AppendScalarVector(buf, p.D)
	return buf, nil
}

// UnmarshalBinary decodes a Proof written by MarshalBinary.
func (p *Proof) UnmarshalBinary(data []byte) error {
	proof, _, err := ReadProof(data)
	if err != nil {
		return err
	}
	*p = proof
	return nil
}

// ReadProof decodes a Proof from the front of data, returning the decoded
// proof and the unconsumed remainder. It exists alongside UnmarshalBinary so
// that composite encodings (ringsig.BlindingSignature, tx's AP
// declarations, kyc.SpendingLimitProof) can embed a Proof followed by more
// fields without needing a redundant length prefix around it.
func ReadProof(data []byte) (Proof, []byte, error) {
	c, rest, err := curve.ReadScalarVector(data)
	if err != nil {
		return Proof{}, nil, err
	}
	d, rest, err := curve.ReadScalarVector(rest)
	if err != nil {
		return Proof{}, nil, err
	}
	return Proof{C: c, D: d}, rest, nil
}
