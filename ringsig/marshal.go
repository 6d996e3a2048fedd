package ringsig

import (
	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// MarshalBinary encodes a ValueCommitmentPublic as its four fixed points in
// declaration order (S, V, A, B).
func (p ValueCommitmentPublic) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 4*32)
	buf = append(buf, p.S.Bytes()...)
	buf = append(buf, p.V.Bytes()...)
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.B.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes a ValueCommitmentPublic written by MarshalBinary.
func (p *ValueCommitmentPublic) UnmarshalBinary(data []byte) error {
	if len(data) < 4*32 {
		return errTruncated("ringsig: ValueCommitmentPublic")
	}
	var err error
	if p.S, err = curve.PointFromBytes(data[0:32]); err != nil {
		return err
	}
	if p.V, err = curve.PointFromBytes(data[32:64]); err != nil {
		return err
	}
	if p.A, err = curve.PointFromBytes(data[64:96]); err != nil {
		return err
	}
	if p.B, err = curve.PointFromBytes(data[96:128]); err != nil {
		return err
	}
	return nil
}

// MarshalBinary encodes a BlindingSignature as its Public commitment, the
// nested ZKPLMT Proof, and the key image I, in declaration order.
func (s BlindingSignature) MarshalBinary() ([]byte, error) {
	publicBytes, err := s.Public.MarshalBinary()
	if err != nil {
		return nil, err
	}
	proofBytes, err := s.Proof.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(publicBytes)+len(proofBytes)+32)
	buf = append(buf, publicBytes...)
	buf = append(buf, proofBytes...)
	buf = append(buf, s.I.Bytes()...)
	return buf, nil
}

// UnmarshalBinary decodes a BlindingSignature written by MarshalBinary.
func (s *BlindingSignature) UnmarshalBinary(data []byte) error {
	if len(data) < 128 {
		return errTruncated("ringsig: BlindingSignature.Public")
	}
	if err := s.Public.UnmarshalBinary(data); err != nil {
		return err
	}
	proof, rest, err := zkplmt.ReadProof(data[128:])
	if err != nil {
		return err
	}
	s.Proof = proof
	if len(rest) < 32 {
		return errTruncated("ringsig: BlindingSignature.I")
	}
	s.I, err = curve.PointFromBytes(rest[:32])
	return err
}

type marshalError string

func (e marshalError) Error() string { return string(e) }

func errTruncated(what string) error { return marshalError(what + ": truncated encoding") }
