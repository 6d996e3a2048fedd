package kyc

import (
	"encoding/binary"

	"github.com/takakv/zkpay/curve"
	"github.com/takakv/zkpay/zkplmt"
)

// MarshalBinary encodes a SpendingLimitProof as a length-prefixed vector of
// its (length-prefixed, since each is itself variable-length) Sources,
// followed by the four fixed points in declaration order, a one-byte flag
// recording which of Alpha2/Gamma are present, and finally the present
// proofs themselves.
func (p SpendingLimitProof) MarshalBinary() ([]byte, error) {
	buf := binary.LittleEndian.AppendUint32(nil, uint32(len(p.Sources)))
	for _, src := range p.Sources {
		srcBytes, err := src.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(srcBytes)))
		buf = append(buf, srcBytes...)
	}

	buf = append(buf, p.TotalSpendingCommitment.Bytes()...)
	buf = append(buf, p.UniqueMarker.Bytes()...)
	buf = append(buf, p.C.Bytes()...)
	buf = append(buf, p.D.Bytes()...)

	var flag byte
	if p.Alpha2 != nil {
		flag |= 1
	}
	if p.Gamma != nil {
		flag |= 2
	}
	buf = append(buf, flag)

	if p.Alpha2 != nil {
		alphaBytes, err := p.Alpha2.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, alphaBytes...)
	}
	if p.Gamma != nil {
		gammaBytes, err := p.Gamma.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = append(buf, gammaBytes...)
	}
	return buf, nil
}

// UnmarshalBinary decodes a SpendingLimitProof written by MarshalBinary. It
// rejects chains exceeding MaxChainDepth or MaxSources, the same guard
// Generate/Verify apply, so a malformed or hostile encoding cannot force
// unbounded recursion during decode either.
func (p *SpendingLimitProof) UnmarshalBinary(data []byte) error {
	return p.unmarshalDepth(data, 0)
}

func (p *SpendingLimitProof) unmarshalDepth(data []byte, depth int) error {
	if depth > MaxChainDepth {
		return marshalError("kyc: SpendingLimitProof exceeds MaxChainDepth")
	}
	if len(data) < 4 {
		return errTruncated("kyc: SpendingLimitProof.Sources length")
	}
	count := binary.LittleEndian.Uint32(data)
	data = data[4:]
	if count > MaxSources {
		return marshalError("kyc: SpendingLimitProof exceeds MaxSources")
	}

	sources := make([]SpendingLimitProof, count)
	for i := range sources {
		if len(data) < 4 {
			return errTruncated("kyc: SpendingLimitProof.Sources element length")
		}
		n := binary.LittleEndian.Uint32(data)
		data = data[4:]
		if uint32(len(data)) < n {
			return errTruncated("kyc: SpendingLimitProof.Sources element")
		}
		if err := sources[i].unmarshalDepth(data[:n], depth+1); err != nil {
			return err
		}
		data = data[n:]
	}
	p.Sources = sources

	if len(data) < 4*32+1 {
		return errTruncated("kyc: SpendingLimitProof header")
	}
	var err error
	if p.TotalSpendingCommitment, err = curve.PointFromBytes(data[0:32]); err != nil {
		return err
	}
	if p.UniqueMarker, err = curve.PointFromBytes(data[32:64]); err != nil {
		return err
	}
	if p.C, err = curve.PointFromBytes(data[64:96]); err != nil {
		return err
	}
	if p.D, err = curve.PointFromBytes(data[96:128]); err != nil {
		return err
	}
	flag := data[128]
	data = data[129:]

	p.Alpha2, p.Gamma = nil, nil
	if flag&1 != 0 {
		proof, rest, err := zkplmt.ReadProof(data)
		if err != nil {
			return err
		}
		p.Alpha2 = &proof
		data = rest
	}
	if flag&2 != 0 {
		proof, rest, err := zkplmt.ReadProof(data)
		if err != nil {
			return err
		}
		p.Gamma = &proof
		data = rest
	}
	return nil
}

type marshalError string

func (e marshalError) Error() string { return string(e) }

func errTruncated(what string) error { return marshalError(what + ": truncated encoding") }
