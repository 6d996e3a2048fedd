package curve

import (
	"encoding/binary"
	"fmt"
)

// MarshalBinary returns the 32-byte compressed encoding, satisfying
// encoding.BinaryMarshaler.
func (a Point) MarshalBinary() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalBinary decodes a 32-byte compressed point, satisfying
// encoding.BinaryUnmarshaler.
func (a *Point) UnmarshalBinary(data []byte) error {
	p, err := PointFromBytes(data)
	if err != nil {
		return err
	}
	*a = p
	return nil
}

// MarshalBinary returns the 32-byte canonical little-endian encoding,
// satisfying encoding.BinaryMarshaler.
func (a Scalar) MarshalBinary() ([]byte, error) {
	return a.Bytes(), nil
}

// UnmarshalBinary decodes a 32-byte canonical scalar, satisfying
// encoding.BinaryUnmarshaler.
func (a *Scalar) UnmarshalBinary(data []byte) error {
	s, err := ScalarFromCanonicalBytes(data)
	if err != nil {
		return err
	}
	*a = s
	return nil
}

// AppendPointVector appends a uint32 little-endian length prefix followed by
// each point's 32-byte compressed encoding. Every proof/transaction object's
// binary encoding is built from this and AppendScalarVector so that every
// variable-length field is self-delimiting.
func AppendPointVector(buf []byte, pts []Point) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(pts)))
	for _, p := range pts {
		buf = append(buf, p.Bytes()...)
	}
	return buf
}

// ReadPointVector decodes a vector written by AppendPointVector, returning
// the decoded points and the unconsumed remainder of data.
func ReadPointVector(data []byte) ([]Point, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("curve: truncated point vector length prefix")
	}
	n := binary.LittleEndian.Uint32(data)
	data = data[4:]
	pts := make([]Point, n)
	for i := range pts {
		if len(data) < 32 {
			return nil, nil, fmt.Errorf("curve: truncated point vector element %d", i)
		}
		p, err := PointFromBytes(data[:32])
		if err != nil {
			return nil, nil, fmt.Errorf("curve: point vector element %d: %w", i, err)
		}
		pts[i] = p
		data = data[32:]
	}
	return pts, data, nil
}

// AppendScalarVector appends a uint32 little-endian length prefix followed
// by each scalar's 32-byte canonical encoding.
func AppendScalarVector(buf []byte, ss []Scalar) []byte {
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ss)))
	for _, s := range ss {
		buf = append(buf, s.Bytes()...)
	}
	return buf
}

// ReadScalarVector decodes a vector written by AppendScalarVector, returning
// the decoded scalars and the unconsumed remainder of data.
func ReadScalarVector(data []byte) ([]Scalar, []byte, error) {
	if len(data) < 4 {
		return nil, nil, fmt.Errorf("curve: truncated scalar vector length prefix")
	}
	n := binary.LittleEndian.Uint32(data)
	data = data[4:]
	ss := make([]Scalar, n)
	for i := range ss {
		if len(data) < 32 {
			return nil, nil, fmt.Errorf("curve: truncated scalar vector element %d", i)
		}
		s, err := ScalarFromCanonicalBytes(data[:32])
		if err != nil {
			return nil, nil, fmt.Errorf("curve: scalar vector element %d: %w", i, err)
		}
		ss[i] = s
		data = data[32:]
	}
	return ss, data, nil
}
