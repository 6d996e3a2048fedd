// Package zkplmt implements the one-of-many linear-relation proof (ZKPLMT):
// given m candidate tuples of n Edwards point pairs (x,y), prove knowledge
// of a scalar s and a hidden index j such that y = s*x holds for every pair
// in tuple j, without revealing j or s.
package zkplmt

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/takakv/zkpay/curve"
)

// CurveVector is an ordered pair of points (x, y), the atomic unit a ZKPLMT
// tuple is built from.
type CurveVector struct {
	X, Y curve.Point
}

// Bytes returns the 64-byte canonical encoding x||y.
func (cv CurveVector) Bytes() []byte {
	buf := make([]byte, 0, 64)
	buf = append(buf, cv.X.Bytes()...)
	buf = append(buf, cv.Y.Bytes()...)
	return buf
}

// Tuple is a candidate statement: an ordered sequence of CurveVectors. Every
// tuple passed to Create/Verify together must share the same arity.
type Tuple struct {
	Values []CurveVector
}

// Bytes concatenates the tuple's CurveVectors in order.
func (t Tuple) Bytes() []byte {
	buf := make([]byte, 0, 64*len(t.Values))
	for _, v := range t.Values {
		buf = append(buf, v.Bytes()...)
	}
	return buf
}

// Proof is a ZKPLMT transcript: one (c, d) scalar pair per candidate tuple.
type Proof struct {
	C []curve.Scalar
	D []curve.Scalar
}

func validateTuples(tuples []Tuple) (m, n int, err error) {
	m = len(tuples)
	if m == 0 {
		return 0, 0, errors.New("zkplmt: no candidate tuples")
	}
	n = len(tuples[0].Values)
	if n == 0 {
		return 0, 0, errors.New("zkplmt: tuple arity must be non-zero")
	}
	for j, t := range tuples {
		if len(t.Values) != n {
			return 0, 0, fmt.Errorf("zkplmt: tuple %d has arity %d, want %d", j, len(t.Values), n)
		}
	}
	return m, n, nil
}

// Create proves that tuples[hiddenIndex] satisfies y = secret*x for every
// pair in the tuple, without revealing hiddenIndex.
func Create(tuples []Tuple, hiddenIndex int, secret curve.Scalar) (Proof, error) {
	m, n, err := validateTuples(tuples)
	if err != nil {
		return Proof{}, err
	}
	if hiddenIndex < 0 || hiddenIndex >= m {
		return Proof{}, fmt.Errorf("zkplmt: hidden index %d out of range [0,%d)", hiddenIndex, m)
	}

	r, err := curve.RandomScalar()
	if err != nil {
		return Proof{}, err
	}

	c := make([]curve.Scalar, m)
	d := make([]curve.Scalar, m)
	sum := curve.ZeroScalar()
	ls := make([][]curve.Point, m)

	for j := 0; j < m; j++ {
		if j == hiddenIndex {
			continue
		}
		cj, err := curve.RandomScalar()
		if err != nil {
			return Proof{}, err
		}
		dj, err := curve.RandomScalar()
		if err != nil {
			return Proof{}, err
		}
		c[j], d[j] = cj, dj

		row := make([]curve.Point, n)
		for i := 0; i < n; i++ {
			row[i] = curve.MultiScalarMult(
				[]curve.Scalar{cj, dj},
				[]curve.Point{tuples[j].Values[i].X, tuples[j].Values[i].Y},
			)
		}
		ls[j] = row
		sum = sum.Add(dj)
	}

	hiddenRow := make([]curve.Point, n)
	for i := 0; i < n; i++ {
		hiddenRow[i] = tuples[hiddenIndex].Values[i].X.ScalarMult(r)
	}
	ls[hiddenIndex] = hiddenRow

	buf := buildTranscriptBuffer(tuples, ls, m, n)
	h := sha512Reduce(buf)

	d[hiddenIndex] = h.Subtract(sum)
	c[hiddenIndex] = r.Subtract(d[hiddenIndex].Multiply(secret))

	return Proof{C: c, D: d}, nil
}

// Verify checks a ZKPLMT proof against the (shuffled) candidate tuples.
func Verify(tuples []Tuple, proof Proof) bool {
	m, n, err := validateTuples(tuples)
	if err != nil {
		return false
	}
	if len(proof.C) != m || len(proof.D) != m {
		return false
	}

	sum := curve.ZeroScalar()
	ls := make([][]curve.Point, m)
	for j := 0; j < m; j++ {
		row := make([]curve.Point, n)
		for i := 0; i < n; i++ {
			row[i] = curve.MultiScalarMult(
				[]curve.Scalar{proof.C[j], proof.D[j]},
				[]curve.Point{tuples[j].Values[i].X, tuples[j].Values[i].Y},
			)
		}
		ls[j] = row
		sum = sum.Add(proof.D[j])
	}

	buf := buildTranscriptBuffer(tuples, ls, m, n)
	h := sha512Reduce(buf)
	return h.Equal(sum)
}

// buildTranscriptBuffer lays out the hash-input buffer exactly as the
// reference implementation does: a region of size 32*m*n*2 holding the
// compressed L values at offset (j*n+i)*32 (the declared region is twice
// the space the L values actually occupy; the unused tail stays
// zero-filled, a quirk preserved here for byte-level transcript
// compatibility), followed by the tuples' own byte encoding.
func buildTranscriptBuffer(tuples []Tuple, ls [][]curve.Point, m, n int) []byte {
	sizeOfLs := 32 * m * n * 2
	sizeOfTuples := 0
	if m > 0 {
		sizeOfTuples = len(tuples[0].Bytes()) * m
	}

	buf := make([]byte, sizeOfLs+sizeOfTuples)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			offset := (j*n + i) * 32
			copy(buf[offset:offset+32], ls[j][i].Bytes())
		}
	}

	tupleSize := 0
	if m > 0 {
		tupleSize = len(tuples[0].Bytes())
	}
	for j, t := range tuples {
		offset := sizeOfLs + j*tupleSize
		copy(buf[offset:offset+tupleSize], t.Bytes())
	}

	return buf
}

func sha512Reduce(buf []byte) curve.Scalar {
	digest := sha512.Sum512(buf)
	s, err := curve.ScalarFromUniformBytes(digest[:])
	if err != nil {
		// sha512.Sum512 always returns 64 bytes, which SetUniformBytes
		// always accepts; this can only fail if that contract changes.
		panic(fmt.Sprintf("zkplmt: internal sha512 reduction invariant violated: %v", err))
	}
	return s
}

// Shuffle randomly permutes tuples and reports the post-shuffle position of
// the element that started at hiddenIndex. It does not mutate tuples.
func Shuffle(tuples []Tuple, hiddenIndex int) ([]Tuple, int, error) {
	n := len(tuples)
	if hiddenIndex < 0 || hiddenIndex >= n {
		return nil, 0, fmt.Errorf("zkplmt: hidden index %d out of range [0,%d)", hiddenIndex, n)
	}

	shuffled := make([]Tuple, n)
	copy(shuffled, tuples)
	shuffled[0], shuffled[hiddenIndex] = shuffled[hiddenIndex], shuffled[0]

	tags := make([]uint32, n)
	var raw [4]byte
	for i := range tags {
		if _, err := rand.Read(raw[:]); err != nil {
			return nil, 0, fmt.Errorf("zkplmt: reading shuffle randomness: %w", err)
		}
		tags[i] = binary.LittleEndian.Uint32(raw[:])
	}

	newIndex := JointSort(tags, shuffled)
	return shuffled, newIndex, nil
}

// CreateShuffled shuffles tuples, hiding the tuple originally at
// hiddenIndex, and produces a proof against the shuffled order.
func CreateShuffled(tuples []Tuple, hiddenIndex int, secret curve.Scalar) (Proof, []Tuple, int, error) {
	shuffled, newIndex, err := Shuffle(tuples, hiddenIndex)
	if err != nil {
		return Proof{}, nil, 0, err
	}
	proof, err := Create(shuffled, newIndex, secret)
	if err != nil {
		return Proof{}, nil, 0, err
	}
	return proof, shuffled, newIndex, nil
}

// Ordered is the subset of scalar-like types JointSort can sort on.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// JointSort sorts keys in place using the reference implementation's
// explicit-stack partitioning scheme, applying every swap made to keys to
// conjugate as well, and returns the post-sort index of whichever element
// started at position 0. It panics if the two slices have different
// lengths, matching the reference's precondition assertion.
func JointSort[S Ordered, T any](keys []S, conjugate []T) int {
	if len(keys) != len(conjugate) {
		panic("zkplmt: JointSort requires equal-length slices")
	}
	if len(keys) == 0 {
		return 0
	}

	indexOfFirst := 0
	type frame struct{ start, end int }
	stack := []frame{{0, len(keys) - 1}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		start, end := top.start, top.end
		i, j := start, end
		forward := true

		for i < j {
			if keys[i] > keys[j] {
				switch indexOfFirst {
				case i:
					indexOfFirst = j
				case j:
					indexOfFirst = i
				}
				forward = !forward
				keys[i], keys[j] = keys[j], keys[i]
				conjugate[i], conjugate[j] = conjugate[j], conjugate[i]
			}
			if forward {
				i++
			} else {
				j--
			}
		}

		if i > 0 && start < i-1 {
			stack = append(stack, frame{start, i - 1})
		}
		if end > i+1 {
			stack = append(stack, frame{i + 1, end})
		}
	}

	return indexOfFirst
}
