package bulletproofs

import "github.com/takakv/zkpay/curve"

// innerProduct computes <a,b> = sum_i a[i]*b[i]. Panics if the slices have
// different lengths, matching the assertion in the reference algorithm.
func innerProduct(a, b []curve.Scalar) curve.Scalar {
	if len(a) != len(b) {
		panic("bulletproofs: innerProduct requires equal-length slices")
	}
	sum := curve.ZeroScalar()
	for i := range a {
		sum = sum.Add(a[i].Multiply(b[i]))
	}
	return sum
}

// foldPoints returns x*a[i] + y*b[i] for every i, the elementwise point fold
// used to halve the generator vectors at each step of the IPA.
func foldPoints(x curve.Scalar, a []curve.Point, y curve.Scalar, b []curve.Point) []curve.Point {
	if len(a) != len(b) {
		panic("bulletproofs: foldPoints requires equal-length slices")
	}
	out := make([]curve.Point, len(a))
	for i := range a {
		out[i] = a[i].ScalarMult(x).Add(b[i].ScalarMult(y))
	}
	return out
}

// foldScalars returns x*a[i] + y*b[i] for every i.
func foldScalars(x curve.Scalar, a []curve.Scalar, y curve.Scalar, b []curve.Scalar) []curve.Scalar {
	if len(a) != len(b) {
		panic("bulletproofs: foldScalars requires equal-length slices")
	}
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Multiply(x).Add(b[i].Multiply(y))
	}
	return out
}

// scalePoints returns x[i]*a[i] for every i.
func scalePoints(x []curve.Scalar, a []curve.Point) []curve.Point {
	if len(x) != len(a) {
		panic("bulletproofs: scalePoints requires equal-length slices")
	}
	out := make([]curve.Point, len(a))
	for i := range a {
		out[i] = a[i].ScalarMult(x[i])
	}
	return out
}

// scalePointsByConst returns x*a[i] for every i.
func scalePointsByConst(x curve.Scalar, a []curve.Point) []curve.Point {
	out := make([]curve.Point, len(a))
	for i := range a {
		out[i] = a[i].ScalarMult(x)
	}
	return out
}

func addScalarVectors(a, b []curve.Scalar) []curve.Scalar {
	if len(a) != len(b) {
		panic("bulletproofs: addScalarVectors requires equal-length slices")
	}
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Add(b[i])
	}
	return out
}

func subScalarVectors(a, b []curve.Scalar) []curve.Scalar {
	if len(a) != len(b) {
		panic("bulletproofs: subScalarVectors requires equal-length slices")
	}
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Subtract(b[i])
	}
	return out
}

func mulScalarVectors(a, b []curve.Scalar) []curve.Scalar {
	if len(a) != len(b) {
		panic("bulletproofs: mulScalarVectors requires equal-length slices")
	}
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Multiply(b[i])
	}
	return out
}

func addConstToVector(a []curve.Scalar, c curve.Scalar) []curve.Scalar {
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Add(c)
	}
	return out
}

func scaleVector(a []curve.Scalar, c curve.Scalar) []curve.Scalar {
	out := make([]curve.Scalar, len(a))
	for i := range a {
		out[i] = a[i].Multiply(c)
	}
	return out
}

func constVector(z curve.Scalar, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	for i := range out {
		out[i] = z
	}
	return out
}

// powersOf returns [1, x, x^2, ..., x^(n-1)].
func powersOf(x curve.Scalar, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	prod := curve.ScalarU64(1)
	for i := 0; i < n; i++ {
		out[i] = prod
		prod = prod.Multiply(x)
	}
	return out
}

// multiVarPowers lays out, for j in [0,m) and i in [0,n), z^(j+2) * x^i. It
// matches the reference's twon_z_pow table used by the range-proof equations.
func multiVarPowers(x, z curve.Scalar, n, m int) []curve.Scalar {
	out := make([]curve.Scalar, n*m)
	zPow := z.Multiply(z)
	for j := 0; j < m; j++ {
		prod := zPow
		for i := 0; i < n; i++ {
			out[j*n+i] = prod
			prod = prod.Multiply(x)
		}
		zPow = zPow.Multiply(z)
	}
	return out
}

// bitsOfValue returns the RangeSize-bit little-endian binary expansion of v
// as scalars 0 or 1.
func bitsOfValue(v uint64, n int) []curve.Scalar {
	out := make([]curve.Scalar, n)
	w := v
	for i := 0; i < n; i++ {
		out[i] = curve.ScalarU64(w & 1)
		w >>= 1
	}
	return out
}

// bitsOfValues concatenates bitsOfValue for every entry of v.
func bitsOfValues(v []uint64, n int) []curve.Scalar {
	out := make([]curve.Scalar, 0, n*len(v))
	for _, x := range v {
		out = append(out, bitsOfValue(x, n)...)
	}
	return out
}

// nextPowerOfTwo returns y unchanged if it is already a power of two,
// otherwise the next power of two above it.
func nextPowerOfTwo(y int) int {
	if y <= 0 {
		return 1
	}
	numOnes := 0
	pow := 1
	x := y
	for x > 0 {
		pow <<= 1
		if x&1 == 1 {
			numOnes++
		}
		x >>= 1
	}
	if numOnes == 1 {
		return y
	}
	return pow
}

func padValues(v []uint64) []uint64 {
	target := nextPowerOfTwo(len(v))
	out := make([]uint64, target)
	copy(out, v)
	return out
}

func padScalars(g []curve.Scalar) []curve.Scalar {
	target := nextPowerOfTwo(len(g))
	out := make([]curve.Scalar, target)
	copy(out, g)
	for i := len(g); i < target; i++ {
		out[i] = curve.ZeroScalar()
	}
	return out
}
