package curve

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScalarRoundTrip(t *testing.T) {
	x := big.NewInt(123456789)
	s := ScalarFromBigInt(x)
	require.Equal(t, 0, x.Cmp(s.BigInt()))
}

func TestScalarArithmetic(t *testing.T) {
	a := ScalarU64(5)
	b := ScalarU64(7)
	require.True(t, a.Add(b).Equal(ScalarU64(12)))
	require.True(t, b.Subtract(a).Equal(ScalarU64(2)))
	require.True(t, a.Multiply(b).Equal(ScalarU64(35)))

	inv := a.Invert()
	require.True(t, a.Multiply(inv).Equal(ScalarU64(1)))
}

func TestScalarNegativeReduces(t *testing.T) {
	neg := big.NewInt(-1)
	s := ScalarFromBigInt(neg)
	expected := new(big.Int).Sub(GroupOrder, big.NewInt(1))
	require.Equal(t, 0, expected.Cmp(s.BigInt()))
}

func TestPointArithmeticMatchesScale(t *testing.T) {
	g := BaseG()
	three := ScalarU64(3)
	direct := g.ScalarMult(three)
	viaAdd := g.Add(g).Add(g)
	require.True(t, direct.Equal(viaAdd))
}

func TestPointEncodeDecode(t *testing.T) {
	g := BaseG()
	decoded, err := PointFromBytes(g.Bytes())
	require.NoError(t, err)
	require.True(t, g.Equal(decoded))
}

func TestPointJSONRoundTrip(t *testing.T) {
	g := BaseG()
	data, err := json.Marshal(g)
	require.NoError(t, err)

	var decoded Point
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, g.Equal(decoded))
}

func TestScalarJSONRoundTrip(t *testing.T) {
	s := ScalarU64(424242)
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Scalar
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.True(t, s.Equal(decoded))
}

func TestHashToEdwardsDeterministic(t *testing.T) {
	a := HashToEdwards([]byte("deterministic input"))
	b := HashToEdwards([]byte("deterministic input"))
	require.True(t, a.Equal(b))
	require.False(t, a.IsIdentity())

	other := HashToEdwards([]byte("different input"))
	require.False(t, a.Equal(other))
}

func TestHashToEdwardsAlwaysInSubgroup(t *testing.T) {
	// Every output is the result of an explicit MultByCofactor, so scaling
	// by the subgroup order must return the identity. A Scalar reduces l
	// itself to zero, so l*p is computed as (l-1)*p + p.
	p := HashToEdwards([]byte("subgroup check"))
	scaled := p.ScalarMult(ScalarFromBigInt(new(big.Int).Sub(GroupOrder, big.NewInt(1)))).Add(p)
	require.True(t, scaled.IsIdentity())
}

func TestMultiScalarMult(t *testing.T) {
	g := BaseG()
	k := BaseK()
	a := ScalarU64(2)
	b := ScalarU64(3)

	got := MultiScalarMult([]Scalar{a, b}, []Point{g, k})
	want := g.ScalarMult(a).Add(k.ScalarMult(b))
	require.True(t, got.Equal(want))

	gotVar := VarTimeMultiScalarMult([]Scalar{a, b}, []Point{g, k})
	require.True(t, gotVar.Equal(want))
}

func TestDeriveBasesDeterministic(t *testing.T) {
	b1, err := DeriveBases(BaseG(), BaseK(), 1)
	require.NoError(t, err)
	b2, err := DeriveBases(BaseG(), BaseK(), 1)
	require.NoError(t, err)

	require.Equal(t, len(b1.G), 64)
	require.Equal(t, len(b1.H), 64)
	for i := range b1.G {
		require.True(t, b1.G[i].Equal(b2.G[i]))
		require.True(t, b1.H[i].Equal(b2.H[i]))
	}
}

func TestDeriveBasesRejectsZero(t *testing.T) {
	_, err := DeriveBases(BaseG(), BaseK(), 0)
	require.Error(t, err)
}

func TestDeriveBasesPrefixIsStable(t *testing.T) {
	small, err := DeriveBases(BaseG(), BaseK(), 1)
	require.NoError(t, err)
	large, err := DeriveBases(BaseG(), BaseK(), 2)
	require.NoError(t, err)

	for i := 0; i < 64; i++ {
		require.True(t, small.G[i].Equal(large.G[i]))
		require.True(t, small.H[i].Equal(large.H[i]))
	}
}
