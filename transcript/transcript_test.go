package transcript

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/takakv/zkpay/curve"
)

func TestChallengeH2Deterministic(t *testing.T) {
	p := curve.BaseG()
	q := curve.BaseK()

	c1 := ChallengeH2(p, q)
	c2 := ChallengeH2(p, q)
	require.True(t, c1.Equal(c2))

	swapped := ChallengeH2(q, p)
	require.False(t, c1.Equal(swapped))
}

func TestChallengeHDBindsAllInputs(t *testing.T) {
	p := curve.BaseG()
	q := curve.BaseK()

	base := ChallengeHD([]byte("msg"), p, q)
	diffData := ChallengeHD([]byte("other"), p, q)
	diffPoints := ChallengeHD([]byte("msg"), q, p)

	require.False(t, base.Equal(diffData))
	require.False(t, base.Equal(diffPoints))
}
