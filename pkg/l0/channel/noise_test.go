package channel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/vlc.go/pkg/l0/bitbuf"
)

func TestNoiseFlipCount(t *testing.T) {
	buf := make([]byte, 1000)
	n := NewNoise(0.05, 1).Apply(buf)
	require.Equal(t, n, bitbuf.Distance(buf, make([]byte, 1000)))
	// 8000 bits at 5%: mean 400, far from either bound.
	require.True(t, n > 250 && n < 550, "flips %d", n)
}

func TestNoiseBounded(t *testing.T) {
	buf := make([]byte, 230)
	NewNoise(0.5, 7).Bounded(23, 3).Apply(buf)
	for b := 0; b < bitbuf.Len(buf)/23; b++ {
		var flips int
		for i := 0; i < 23; i++ {
			flips += int(bitbuf.Get(buf, b*23+i))
		}
		require.True(t, flips <= 3, "block %d has %d flips", b, flips)
	}
}

func TestNoiseDisabled(t *testing.T) {
	buf := []byte{1, 2, 3}
	require.Zero(t, NewNoise(0, 1).Apply(buf))
	var n *Noise
	require.Zero(t, n.Apply(buf))
	require.Equal(t, []byte{1, 2, 3}, buf)
}
