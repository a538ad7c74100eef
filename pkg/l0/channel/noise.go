// Package channel models the bit errors of an optical link.
package channel

import (
	"math/rand"

	"github.com/robotalks/vlc.go/pkg/l0/bitbuf"
)

// Noise is a binary symmetric channel: every bit flips independently
// with probability P.
type Noise struct {
	P    float64
	Rand *rand.Rand

	// BlockBits and MaxPerBlock bound the flips within each consecutive
	// BlockBits-sized run of bits. MaxPerBlock 0 means unbounded.
	BlockBits   int
	MaxPerBlock int
}

// NewNoise creates an unbounded channel with a seeded source.
func NewNoise(p float64, seed int64) *Noise {
	return &Noise{P: p, Rand: rand.New(rand.NewSource(seed))}
}

// Bounded limits the flips to limit per block of blockBits bits.
func (n *Noise) Bounded(blockBits, limit int) *Noise {
	n.BlockBits, n.MaxPerBlock = blockBits, limit
	return n
}

// Apply corrupts buf in place and returns the number of bits flipped.
func (n *Noise) Apply(buf []byte) int {
	if n == nil || n.P <= 0 {
		return 0
	}
	var flips, inBlock int
	for i := 0; i < bitbuf.Len(buf); i++ {
		if n.MaxPerBlock > 0 && n.BlockBits > 0 && i%n.BlockBits == 0 {
			inBlock = 0
		}
		if n.Rand.Float64() >= n.P {
			continue
		}
		if n.MaxPerBlock > 0 && inBlock >= n.MaxPerBlock {
			continue
		}
		bitbuf.Flip(buf, i)
		inBlock++
		flips++
	}
	return flips
}
