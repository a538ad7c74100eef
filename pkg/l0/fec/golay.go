package fec

import (
	"math/bits"

	"github.com/robotalks/vlc.go/pkg/l0/bitbuf"
)

// Golay code parameters.
const (
	// GolayK is the number of data bits per codeword.
	GolayK = 12
	// GolayT is the number of bit errors corrected per codeword.
	GolayT = 3

	golayN    = 23
	golayPoly = 0xc75 // x^11 + x^10 + x^6 + x^5 + x^4 + x^2 + 1
)

// Golay is a systematic binary Golay code. Data bits occupy the high
// bits of each codeword, parity the low 11 bits. The extended form
// appends an even parity bit over the 23-bit codeword, which makes
// every 4-bit error detectable.
type Golay struct {
	Extended bool
}

var (
	// Golay23 encodes a 42-byte frame into 81 bytes. Being a perfect
	// code, every received word decodes to some codeword, so errors
	// beyond GolayT are miscorrected rather than reported.
	Golay23 Scheme = &Golay{}
	// Golay24 encodes a 42-byte frame into 84 bytes and reports
	// codewords with more than GolayT errors.
	Golay24 Scheme = &Golay{Extended: true}
)

// syndromes maps each 11-bit syndrome to its unique error pattern of
// weight <= 3.
var syndromes = func() (table [1 << (golayN - GolayK)]uint32) {
	for i := 0; i < golayN; i++ {
		e1 := uint32(1) << uint(i)
		table[golaySyndrome(e1)] = e1
		for j := i + 1; j < golayN; j++ {
			e2 := e1 | uint32(1)<<uint(j)
			table[golaySyndrome(e2)] = e2
			for k := j + 1; k < golayN; k++ {
				e3 := e2 | uint32(1)<<uint(k)
				table[golaySyndrome(e3)] = e3
			}
		}
	}
	return
}()

// golaySyndrome is the remainder of a 23-bit word divided by golayPoly.
func golaySyndrome(w uint32) uint32 {
	for i := golayN - 1; i >= golayN-GolayK; i-- {
		if w&(1<<uint(i)) != 0 {
			w ^= golayPoly << uint(i-(golayN-GolayK))
		}
	}
	return w
}

func golayEncodeWord(data uint32) uint32 {
	w := (data & 0xfff) << (golayN - GolayK)
	return w | golaySyndrome(w)
}

// ID implements Scheme.
func (g *Golay) ID() SchemeID {
	if g.Extended {
		return SchemeGolay24
	}
	return SchemeGolay23
}

// N returns the codeword length in bits.
func (g *Golay) N() int {
	if g.Extended {
		return golayN + 1
	}
	return golayN
}

// EncodedSize implements Scheme.
func (g *Golay) EncodedSize(n int) int {
	blocks := (n*8 + GolayK - 1) / GolayK
	return (blocks*g.N() + 7) / 8
}

// DecodedSize implements Scheme. Pad bits of the last data block may
// surface as trailing zero bytes when n did not come from a multiple
// of 3 data bytes.
func (g *Golay) DecodedSize(n int) int {
	return (n * 8 / g.N()) * GolayK / 8
}

// Encode implements Scheme.
func (g *Golay) Encode(data []byte) []byte {
	dataBits, n := bitbuf.Len(data), g.N()
	blocks := (dataBits + GolayK - 1) / GolayK
	out := make([]byte, (blocks*n+7)/8)
	for b := 0; b < blocks; b++ {
		var d uint32
		for i := 0; i < GolayK; i++ {
			d <<= 1
			if pos := b*GolayK + i; pos < dataBits {
				d |= uint32(bitbuf.Get(data, pos))
			}
		}
		w := golayEncodeWord(d)
		if g.Extended {
			w = w<<1 | uint32(bits.OnesCount32(w)&1)
		}
		for i := 0; i < n; i++ {
			bitbuf.Set(out, b*n+i, byte(w>>uint(n-1-i)))
		}
	}
	return out
}

// Decode implements Scheme.
func (g *Golay) Decode(encoded []byte) *Result {
	n := g.N()
	blocks := bitbuf.Len(encoded) / n
	r := &Result{Data: make([]byte, blocks*GolayK/8), Blocks: blocks}
	outBits := bitbuf.Len(r.Data)
	for b := 0; b < blocks; b++ {
		var w uint32
		for i := 0; i < n; i++ {
			w = w<<1 | uint32(bitbuf.Get(encoded, b*n+i))
		}
		d, fixed, ok := g.decodeWord(w)
		if ok {
			r.Corrected += fixed
		} else {
			r.Uncorrectable = append(r.Uncorrectable, b)
		}
		for i := 0; i < GolayK; i++ {
			if pos := b*GolayK + i; pos < outBits {
				bitbuf.Set(r.Data, pos, byte(d>>uint(GolayK-1-i)))
			}
		}
	}
	return r
}

// decodeWord returns the data bits of w and the number of bits fixed.
// When the errors exceed GolayT, the received data bits are returned
// unchanged with ok false.
func (g *Golay) decodeWord(w uint32) (data uint32, fixed int, ok bool) {
	var parity int
	if g.Extended {
		parity = bits.OnesCount32(w) & 1
		w >>= 1
	}
	e := syndromes[golaySyndrome(w)]
	fixed = bits.OnesCount32(e)
	if g.Extended {
		// The parity bit itself was hit when the overall parity disagrees
		// with the weight of the pattern found.
		fixed += (parity + fixed) & 1
		if fixed > GolayT {
			return w >> (golayN - GolayK), 0, false
		}
	}
	return (w ^ e) >> (golayN - GolayK), fixed, true
}
