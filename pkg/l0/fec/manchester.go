package fec

import "github.com/robotalks/vlc.go/pkg/l0/bitbuf"

// ManchesterEncode line-codes the first bits of data, mapping each 0 to
// 01 and each 1 to 10. The result holds 2*bits bits; bits is clamped
// to the length of data.
func ManchesterEncode(data []byte, bits int) []byte {
	if n := bitbuf.Len(data); bits > n {
		bits = n
	}
	out := make([]byte, (bits*2+7)/8)
	for i := 0; i < bits; i++ {
		v := bitbuf.Get(data, i)
		bitbuf.Set(out, 2*i, v)
		bitbuf.Set(out, 2*i+1, v^1)
	}
	return out
}

// ManchesterDecode reverses ManchesterEncode; bits is the encoded bit
// count, clamped to the length of encoded. Pairs without a transition decode to their first bit and are
// reported as a *TransitionError alongside the output.
func ManchesterDecode(encoded []byte, bits int) ([]byte, error) {
	if n := bitbuf.Len(encoded); bits > n {
		bits = n
	}
	pairs := bits / 2
	out := make([]byte, (pairs+7)/8)
	var terr *TransitionError
	for i := 0; i < pairs; i++ {
		hi, lo := bitbuf.Get(encoded, 2*i), bitbuf.Get(encoded, 2*i+1)
		if hi == lo {
			if terr == nil {
				terr = &TransitionError{First: i}
			}
			terr.Count++
		}
		bitbuf.Set(out, i, hi)
	}
	if terr != nil {
		return out, terr
	}
	return out, nil
}
