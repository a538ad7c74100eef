package transceiver

import (
	"errors"

	"github.com/robotalks/vlc.go/pkg/l0/fec"
	"github.com/robotalks/vlc.go/pkg/l0/frame"
)

// Codec turns frames into ring buffer slots and back: FEC first, then
// the optional line code.
type Codec struct {
	Scheme   fec.Scheme
	LineCode bool
}

// SlotStatus reports the corruption found in one slot.
type SlotStatus struct {
	CorrectedBits       int
	UncorrectableBlocks int
	LineErrors          int
}

// SlotSize returns the size of an encoded frame.
func (c *Codec) SlotSize() int {
	n := c.Scheme.EncodedSize(frame.Size)
	if c.LineCode {
		n *= 2
	}
	return n
}

// Encode encodes a frame into a slot.
func (c *Codec) Encode(f *frame.Frame) []byte {
	slot := c.Scheme.Encode(f.Bytes())
	if c.LineCode {
		slot = fec.ManchesterEncode(slot, len(slot)*8)
	}
	return slot
}

// Decode recovers a frame from a slot on a best-effort basis. Only a
// slot too short to hold a frame fails.
func (c *Codec) Decode(slot []byte) (f frame.Frame, st SlotStatus, err error) {
	if c.LineCode {
		var lerr error
		slot, lerr = fec.ManchesterDecode(slot, len(slot)*8)
		var terr *fec.TransitionError
		if errors.As(lerr, &terr) {
			st.LineErrors = terr.Count
		}
	}
	r := c.Scheme.Decode(slot)
	st.CorrectedBits = r.Corrected
	st.UncorrectableBlocks = len(r.Uncorrectable)
	f, err = frame.FromBytes(r.Data)
	return
}

// Sentinel returns an end-of-transmission slot.
func (c *Codec) Sentinel() []byte {
	slot := make([]byte, c.SlotSize())
	for i := range slot {
		slot[i] = 0xff
	}
	return slot
}

// IsSentinel reports whether at most tolerance bytes of slot differ
// from 0xFF.
func IsSentinel(slot []byte, tolerance int) bool {
	var others int
	for _, b := range slot {
		if b != 0xff {
			if others++; others > tolerance {
				return false
			}
		}
	}
	return true
}
