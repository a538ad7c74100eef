package transceiver

import (
	"context"
	"fmt"
	"time"

	"github.com/robotalks/vlc.go/pkg/l1/report"
)

// State is the stage of an operation.
type State int

// States of an operation, in order.
const (
	StateIdle State = iota
	StateHandshaking
	StateStreaming
	StateDraining
	StateFinalizing
	StateDone
	// StateFailed is terminal for an aborted operation.
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateHandshaking: "handshaking",
	StateStreaming:   "streaming",
	StateDraining:    "draining",
	StateFinalizing:  "finalizing",
	StateDone:        "done",
	StateFailed:      "failed",
}

// String implements fmt.Stringer.
func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// IsTerminal reports whether no operation is running.
func (s State) IsTerminal() bool {
	return s == StateIdle || s == StateDone || s == StateFailed
}

// Mode is the direction of an operation.
type Mode int

// Modes.
const (
	ModeTransmit Mode = iota
	ModeReceive
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == ModeReceive {
		return "receive"
	}
	return "transmit"
}

// ParseMode parses tx, rx or the full mode names.
func ParseMode(name string) (Mode, error) {
	switch name {
	case "tx", "transmit":
		return ModeTransmit, nil
	case "rx", "receive":
		return ModeReceive, nil
	}
	return ModeTransmit, fmt.Errorf("unknown mode %q", name)
}

// Session is the progress of one operation.
type Session struct {
	Mode           Mode
	TotalLength    uint32
	ExpectedFrames int
	// Bytes counts bytes received from the peer on transmit, or sent to
	// the peer on receive.
	Bytes int
	// Frames counts frames pushed on transmit, or unpacked on receive.
	Frames  int
	Started time.Time
}

// Stats counts the corruption handled during an operation.
type Stats struct {
	Slots               int
	CorrectedBits       int
	UncorrectableBlocks int
	LineErrors          int
	MalformedFrames     int
	SentinelSlots       int
}

func (s *Stats) add(st SlotStatus) {
	s.CorrectedBits += st.CorrectedBits
	s.UncorrectableBlocks += st.UncorrectableBlocks
	s.LineErrors += st.LineErrors
}

// StateNotifier is called when the state changes.
type StateNotifier interface {
	StateChanged(context.Context, *report.Report)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, *report.Report)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, r *report.Report) {
	f(ctx, r)
}
