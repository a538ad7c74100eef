// Package transceiver drives a byte stream between a peer socket and
// the light hardware.
//
// Transmit reads a length-prefixed stream from the peer, packs it into
// frames, encodes them into ring buffer slots, pads the buffer with
// sentinel slots and has the hardware drive it out. Receive has the
// hardware capture into the ring buffer, decodes slots up to the first
// sentinel and streams the recovered bytes to the peer.
//
// Corruption is counted and skipped. Socket, hardware and ring buffer
// failures abort the operation; resources are released on every path.
package transceiver

import (
	"context"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l0/frame"
	"github.com/robotalks/vlc.go/pkg/l0/ring"
	"github.com/robotalks/vlc.go/pkg/l1/peer"
	"github.com/robotalks/vlc.go/pkg/l1/report"
)

// Socket is the connection to the peer.
type Socket interface {
	WaitForClient() error
	Receive(max int) ([]byte, error)
	Send([]byte) error
	Acknowledge() error
	SignalDone() error
	Close() error
}

// Hardware is the realtime unit. Start calls block until the physical
// transfer completes.
type Hardware interface {
	ring.MemoryOpener
	Initialize() error
	StartTransmit(*ring.Buffer) error
	StartReceive(*ring.Buffer) error
	Disable() error
}

// Transceiver runs one transmit or receive operation at a time.
type Transceiver struct {
	Socket    Socket
	Hardware  Hardware
	Config    Config
	Codec     *Codec
	Notifier  StateNotifier
	StationID string

	buf      *ring.Buffer
	state    State
	session  Session
	stats    Stats
	err      error
	finished time.Time
}

// New creates a Transceiver.
func New(sock Socket, hw Hardware, conf *Config) (*Transceiver, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	codec, err := conf.NewCodec()
	if err != nil {
		return nil, err
	}
	return &Transceiver{
		Socket:   sock,
		Hardware: hw,
		Config:   *conf,
		Codec:    codec,
		buf:      ring.New(hw, codec.SlotSize(), conf.SlotCount),
	}, nil
}

// WithNotifier sets the StateNotifier.
func (t *Transceiver) WithNotifier(n StateNotifier) *Transceiver {
	t.Notifier = n
	return t
}

// State returns the current state.
func (t *Transceiver) State() State {
	return t.state
}

// Session returns the progress of the current or last operation.
func (t *Transceiver) Session() Session {
	return t.session
}

// Stats returns the corruption counters of the current or last operation.
func (t *Transceiver) Stats() Stats {
	return t.stats
}

// Buffer returns the ring buffer.
func (t *Transceiver) Buffer() *ring.Buffer {
	return t.buf
}

// Report summarizes the current or last operation.
func (t *Transceiver) Report() *report.Report {
	r := &report.Report{
		Station:             t.StationID,
		Mode:                t.session.Mode.String(),
		State:               t.state.String(),
		Scheme:              t.Config.Scheme,
		TotalLength:         t.session.TotalLength,
		ExpectedFrames:      t.session.ExpectedFrames,
		Bytes:               t.session.Bytes,
		Frames:              t.session.Frames,
		Slots:               t.stats.Slots,
		CorrectedBits:       t.stats.CorrectedBits,
		UncorrectableBlocks: t.stats.UncorrectableBlocks,
		LineErrors:          t.stats.LineErrors,
		MalformedFrames:     t.stats.MalformedFrames,
		SentinelSlots:       t.stats.SentinelSlots,
		Started:             t.session.Started,
		Finished:            t.finished,
	}
	if t.err != nil {
		r.Error = t.err.Error()
	}
	return r
}

func (t *Transceiver) setState(ctx context.Context, state State) {
	glog.V(1).Infof("%s: %s -> %s", t.session.Mode, t.state, state)
	t.state = state
	if n := t.Notifier; n != nil {
		n.StateChanged(ctx, t.Report())
	}
}

func (t *Transceiver) begin(mode Mode) error {
	t.session = Session{Mode: mode, Started: time.Now()}
	t.stats, t.err, t.finished = Stats{}, nil, time.Time{}
	t.state = StateIdle
	if err := t.buf.Open(); err != nil {
		return transportError("open memory", err)
	}
	return nil
}

// end releases the buffer and the socket and settles the final state.
func (t *Transceiver) end(ctx context.Context, err error) error {
	var errs fx.AggregatedError
	errs.Add(t.buf.Close(), t.Socket.Close())
	if rerr := errs.Aggregate(); rerr != nil {
		glog.Warningf("%s: release: %v", t.session.Mode, rerr)
	}
	t.finished = time.Now()
	if err != nil {
		t.err = err
		glog.Errorf("%s failed in %s: %v", t.session.Mode, t.state, err)
		t.setState(ctx, StateFailed)
		return err
	}
	t.setState(ctx, StateDone)
	glog.Infof("%s finished: %s", t.session.Mode, t.Report())
	return nil
}

// drive runs one physical transfer. The unit is disabled even if the
// transfer fails.
func (t *Transceiver) drive(op string, start func(*ring.Buffer) error) error {
	if err := t.Hardware.Initialize(); err != nil {
		return transportError("initialize", err)
	}
	err := transportError(op, start(t.buf))
	if derr := t.Hardware.Disable(); err == nil {
		err = transportError("disable", derr)
	}
	return err
}

// Transmit sends the peer's stream through the hardware.
func (t *Transceiver) Transmit(ctx context.Context) error {
	if !t.state.IsTerminal() {
		return ErrBusy
	}
	if err := t.begin(ModeTransmit); err != nil {
		return t.end(ctx, err)
	}
	return t.end(ctx, t.transmit(ctx))
}

func (t *Transceiver) transmit(ctx context.Context) error {
	t.setState(ctx, StateHandshaking)
	if err := t.Socket.WaitForClient(); err != nil {
		return transportError("wait for client", err)
	}
	total, err := peer.ReadLength(socketReader{t.Socket})
	if err != nil {
		return transportError("read length", err)
	}
	t.session.TotalLength = total
	t.session.ExpectedFrames = int((uint64(total) + frame.PayloadSize - 1) / frame.PayloadSize)
	glog.Infof("incoming data length %d, %d frames", total, t.session.ExpectedFrames)
	if t.session.ExpectedFrames > t.Config.SlotCount {
		return ErrSessionTooLarge
	}
	if err = t.buf.SetLength(t.Config.SlotCount); err != nil {
		return err
	}
	if err = t.Socket.Acknowledge(); err != nil {
		return transportError("acknowledge", err)
	}

	t.setState(ctx, StateStreaming)
	if err = t.streamIn(ctx); err != nil {
		return err
	}

	t.setState(ctx, StateDraining)
	sentinel := t.Codec.Sentinel()
	for t.buf.Cursor() < t.Config.SlotCount {
		if err = t.buf.Push(sentinel); err != nil {
			return err
		}
		t.stats.SentinelSlots++
	}
	glog.Infof("pushed %d frames, %d sentinel slots", t.session.Frames, t.stats.SentinelSlots)

	t.setState(ctx, StateFinalizing)
	return t.drive("transmit", t.Hardware.StartTransmit)
}

// streamIn reads the announced bytes and pushes them as frames. Pieces
// shorter than a payload are carried into the next chunk, so only the
// final frame can be short.
func (t *Transceiver) streamIn(ctx context.Context) error {
	total := int(t.session.TotalLength)
	pending := make([]byte, 0, t.Config.FlushSize+frame.PayloadSize)
	for t.session.Bytes < total {
		if err := ctx.Err(); err != nil {
			return err
		}
		want := t.Config.FlushSize
		if rem := total - t.session.Bytes; rem < want {
			want = rem
		}
		chunk, err := t.Socket.Receive(want)
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		if err != nil {
			return transportError("receive", err)
		}
		if len(chunk) > want {
			chunk = chunk[:want]
		}
		t.session.Bytes += len(chunk)
		pending = append(pending, chunk...)

		end := len(pending) / frame.PayloadSize * frame.PayloadSize
		if t.session.Bytes >= total {
			end = len(pending)
		}
		for off := 0; off < end; off += frame.PayloadSize {
			n := end - off
			if n > frame.PayloadSize {
				n = frame.PayloadSize
			}
			if err = t.pushFrame(pending[off : off+n]); err != nil {
				return err
			}
		}
		pending = append(pending[:0], pending[end:]...)
	}
	return nil
}

func (t *Transceiver) pushFrame(data []byte) error {
	f, err := frame.Pack(data, len(data)*8)
	if err != nil {
		return err
	}
	if err = t.buf.Push(t.Codec.Encode(&f)); err != nil {
		return err
	}
	t.session.Frames++
	t.stats.Slots++
	glog.V(2).Infof("frame %d: %d bytes", t.session.Frames, len(data))
	return nil
}

// Receive captures a transmission and streams it to the peer.
func (t *Transceiver) Receive(ctx context.Context) error {
	if !t.state.IsTerminal() {
		return ErrBusy
	}
	if err := t.begin(ModeReceive); err != nil {
		return t.end(ctx, err)
	}
	return t.end(ctx, t.receive(ctx))
}

func (t *Transceiver) receive(ctx context.Context) error {
	t.setState(ctx, StateHandshaking)
	glog.Info("waiting for client")
	if err := t.Socket.WaitForClient(); err != nil {
		return transportError("wait for client", err)
	}

	t.setState(ctx, StateStreaming)
	if err := t.drive("receive", t.Hardware.StartReceive); err != nil {
		return err
	}
	// the hardware reports progress through the control header only.
	if err := t.buf.Sync(); err != nil {
		return err
	}
	filled := t.buf.Cursor()
	if n := t.buf.Length(); filled > n {
		filled = n
	}
	glog.Infof("captured %d slots", filled)
	if err := t.buf.SetCursor(0); err != nil {
		return err
	}

	out := make([]byte, 0, t.Config.FlushSize+frame.PayloadSize)
	slot := make([]byte, t.buf.SlotSize())
	for i := 0; i < filled; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := t.buf.Pop(slot); err != nil {
			return err
		}
		if IsSentinel(slot, t.Config.SentinelTolerance) {
			t.stats.SentinelSlots++
			glog.V(1).Infof("sentinel at slot %d", i)
			break
		}
		t.stats.Slots++
		data, bits, ok := t.decodeSlot(i, slot)
		if !ok {
			continue
		}
		out = append(out, data...)
		if len(out) >= t.Config.FlushSize {
			if err := t.flush(out); err != nil {
				return err
			}
			out = out[:0]
		}
		if bits%8 != 0 {
			glog.Warningf("slot %d: %d bits is not byte aligned, stopping", i, bits)
			break
		}
	}

	t.setState(ctx, StateFinalizing)
	if err := t.flush(out); err != nil {
		return err
	}
	return transportError("signal done", t.Socket.SignalDone())
}

func (t *Transceiver) decodeSlot(index int, slot []byte) ([]byte, int, bool) {
	f, st, err := t.Codec.Decode(slot)
	t.stats.add(st)
	if st.UncorrectableBlocks > 0 || st.LineErrors > 0 {
		glog.Warningf("slot %d: %d uncorrectable blocks, %d line errors", index, st.UncorrectableBlocks, st.LineErrors)
	}
	if err != nil {
		t.stats.MalformedFrames++
		glog.Warningf("slot %d: %v", index, err)
		return nil, 0, false
	}
	data, bits, err := frame.Unpack(&f)
	if err != nil {
		t.stats.MalformedFrames++
		glog.Warningf("slot %d: %v", index, err)
		return nil, 0, false
	}
	t.session.Frames++
	glog.V(2).Infof("slot %d: %d bits", index, bits)
	return data, bits, true
}

func (t *Transceiver) flush(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if err := t.Socket.Send(data); err != nil {
		return transportError("send", err)
	}
	t.session.Bytes += len(data)
	return nil
}

type socketReader struct {
	Socket
}

func (r socketReader) Read(p []byte) (int, error) {
	data, err := r.Receive(len(p))
	return copy(p, data), err
}
