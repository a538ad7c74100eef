// Package link provides shell commands moving files through a
// transceiver, and an in-process loopback self test.
package link

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
	"github.com/robotalks/vlc.go/pkg/l0/bitbuf"
	"github.com/robotalks/vlc.go/pkg/l0/channel"
	"github.com/robotalks/vlc.go/pkg/l0/pru"
	"github.com/robotalks/vlc.go/pkg/l1/peer"
	"github.com/robotalks/vlc.go/pkg/l1/report"
	"github.com/robotalks/vlc.go/pkg/l1/transceiver"
)

// Transfer is the result of moving a file through a transceiver.
type Transfer struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes"`
}

func (t *Transfer) String() string {
	return fmt.Sprintf("%s: %d bytes", t.Path, t.Bytes)
}

// SendFile streams a file to a transmitting transceiver.
func SendFile(peerURL, path string) (*Transfer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() > math.MaxUint32 {
		return nil, fmt.Errorf("%s: too large", path)
	}
	conn, err := peer.Dial(peerURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err = peer.Send(conn, f, uint32(info.Size())); err != nil {
		return nil, err
	}
	return &Transfer{Path: path, Bytes: info.Size()}, nil
}

// RecvFile writes what a receiving transceiver recovers into a file.
func RecvFile(peerURL, path string) (*Transfer, error) {
	conn, err := peer.Dial(peerURL)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	n, err := peer.Recv(conn, f)
	var errs fx.AggregatedError
	if err = errs.Add(err, f.Close()).Aggregate(); err != nil {
		return nil, err
	}
	return &Transfer{Path: path, Bytes: n}, nil
}

// SelfTestResult compares the data sent and received by a loopback run.
type SelfTestResult struct {
	Sent      int            `json:"sent"`
	Received  int            `json:"received"`
	BitErrors int            `json:"bit-errors"`
	Flipped   int            `json:"-"`
	Transmit  *report.Report `json:"-"`
	Receive   *report.Report `json:"-"`
}

// BER returns the residual bit error rate.
func (r *SelfTestResult) BER() float64 {
	if r.Sent == 0 {
		return 0
	}
	return float64(r.BitErrors) / float64(r.Sent*8)
}

func (r *SelfTestResult) String() string {
	return fmt.Sprintf("sent %d bytes, received %d bytes, %d bit errors (BER %.2e), corrected %d bits, %d bad blocks",
		r.Sent, r.Received, r.BitErrors, r.BER(), r.Receive.CorrectedBits, r.Receive.UncorrectableBlocks)
}

// SelfTest transmits size bytes through a transmitting and a receiving
// transceiver sharing an in-process medium with the given bit error
// rate, both driven over loopback TCP like a real peer would.
func SelfTest(ctx context.Context, conf *transceiver.Config, size int, ber float64, seed int64) (*SelfTestResult, error) {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i%26) + 'a'
	}
	medium := pru.NewMemoryMedium()
	defer medium.Close()

	res := &SelfTestResult{Sent: size}
	tx, err := session(ctx, conf, pru.NewSim(medium), (*transceiver.Transceiver).Transmit, func(conn io.ReadWriter) error {
		return peer.Send(conn, bytes.NewReader(data), uint32(size))
	})
	if err != nil {
		return nil, fmt.Errorf("transmit: %v", err)
	}
	res.Transmit = tx.Report()

	var out bytes.Buffer
	rxHw := pru.NewSim(medium).WithNoise(channel.NewNoise(ber, seed))
	rx, err := session(ctx, conf, rxHw, (*transceiver.Transceiver).Receive, func(conn io.ReadWriter) error {
		_, err := peer.Recv(conn, &out)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("receive: %v", err)
	}
	res.Receive = rx.Report()
	res.Received = out.Len()

	received := out.Bytes()
	if len(received) > len(data) {
		received = received[:len(data)]
	}
	// missing bytes count as wholly wrong.
	res.BitErrors = bitbuf.Distance(data[:len(received)], received) + (len(data)-len(received))*8
	glog.Infof("selftest: %s", res)
	return res, nil
}

// session runs one transceiver operation on a loopback listener while
// client plays the peer.
func session(ctx context.Context, conf *transceiver.Config, hw transceiver.Hardware,
	op func(*transceiver.Transceiver, context.Context) error,
	client func(io.ReadWriter) error) (*transceiver.Transceiver, error) {
	l, err := peer.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}
	t, err := transceiver.New(peer.NewSocket(l), hw, conf)
	if err != nil {
		l.Close()
		return nil, err
	}
	opErr := make(chan error, 1)
	go func() { opErr <- op(t, ctx) }()

	var errs fx.AggregatedError
	conn, err := peer.Dial("tcp://" + l.Addr().String())
	if err == nil {
		errs.Add(client(conn), conn.Close())
	} else {
		errs.Add(err)
		t.Socket.Close()
	}
	errs.Add(<-opErr)
	return t, errs.Aggregate()
}
