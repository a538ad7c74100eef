// Package peer connects the transceiver with the host-side peer which
// supplies data to transmit or consumes data received.
//
// A session carries exactly one peer connection. For transmission the
// peer first sends the total length as a little-endian uint32, waits
// for AckToken and then streams the data. For reception the peer
// reads the recovered data until DoneToken and end of stream.
package peer

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/golang/glog"

	fx "github.com/robotalks/vlc.go/pkg/framework"
)

const (
	// AckToken is sent once the length handshake is accepted.
	AckToken = "ACK\n"
	// DoneToken trails the data of a reception.
	DoneToken = "DONE\n"
)

var (
	// ErrNoClient indicates the socket is used before a peer connected.
	ErrNoClient = errors.New("peer: no client connected")
	// ErrClosed indicates the acceptor was closed.
	ErrClosed = errors.New("peer: closed")
	// ErrBadAck indicates the transceiver replied something else than AckToken.
	ErrBadAck = errors.New("peer: unexpected handshake reply")
	// ErrNoDone indicates the stream ended without DoneToken.
	ErrNoDone = errors.New("peer: stream ended without done token")
)

// Acceptor hands out peer connections.
type Acceptor interface {
	Accept() (io.ReadWriteCloser, error)
	Close() error
}

// ReadLength reads the handshake length.
func ReadLength(r io.Reader) (uint32, error) {
	var size uint32
	err := binary.Read(r, binary.LittleEndian, &size)
	return size, err
}

// WriteLength writes the handshake length.
func WriteLength(w io.Writer, size uint32) error {
	return binary.Write(w, binary.LittleEndian, size)
}

// Socket is the transceiver's end of a single peer connection.
type Socket struct {
	acceptor Acceptor
	conn     io.ReadWriteCloser
	lock     sync.Mutex
}

// NewSocket creates a Socket accepting its peer from acceptor.
func NewSocket(acceptor Acceptor) *Socket {
	return &Socket{acceptor: acceptor}
}

// WaitForClient blocks until a peer connects. It returns immediately
// once a peer is connected.
func (s *Socket) WaitForClient() error {
	s.lock.Lock()
	acceptor, conn := s.acceptor, s.conn
	s.lock.Unlock()
	if conn != nil {
		return nil
	}
	if acceptor == nil {
		return ErrClosed
	}
	conn, err := acceptor.Accept()
	if err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.acceptor == nil {
		conn.Close()
		return ErrClosed
	}
	glog.Info("peer: client connected")
	s.conn = conn
	return nil
}

func (s *Socket) client() io.ReadWriteCloser {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.conn
}

// Receive reads at most max bytes with a single read.
func (s *Socket) Receive(max int) ([]byte, error) {
	conn := s.client()
	if conn == nil {
		return nil, ErrNoClient
	}
	buf := make([]byte, max)
	n, err := conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = io.ErrNoProgress
	}
	return nil, err
}

// Send writes all of p.
func (s *Socket) Send(p []byte) error {
	conn := s.client()
	if conn == nil {
		return ErrNoClient
	}
	_, err := conn.Write(p)
	return err
}

// Acknowledge sends AckToken.
func (s *Socket) Acknowledge() error {
	return s.Send([]byte(AckToken))
}

// SignalDone sends DoneToken.
func (s *Socket) SignalDone() error {
	return s.Send([]byte(DoneToken))
}

// Close closes the connection and the acceptor. It can be called
// multiple times and concurrently with a blocking WaitForClient.
func (s *Socket) Close() error {
	s.lock.Lock()
	conn, acceptor := s.conn, s.acceptor
	s.conn, s.acceptor = nil, nil
	s.lock.Unlock()
	var errs fx.AggregatedError
	if conn != nil {
		errs.Add(conn.Close())
	}
	if acceptor != nil {
		errs.Add(acceptor.Close())
	}
	return errs.Aggregate()
}
