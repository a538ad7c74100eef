package peer

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

type socketReader struct {
	*Socket
}

func (r socketReader) Read(p []byte) (int, error) {
	data, err := r.Receive(len(p))
	return copy(p, data), err
}

func generateData(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i%26) + 'a'
	}
	return data
}

type transport struct {
	name   string
	listen func(t *testing.T) (Acceptor, string)
}

var transports = []transport{
	{"tcp", func(t *testing.T) (Acceptor, string) {
		l, err := Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		return l, "tcp://" + l.Addr().String()
	}},
	{"websocket", func(t *testing.T) (Acceptor, string) {
		l, err := ListenWebSocket("127.0.0.1:0", "/vlc")
		require.NoError(t, err)
		return l, "ws://" + l.Addr().String() + "/vlc"
	}},
}

func TestTransmitHandshake(t *testing.T) {
	for _, tr := range transports {
		t.Run(tr.name, func(t *testing.T) {
			acceptor, url := tr.listen(t)
			sock := NewSocket(acceptor)
			defer sock.Close()

			data := generateData(1000)
			errCh := make(chan error, 1)
			go func() {
				conn, err := Dial(url)
				if err != nil {
					errCh <- err
					return
				}
				defer conn.Close()
				errCh <- Send(conn, bytes.NewReader(data), uint32(len(data)))
			}()

			require.NoError(t, sock.WaitForClient())
			size, err := ReadLength(socketReader{sock})
			require.NoError(t, err)
			require.Equal(t, uint32(len(data)), size)
			require.NoError(t, sock.Acknowledge())

			received := make([]byte, 0, size)
			for len(received) < int(size) {
				chunk, err := sock.Receive(int(size) - len(received))
				require.NoError(t, err)
				received = append(received, chunk...)
			}
			require.Equal(t, data, received)
			require.NoError(t, <-errCh)
		})
	}
}

func TestReceiveDone(t *testing.T) {
	for _, tr := range transports {
		t.Run(tr.name, func(t *testing.T) {
			acceptor, url := tr.listen(t)
			sock := NewSocket(acceptor)

			type result struct {
				data []byte
				err  error
			}
			resCh := make(chan result, 1)
			go func() {
				conn, err := Dial(url)
				if err != nil {
					resCh <- result{err: err}
					return
				}
				defer conn.Close()
				var out bytes.Buffer
				_, err = Recv(conn, &out)
				resCh <- result{data: out.Bytes(), err: err}
			}()

			require.NoError(t, sock.WaitForClient())
			data := generateData(10000)
			for off := 0; off < len(data); off += 4000 {
				end := off + 4000
				if end > len(data) {
					end = len(data)
				}
				require.NoError(t, sock.Send(data[off:end]))
			}
			require.NoError(t, sock.SignalDone())
			require.NoError(t, sock.Close())

			res := <-resCh
			require.NoError(t, res.err)
			require.Equal(t, data, res.data)
		})
	}
}

func TestRecvWithoutDone(t *testing.T) {
	var out bytes.Buffer
	n, err := Recv(bytes.NewReader([]byte("abcdefgh")), &out)
	require.Equal(t, ErrNoDone, err)
	require.Equal(t, int64(3), n)
	require.Equal(t, "abc", out.String())

	out.Reset()
	n, err = Recv(bytes.NewReader([]byte(DoneToken)), &out)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestSendBadAck(t *testing.T) {
	var conn struct {
		io.Reader
		io.Writer
	}
	var written bytes.Buffer
	conn.Reader, conn.Writer = bytes.NewReader([]byte("NAK\n")), &written
	err := Send(&conn, bytes.NewReader(nil), 0)
	require.Equal(t, ErrBadAck, err)
	require.Equal(t, []byte{0, 0, 0, 0}, written.Bytes())
}

func TestSocketWithoutClient(t *testing.T) {
	l, err := Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	sock := NewSocket(l)
	_, err = sock.Receive(4)
	require.Equal(t, ErrNoClient, err)
	require.Equal(t, ErrNoClient, sock.Acknowledge())

	errCh := make(chan error, 1)
	go func() { errCh <- sock.WaitForClient() }()
	require.NoError(t, sock.Close())
	require.Error(t, <-errCh)
	require.NoError(t, sock.Close())
	require.True(t, errors.Is(sock.WaitForClient(), ErrClosed))
}

func TestDialUnsupported(t *testing.T) {
	_, err := Dial("serial:///dev/ttyUSB0")
	require.Error(t, err)
}
