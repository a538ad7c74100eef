package peer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"net/url"

	"golang.org/x/net/websocket"
)

// Dial connects to a transceiver at a tcp://, unix:// or ws:// URL.
func Dial(rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, err
	}
	switch u.Scheme {
	case "tcp", "":
		return net.Dial("tcp", u.Host)
	case "unix":
		return net.Dial("unix", u.Path)
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		ws, err := websocket.Dial(rawURL, "", origin)
		if err != nil {
			return nil, err
		}
		ws.PayloadType = websocket.BinaryFrame
		return ws, nil
	}
	return nil, fmt.Errorf("peer: unsupported URL scheme %q", u.Scheme)
}

// Send performs the transmit handshake and streams size bytes from r.
func Send(conn io.ReadWriter, r io.Reader, size uint32) error {
	if err := WriteLength(conn, size); err != nil {
		return err
	}
	reply := make([]byte, len(AckToken))
	if _, err := io.ReadFull(conn, reply); err != nil {
		return err
	}
	if string(reply) != AckToken {
		return ErrBadAck
	}
	_, err := io.CopyN(conn, r, int64(size))
	return err
}

// Recv copies received data into w until the transceiver closes the
// stream, and returns the number of data bytes written. DoneToken is
// not written.
func Recv(conn io.Reader, w io.Writer) (int64, error) {
	var (
		total int64
		tail  []byte
		buf   = make([]byte, 4096)
	)
	for {
		n, err := conn.Read(buf)
		tail = append(tail, buf[:n]...)
		if keep := len(tail) - len(DoneToken); keep > 0 {
			if _, werr := w.Write(tail[:keep]); werr != nil {
				return total, werr
			}
			total += int64(keep)
			tail = append(tail[:0], tail[keep:]...)
		}
		if err == io.EOF {
			if !bytes.Equal(tail, []byte(DoneToken)) {
				return total, ErrNoDone
			}
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
