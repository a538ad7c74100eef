package peer

import (
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Listener accepts peers over a stream network like TCP or unix.
type Listener struct {
	net.Listener
}

// Listen creates a Listener.
func Listen(network, addr string) (*Listener, error) {
	l, err := net.Listen(network, addr)
	if err != nil {
		return nil, err
	}
	glog.Infof("peer: listening on %s://%s", network, l.Addr())
	return &Listener{Listener: l}, nil
}

// Accept implements Acceptor.
func (l *Listener) Accept() (io.ReadWriteCloser, error) {
	return l.Listener.Accept()
}

// WebSocketListener accepts peers as websocket clients. Messages are
// binary frames treated as one byte stream in each direction.
type WebSocketListener struct {
	listener net.Listener
	server   *http.Server
	conns    chan *wsConn
	closed   chan struct{}
	once     sync.Once
}

type wsConn struct {
	*websocket.Conn
	done chan struct{}
	once sync.Once
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.Conn.Close()
}

// ListenWebSocket serves websocket peers at path on addr.
func ListenWebSocket(addr, path string) (*WebSocketListener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	wl := &WebSocketListener{
		listener: l,
		conns:    make(chan *wsConn),
		closed:   make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Server{Handler: wl.serve})
	wl.server = &http.Server{Handler: mux}
	go wl.server.Serve(l)
	glog.Infof("peer: listening on ws://%s%s", l.Addr(), path)
	return wl, nil
}

// Addr returns the listening address.
func (l *WebSocketListener) Addr() net.Addr {
	return l.listener.Addr()
}

func (l *WebSocketListener) serve(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	conn := &wsConn{Conn: ws, done: make(chan struct{})}
	select {
	case l.conns <- conn:
	case <-l.closed:
		return
	}
	// the connection ends when the handler returns.
	select {
	case <-conn.done:
	case <-l.closed:
	}
}

// Accept implements Acceptor.
func (l *WebSocketListener) Accept() (io.ReadWriteCloser, error) {
	select {
	case conn := <-l.conns:
		return conn, nil
	case <-l.closed:
		return nil, ErrClosed
	}
}

// Close implements Acceptor.
func (l *WebSocketListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return l.server.Close()
}
