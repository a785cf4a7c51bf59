package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/coder/websocket"
)

// tiles rendered by clients come back in a single message
const wsReadLimit = 1 << 20

// webServer returns an http server for the files in staticDir and the
// listener that receives the connections made to its /ws endpoint.
func webServer(ctx context.Context, addr, staticDir string) (*wsListener, *http.Server) {
	l := newWSListener(ctx, addr+"/ws")
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l))
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("http listening", "addr", addr, "static", staticDir)
	return l, srv
}

// websocketHandler upgrades the request and queues the connection on l.
func websocketHandler(l *wsListener) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: take allowed origins from a flag
		})
		if err != nil {
			slog.Warn("websocket accept", "remote", r.RemoteAddr, "err", err)
			return
		}
		c.SetReadLimit(wsReadLimit)

		select {
		case l.conns <- c:
		case <-l.ctx.Done():
			c.Close(websocket.StatusGoingAway, "server shutting down")
		}
	}
}

// wsListener is a net.Listener over the websocket connections accepted by
// websocketHandler. Connections carry binary messages.
type wsListener struct {
	conns  chan *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc
	addr   wsAddr
}

var _ net.Listener = (*wsListener)(nil)

func newWSListener(ctx context.Context, addr string) *wsListener {
	ctx, cancel := context.WithCancel(ctx)
	return &wsListener{
		conns:  make(chan *websocket.Conn),
		ctx:    ctx,
		cancel: cancel,
		addr:   wsAddr(addr),
	}
}

func (l *wsListener) Accept() (net.Conn, error) {
	select {
	case c := <-l.conns:
		return websocket.NetConn(l.ctx, c, websocket.MessageBinary), nil
	case <-l.ctx.Done():
		return nil, net.ErrClosed
	}
}

func (l *wsListener) Addr() net.Addr { return l.addr }

// Close stops Accept and closes the connections handed out so far.
func (l *wsListener) Close() error {
	l.cancel()
	return nil
}

type wsAddr string

func (a wsAddr) Network() string { return "ws" }
func (a wsAddr) String() string  { return string(a) }
