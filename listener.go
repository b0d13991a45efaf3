package eslgo

import (
	"net"
	"net/http"
	"sync"
)

// Listener accepts FreeSWITCH-initiated outbound sockets, over plain TCP or
// over WebSocket. Every accepted socket is wrapped in a Connection, tracked
// in the live set until it terminates, and published once on Accepted for
// callers to range over.
type Listener struct {
	ln     net.Listener
	opts   *options
	logger Logger

	accepted *broadcaster[*Connection]

	mu   sync.Mutex
	live map[string]*Connection

	wsServer *http.Server
}

func newListener(ln net.Listener, opts *options) *Listener {
	return &Listener{
		ln:       ln,
		opts:     opts,
		logger:   opts.logger,
		accepted: newBroadcasterSize[*Connection]("accepted", opts.broadcastBuffer, opts.logger),
		live:     make(map[string]*Connection),
	}
}

// ListenTCP accepts outbound sockets over plain TCP, the path every
// FreeSWITCH deployment uses directly. Pass ":0" (or "host:0") to bind an
// ephemeral port and read it back from Addr.
func ListenTCP(addr string, opts ...Option) (*Listener, error) {
	o := resolveOptions(opts)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, wrap(err, "listen")
	}
	l := newListener(ln, o)
	go l.acceptLoop()
	return l, nil
}

// ListenWebsocket accepts outbound sockets fronted by a WebSocket⇄TCP
// bridge, exercising the same Connection machinery as ListenTCP over a
// gorilla/websocket transport instead of a raw net.Conn.
func ListenWebsocket(addr string, opts ...Option) (*Listener, error) {
	o := resolveOptions(opts)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, wrap(err, "listen")
	}
	l := newListener(ln, o)

	upgrader := newWebsocketUpgrader()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			l.logger.Warnf("eslgo: websocket upgrade failed: %v", err)
			return
		}
		l.handleAccepted(newTransportWebsocket(wsConn))
	})
	server := &http.Server{Handler: mux}
	l.wsServer = server
	go server.Serve(ln)
	return l, nil
}

func (l *Listener) acceptLoop() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			l.Dispose()
			return
		}
		l.handleAccepted(newTransportTCPSize(conn, l.opts.readBufferSize))
	}
}

func (l *Listener) handleAccepted(t transport) {
	c := newConnection(t, l.opts)
	c.id = newUUID()

	l.mu.Lock()
	if l.live == nil { // Dispose already ran
		l.mu.Unlock()
		_ = t.Close()
		return
	}
	l.live[c.id] = c
	l.mu.Unlock()

	c.run()
	l.accepted.Publish(c)

	go func() {
		<-c.Done()
		l.mu.Lock()
		delete(l.live, c.id)
		l.mu.Unlock()
	}()
}

// Accepted returns a subscription delivering each Connection as it's
// accepted.
func (l *Listener) Accepted() *subscription[*Connection] { return l.accepted.Subscribe() }

// Addr returns the listener's bound address, useful to read back the port
// when constructed with ":0".
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Dispose stops accepting new connections, completes the Accepted stream,
// and closes every still-live accepted Connection. Safe to call more than
// once.
func (l *Listener) Dispose() error {
	l.mu.Lock()
	if l.live == nil {
		l.mu.Unlock()
		return nil
	}
	live := make([]*Connection, 0, len(l.live))
	for _, c := range l.live {
		live = append(live, c)
	}
	l.live = nil
	l.mu.Unlock()

	_ = l.ln.Close()
	if l.wsServer != nil {
		_ = l.wsServer.Close()
	}
	l.accepted.Close()
	for _, c := range live {
		_ = c.Close()
	}
	return nil
}
