package eslgo

import (
	"net"
	"time"
)

// transport is the byte-pipe a Connection frames and writes over. Two
// implementations back it: a raw TCP socket (transportTCP, the primary
// path — this is all FreeSWITCH itself ever dials or accepts) and a
// WebSocket connection (transportWebsocket, for operators fronting
// mod_esl with a WS⇄TCP bridge). Both are grounded on the same
// Read/Write/deadline shape the pack's transport wrappers use.
type transport interface {
	// ReadMessage returns the next framed BasicMessage.
	ReadMessage() (*BasicMessage, error)
	// Write sends a raw command frame, terminator included by the caller.
	Write(data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
	RemoteAddr() net.Addr
}

// transportTCP frames a plain net.Conn.
type transportTCP struct {
	conn   net.Conn
	framer *Framer
}

func newTransportTCPSize(conn net.Conn, readBufferSize int) *transportTCP {
	return &transportTCP{conn: conn, framer: newFramerSize(conn, readBufferSize)}
}

func (t *transportTCP) ReadMessage() (*BasicMessage, error) { return t.framer.ReadMessage() }

func (t *transportTCP) Write(data []byte) error {
	_, err := t.conn.Write(data)
	return wrap(err, "tcp write")
}

func (t *transportTCP) SetWriteDeadline(d time.Time) error { return t.conn.SetWriteDeadline(d) }
func (t *transportTCP) Close() error                       { return t.conn.Close() }
func (t *transportTCP) RemoteAddr() net.Addr               { return t.conn.RemoteAddr() }
