package eslgo

import (
	"bufio"
	"bytes"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// transportWebsocket frames a gorilla/websocket connection: each ESL frame
// is one WebSocket message (sent as text; text or binary accepted on read)
// rather than a raw byte stream, so framing re-parses each message independently instead of
// sharing a single Framer's buffered reader across messages.
type transportWebsocket struct {
	conn *websocket.Conn
}

func newTransportWebsocket(conn *websocket.Conn) *transportWebsocket {
	return &transportWebsocket{conn: conn}
}

func (t *transportWebsocket) ReadMessage() (*BasicMessage, error) {
	messageType, data, err := t.conn.ReadMessage()
	if err != nil {
		return nil, wrap(err, "websocket read")
	}
	if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
		return nil, &ProtocolError{Stage: "header", Cause: fmt.Errorf("unsupported websocket message type %d", messageType), Fatal: true}
	}
	return NewFramer(bufio.NewReader(bytes.NewReader(data))).ReadMessage()
}

func (t *transportWebsocket) Write(data []byte) error {
	return wrap(t.conn.WriteMessage(websocket.TextMessage, data), "websocket write")
}

func (t *transportWebsocket) SetWriteDeadline(d time.Time) error { return t.conn.SetWriteDeadline(d) }
func (t *transportWebsocket) Close() error                       { return t.conn.Close() }
func (t *transportWebsocket) RemoteAddr() net.Addr               { return t.conn.RemoteAddr() }

// newWebsocketUpgrader returns an Upgrader that accepts any origin, the
// same permissive default the pack's outbound WS listener uses — this
// module draws no distinction between origins since FreeSWITCH-side
// deployments terminate the WS bridge on a trusted network.
func newWebsocketUpgrader() *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
}
