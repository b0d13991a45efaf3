package eslgo

import (
	"errors"
	"io"
	"net"
	"os"
	"syscall"

	pkgerrors "github.com/pkg/errors"
)

// ProtocolError reports a malformed ESL frame: a bad Content-Length, an
// unreadable header block, or a truncated nested event body. Only a Fatal
// one terminates the Connection that produced it; a non-fatal one (a bad
// frame Content-Length, or a malformed or truncated nested event body) is
// logged, the frame or event is dropped, and reading continues.
type ProtocolError struct {
	Stage   string // e.g. "header", "body", "event-body", "content-length"
	Headers string // best-effort snapshot of the offending header block
	Cause   error
	// Fatal marks errors that leave the byte stream unsynchronized and
	// must terminate the Connection. Non-fatal ProtocolErrors (a bad
	// Content-Length) are already resynchronized on the next blank line
	// by the time they're returned; the caller may keep reading.
	Fatal bool
}

func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return "eslgo: protocol error at " + e.Stage + ": " + e.Cause.Error()
	}
	return "eslgo: protocol error at " + e.Stage
}

func (e *ProtocolError) Unwrap() error { return e.Cause }

// AuthError reports a failed inbound "auth" handshake.
type AuthError struct {
	ReplyText string
}

func (e *AuthError) Error() string {
	return "eslgo: authentication failed: " + e.ReplyText
}

// CommandFailureError reports a command/reply whose Reply-Text did not
// begin with "+OK", surfaced by operations that have no partial result to
// hand back instead (ExecuteApp, Connect, and Originate's own synchronous
// dispatch check before any Job-UUID correlation is possible) — SendCommand
// and SendApi instead hand the caller a CommandReply/ApiResponse, and BgApi
// a failed BackgroundJobResult, letting them check Success themselves.
type CommandFailureError struct {
	ReplyText string
}

func (e *CommandFailureError) Error() string {
	return "eslgo: command failed: " + e.ReplyText
}

// ErrConnectionClosed is the cause surfaced by every pending request and
// event subscription when a Connection terminates, whatever the reason.
var ErrConnectionClosed = errors.New("eslgo: connection closed")

// ErrDisposed is returned by an operation invoked on an already-closed
// Connection.
var ErrDisposed = errors.New("eslgo: disposed")

var (
	errNotEventPlain      = errors.New("eslgo: source frame is not text/event-plain")
	errNoHeaderTerminator = errors.New("eslgo: event body missing header terminator")
	errTruncatedSubBody   = errors.New("eslgo: event sub-body shorter than Content-Length")
)

// wrap annotates err with a message the way the pack's transports do,
// preserving the original error for errors.Is/As.
func wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return pkgerrors.WithMessage(err, message)
}

// connLost classifies a read or write error as connection-ending ("aborted")
// versus transient. Only the former tears down the Connection: it is
// consulted by readLoop for every ReadMessage error that isn't already a
// typed ProtocolError, and by sendAndWait for a failed write.
func connLost(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return false
}
