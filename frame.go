package eslgo

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Recognized Content-Type values, compared bytewise per the wire protocol.
const (
	ContentTypeAuthRequest      = "auth/request"
	ContentTypeCommandReply     = "command/reply"
	ContentTypeApiResponse      = "api/response"
	ContentTypeEventPlain       = "text/event-plain"
	ContentTypeDisconnectNotice = "text/disconnect-notice"
	ContentTypeLogData          = "log/data"
)

// BasicMessage is one parsed ESL frame: a header block plus an optional
// body. Header keys preserve wire case; duplicate headers keep the last
// value written.
type BasicMessage struct {
	Headers Header
	Body    []byte
}

// ContentType returns the Content-Type header, or "" if absent.
func (m *BasicMessage) ContentType() string {
	return m.Headers.Get("Content-Type")
}

// ContentLength returns the parsed Content-Length header, or 0 if absent
// or unparsable.
func (m *BasicMessage) ContentLength() int {
	v := m.Headers.Get("Content-Length")
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// ReplyText returns the Reply-Text header, or "" if absent.
func (m *BasicMessage) ReplyText() string {
	return m.Headers.Get("Reply-Text")
}

// Framer turns a byte stream into a sequence of BasicMessage frames. It is
// streaming: ReadMessage blocks on the underlying reader exactly as long as
// it takes for the next frame's bytes to arrive, and is restartable across
// however many underlying Read calls the transport needs to satisfy it.
type Framer struct {
	r *bufio.Reader
}

// NewFramer wraps r, buffering reads the way every transport in this
// package's pack reads ESL frames (header lines, then an exact-length
// body).
func NewFramer(r io.Reader) *Framer {
	return newFramerSize(r, 16*1024)
}

func newFramerSize(r io.Reader, size int) *Framer {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, size)
	}
	return &Framer{r: br}
}

// ReadMessage reads and returns the next frame. A malformed Content-Length
// yields a non-fatal *ProtocolError: the header block (already fully
// consumed up to its terminating blank line) is discarded and the framer
// is ready to read the next frame on the following call. Any I/O error,
// including a premature EOF inside a frame's body, is fatal and the caller
// must treat the Connection as terminated.
func (f *Framer) ReadMessage() (*BasicMessage, error) {
	for {
		lines, err := f.readHeaderLines()
		if err != nil {
			return nil, err
		}
		headers := parseHeaderBlock(lines)

		clRaw := headers.Get("Content-Length")
		if clRaw == "" {
			return &BasicMessage{Headers: headers}, nil
		}
		n, convErr := strconv.Atoi(clRaw)
		if convErr != nil || n < 0 {
			return nil, &ProtocolError{Stage: "content-length", Headers: strings.Join(lines, "\n"), Cause: convErr, Fatal: false}
		}
		if n == 0 {
			return &BasicMessage{Headers: headers}, nil
		}
		body := make([]byte, n)
		if _, err := io.ReadFull(f.r, body); err != nil {
			return nil, &ProtocolError{Stage: "body", Headers: strings.Join(lines, "\n"), Cause: err, Fatal: true}
		}
		return &BasicMessage{Headers: headers, Body: body}, nil
	}
}

// readHeaderLines accumulates LF-terminated lines (CR tolerated) until the
// blank line that ends the header block, returning the non-blank lines.
func (f *Framer) readHeaderLines() ([]string, error) {
	var lines []string
	for {
		line, err := f.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			return lines, nil
		}
		lines = append(lines, line)
	}
}
