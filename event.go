package eslgo

import (
	"strconv"
	"strings"
)

// EventMessage is a BasicMessage whose payload describes one FreeSWITCH
// event. It is built one of two ways: from the CHANNEL_DATA quirk, where a
// command/reply's own headers already are the event's headers, or from an
// ordinary text/event-plain frame whose body holds a nested header block
// and optional sub-body.
type EventMessage struct {
	Headers Header
	Body    []byte
}

// eventMessageFromReply implements the CHANNEL_DATA special case (§3, §6):
// a command/reply frame that already carries an Event-Name header IS the
// event, headers and all, with no nested body.
func eventMessageFromReply(msg *BasicMessage) (*EventMessage, bool) {
	if msg.ContentType() != ContentTypeCommandReply {
		return nil, false
	}
	if msg.Headers.Get("Event-Name") == "" {
		return nil, false
	}
	return &EventMessage{Headers: msg.Headers.Clone()}, true
}

// parseEventMessage builds an EventMessage from a text/event-plain frame.
// The body begins with a header block terminated by a blank line; if that
// block names a Content-Length, exactly that many further bytes are the
// sub-body (e.g. BACKGROUND_JOB's command output), and any single trailing
// blank-line separator after it is discarded without scanning the sub-body
// itself for blank lines (a sub-body may legitimately contain one).
func parseEventMessage(msg *BasicMessage) (*EventMessage, error) {
	if msg.ContentType() != ContentTypeEventPlain {
		return nil, &ProtocolError{Stage: "event-body", Cause: errNotEventPlain, Fatal: false}
	}
	headerBlock, rest, err := splitHeaderBlock(msg.Body)
	if err != nil {
		return nil, &ProtocolError{Stage: "event-body", Cause: err, Fatal: false}
	}
	headers := parseHeaderBlock(strings.Split(headerBlock, "\n"))

	ev := &EventMessage{Headers: headers}
	if clRaw := headers.Get("Content-Length"); clRaw != "" {
		n, convErr := strconv.Atoi(clRaw)
		if convErr != nil || n < 0 {
			return nil, &ProtocolError{Stage: "event-body", Cause: convErr, Fatal: false}
		}
		if n > len(rest) {
			return nil, &ProtocolError{Stage: "event-body", Cause: errTruncatedSubBody, Fatal: false}
		}
		ev.Body = []byte(rest[:n])
		// discard exactly one trailing separator, nothing more; the
		// sub-body itself is never scanned for blank lines.
		rest = rest[n:]
		rest = strings.TrimPrefix(rest, "\n\n")
		rest = strings.TrimPrefix(rest, "\n")
	}
	return ev, nil
}

// splitHeaderBlock finds the blank-line boundary ("\n\n", CR tolerated)
// that ends a nested event's header block, returning the header text and
// whatever bytes follow it (as a string, since FreeSWITCH sub-bodies are
// always textual API output).
func splitHeaderBlock(body []byte) (header string, rest string, err error) {
	s := strings.ReplaceAll(string(body), "\r\n", "\n")
	idx := strings.Index(s, "\n\n")
	if idx < 0 {
		return "", "", errNoHeaderTerminator
	}
	return s[:idx], s[idx+2:], nil
}

// Derived accessors below.

// UUID returns the Unique-ID header identifying the channel this event is
// about.
func (e *EventMessage) UUID() string {
	return e.Headers.Get("Unique-ID")
}

// EventName returns the uppercased Event-Name token.
func (e *EventMessage) EventName() string {
	return strings.ToUpper(e.Headers.Get("Event-Name"))
}

// ChannelState returns Channel-State with any leading "CS_" stripped.
func (e *EventMessage) ChannelState() string {
	return strings.TrimPrefix(e.Headers.Get("Channel-State"), "CS_")
}

// AnswerState returns Answer-State, or "" if the event doesn't carry one.
func (e *EventMessage) AnswerState() string {
	return e.Headers.Get("Answer-State")
}

// HangupCause returns Hangup-Cause, or "" if the event doesn't carry one.
func (e *EventMessage) HangupCause() string {
	return e.Headers.Get("Hangup-Cause")
}

// JobUUID returns Job-UUID, the correlation key for BACKGROUND_JOB events.
func (e *EventMessage) JobUUID() string {
	return e.Headers.Get("Job-UUID")
}

// Variables returns the channel variables carried as "variable_"-prefixed
// headers, with the prefix stripped.
func (e *EventMessage) Variables() map[string]string {
	const prefix = "variable_"
	vars := make(map[string]string)
	for k, v := range e.Headers {
		if strings.HasPrefix(k, prefix) {
			vars[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return vars
}
