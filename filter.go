package eslgo

import (
	"context"
	"strings"
)

// Filter restricts which events this socket receives to those whose header
// matches value, the way every ESL client in the pack wraps "filter".
func (c *Connection) Filter(ctx context.Context, header, value string) (*CommandReply, error) {
	return c.SendCommand(ctx, "filter "+header+" "+value)
}

// FilterDelete removes a previously installed filter by sending
// "filter delete <header> <value>"; an empty value sends the header alone.
func (c *Connection) FilterDelete(ctx context.Context, header, value string) (*CommandReply, error) {
	text := "filter delete " + header
	if value != "" {
		text += " " + value
	}
	return c.SendCommand(ctx, text)
}

// MyEvents restricts this socket to events for a single channel, the
// per-call filtering every outbound handler installs immediately after
// Connect.
func (c *Connection) MyEvents(ctx context.Context, uuid string) (*CommandReply, error) {
	return c.SendCommand(ctx, "myevents "+uuid)
}

// Event subscribes to the given plain-text event types (e.g. "CHANNEL_ANSWER
// CHANNEL_HANGUP"), equivalent to "event plain <types>".
func (c *Connection) Event(ctx context.Context, types ...string) (*CommandReply, error) {
	return c.SendCommand(ctx, "event plain "+strings.Join(types, " "))
}

// EventJson is Event's JSON-encoded-body counterpart.
func (c *Connection) EventJson(ctx context.Context, types ...string) (*CommandReply, error) {
	return c.SendCommand(ctx, "event json "+strings.Join(types, " "))
}

// Log subscribes this socket to FreeSWITCH's own log output at level (e.g.
// "debug", "info", "warning"), delivered as log/data frames and readable
// from Logs.
func (c *Connection) Log(ctx context.Context, level string) (*CommandReply, error) {
	return c.SendCommand(ctx, "log "+level)
}

// NoLog cancels a prior Log subscription.
func (c *Connection) NoLog(ctx context.Context) (*CommandReply, error) {
	return c.SendCommand(ctx, "nolog")
}

// Exit tells FreeSWITCH to close this socket from its side, the inbound
// counterpart to an outbound handler's Linger/NoLinger.
func (c *Connection) Exit(ctx context.Context) (*CommandReply, error) {
	return c.SendCommand(ctx, "exit")
}
