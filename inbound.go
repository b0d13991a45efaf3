package eslgo

import (
	"context"
	"fmt"
	"net"
)

// Dial connects to a FreeSWITCH inbound socket at addr, completes the
// auth/request handshake with password, and returns a live, running
// Connection. The returned error is an *AuthError if FreeSWITCH rejects the
// password, or a wrapped dial/read error for anything earlier.
func Dial(ctx context.Context, addr, password string, opts ...Option) (*Connection, error) {
	o := resolveOptions(opts)

	dialCtx := ctx
	if o.dialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, o.dialTimeout)
		defer cancel()
	}
	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, wrap(err, "dial")
	}

	t := newTransportTCPSize(conn, o.readBufferSize)
	authFrame, err := t.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, wrap(err, "read auth/request")
	}
	if authFrame.ContentType() != ContentTypeAuthRequest {
		_ = conn.Close()
		return nil, &ProtocolError{
			Stage: "auth",
			Cause: fmt.Errorf("unexpected content-type %q on handshake", authFrame.ContentType()),
			Fatal: true,
		}
	}

	c := newConnection(t, o)
	if o.autoReconnect {
		c.redialAddr = addr
		c.redialPassword = password
	}
	c.run()

	reply, err := c.Auth(ctx, password)
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	if !reply.Success() {
		_ = c.Close()
		return nil, &AuthError{ReplyText: reply.ReplyText}
	}

	if o.heartbeat {
		if _, err := c.Event(ctx, "HEARTBEAT"); err != nil {
			c.logger.Warnf("eslgo: heartbeat subscription failed: %v", err)
		}
	}

	return c, nil
}

// Originate asks FreeSWITCH to place a new call to endpoint and run
// application (with args) on answer, correlating the result by UUID (minted
// if opt.UUID is empty). It races the channel event (CHANNEL_ANSWER,
// CHANNEL_PROGRESS, or CHANNEL_HANGUP) against a failed bgapi dispatch,
// whichever arrives first; a successful dispatch with no channel event yet
// simply keeps waiting for one.
func (c *Connection) Originate(ctx context.Context, endpoint string, opt OriginateOptions, application, args string) (*OriginateResult, error) {
	if opt.UUID == "" {
		opt.UUID = newUUID()
	}

	channelWaiter, cancelChannel := c.waiters.add(func(ev *EventMessage) bool {
		if ev.UUID() != opt.UUID {
			return false
		}
		switch ev.EventName() {
		case "CHANNEL_ANSWER", "CHANNEL_HANGUP", "CHANNEL_PROGRESS":
			return true
		}
		return false
	})

	jobID := newUUID()
	jobWaiter, cancelJob := c.waiters.add(func(ev *EventMessage) bool {
		return ev.EventName() == "BACKGROUND_JOB" && ev.JobUUID() == jobID
	})

	app := application
	if args != "" {
		app += " " + args
	}
	command := "originate " + opt.Render() + endpoint + " &" + app
	raw := []byte("bgapi " + command + "\nJob-UUID: " + jobID + "\n\n")

	msg, err := c.sendAndWait(ctx, c.commandFIFO, raw)
	if err != nil {
		cancelChannel()
		cancelJob()
		return nil, err
	}
	reply := commandReplyFromMessage(msg)
	if !reply.Success() {
		cancelChannel()
		cancelJob()
		return nil, &CommandFailureError{ReplyText: reply.ReplyText}
	}

	select {
	case ev, ok := <-channelWaiter.ch:
		cancelJob()
		if !ok {
			return nil, ErrConnectionClosed
		}
		return &OriginateResult{UUID: opt.UUID, Event: ev}, nil
	case job, ok := <-jobWaiter.ch:
		if !ok {
			cancelChannel()
			return nil, ErrConnectionClosed
		}
		result := backgroundJobResultFromEvent(job)
		if !result.Success() {
			cancelChannel()
			return &OriginateResult{UUID: opt.UUID, Job: result}, nil
		}
		// Dispatch succeeded; the channel event hasn't arrived yet.
		select {
		case ev, ok := <-channelWaiter.ch:
			if !ok {
				return nil, ErrConnectionClosed
			}
			return &OriginateResult{UUID: opt.UUID, Event: ev}, nil
		case <-ctx.Done():
			cancelChannel()
			return nil, ctx.Err()
		}
	case <-ctx.Done():
		cancelChannel()
		cancelJob()
		return nil, ctx.Err()
	}
}
