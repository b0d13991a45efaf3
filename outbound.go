package eslgo

import "context"

// Connect completes the outbound handshake: it sends "connect" and hydrates
// the resulting CHANNEL_DATA command/reply into an EventMessage (the
// headers-only special case, §3/§6), caching it so repeat calls are
// idempotent and return the same value without writing to the socket again.
func (c *Connection) Connect(ctx context.Context) (*EventMessage, error) {
	c.channelDataMu.Lock()
	if c.channelData != nil {
		ev := c.channelData
		c.channelDataMu.Unlock()
		return ev, nil
	}
	c.channelDataMu.Unlock()

	msg, err := c.sendAndWait(ctx, c.commandFIFO, []byte("connect\n\n"))
	if err != nil {
		return nil, err
	}
	ev, ok := eventMessageFromReply(msg)
	if !ok {
		return nil, &CommandFailureError{ReplyText: msg.ReplyText()}
	}

	c.channelDataMu.Lock()
	c.channelData = ev
	c.channelDataMu.Unlock()
	return ev, nil
}

// ChannelData returns the cached result of Connect, or nil if Connect has
// not been called yet.
func (c *Connection) ChannelData() *EventMessage {
	c.channelDataMu.Lock()
	defer c.channelDataMu.Unlock()
	return c.channelData
}

// Linger tells FreeSWITCH to keep this outbound socket open past the
// channel's hangup, delivering its final events before closing, instead of
// tearing the socket down the instant the call ends.
func (c *Connection) Linger(ctx context.Context) (*CommandReply, error) {
	return c.SendCommand(ctx, "linger")
}

// NoLinger reverts Linger.
func (c *Connection) NoLinger(ctx context.Context) (*CommandReply, error) {
	return c.SendCommand(ctx, "nolinger")
}
