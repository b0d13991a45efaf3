package eslgo

import (
	"context"
	"net"
	"sync"
	"time"
)

// Connection is one ESL socket, inbound or outbound. A single reader
// goroutine drains the transport and dispatches every frame: command/reply
// and api/response frames resolve the oldest entry in their respective
// FIFO, text/event-plain frames go to the Events broadcaster and the event
// waiter registry, log/data frames go to the Logs broadcaster, a
// text/disconnect-notice ends the Connection, and everything else is
// logged. Every frame is also published on Messages. All writes funnel through
// sendAndWait, which enqueues a pending reply and writes the request bytes
// as one critical section so concurrent callers' replies can never be
// resolved out of order.
type Connection struct {
	transportMu sync.RWMutex
	transport   transport
	logger      Logger
	opts        *options

	id string // uuid tag, set by Listener for accepted outbound sockets

	// redialAddr/redialPassword are set by Dial when WithAutoReconnect is in
	// effect; redialLoop uses them to re-establish the socket after a lost
	// connection without the caller needing to Dial again.
	redialAddr     string
	redialPassword string
	redialMu       sync.Mutex
	redialing      bool

	writeMu sync.Mutex

	commandFIFO *replyFIFO
	apiFIFO     *replyFIFO

	waiters *eventWaiters

	events   *broadcaster[*EventMessage]
	messages *broadcaster[*BasicMessage]
	logs     *broadcaster[*LogMessage]

	closeOnce sync.Once
	closed    chan struct{}

	channelDataMu sync.Mutex
	channelData   *EventMessage
}

func newConnection(t transport, opts *options) *Connection {
	c := &Connection{
		transport:   t,
		logger:      opts.logger,
		opts:        opts,
		commandFIFO: &replyFIFO{},
		apiFIFO:     &replyFIFO{},
		waiters:     newEventWaiters(),
		events:      newBroadcasterSize[*EventMessage]("events", opts.broadcastBuffer, opts.logger),
		messages:    newBroadcasterSize[*BasicMessage]("messages", opts.broadcastBuffer, opts.logger),
		logs:        newBroadcasterSize[*LogMessage]("logs", opts.broadcastBuffer, opts.logger),
		closed:      make(chan struct{}),
	}
	return c
}

// run starts the reader loop. Callers that need a synchronous handshake
// before general dispatch begins (inbound auth, outbound connect) read the
// first frame or two directly off the transport before calling run.
func (c *Connection) run() {
	go c.readLoop()
}

func (c *Connection) getTransport() transport {
	c.transportMu.RLock()
	defer c.transportMu.RUnlock()
	return c.transport
}

func (c *Connection) setTransport(t transport) {
	c.transportMu.Lock()
	defer c.transportMu.Unlock()
	c.transport = t
}

func (c *Connection) readLoop() {
	for {
		msg, err := c.getTransport().ReadMessage()
		if err != nil {
			if protoErr, ok := err.(*ProtocolError); ok {
				if !protoErr.Fatal {
					c.logger.Warnf("eslgo: %v", protoErr)
					continue
				}
				c.handleConnectionLost(err)
				return
			}
			if !connLost(err) {
				c.logger.Warnf("eslgo: transient read error, retrying: %v", err)
				continue
			}
			c.handleConnectionLost(err)
			return
		}
		if c.dispatch(msg) {
			// A disconnect-notice is FreeSWITCH's own graceful goodbye, not
			// a transient network failure — never auto-reconnect from it.
			c.terminate(ErrConnectionClosed)
			return
		}
	}
}

// handleConnectionLost reacts to the reader loop giving up on the current
// transport. Without auto-reconnect this is a normal, permanent teardown.
// With it, in-flight requests and event waiters still fail immediately
// (there is no way to recover a reply that belonged to the dead TCP
// session), but the Connection itself, and its Events/Messages/Logs
// subscribers, survive: a background redial loop takes over and, on
// success, resumes dispatch on the new transport.
func (c *Connection) handleConnectionLost(cause error) {
	if !c.opts.autoReconnect || c.redialAddr == "" {
		c.terminate(cause)
		return
	}
	select {
	case <-c.closed:
		return
	default:
	}

	// A dead transport is detected from two places — the reader loop's
	// ReadMessage error and a failed write in sendAndWait — and both may fire
	// for the same dead socket. Only the first one starts a redial loop.
	c.redialMu.Lock()
	if c.redialing {
		c.redialMu.Unlock()
		return
	}
	c.redialing = true
	c.redialMu.Unlock()

	c.commandFIFO.failAll(ErrConnectionClosed)
	c.apiFIFO.failAll(ErrConnectionClosed)
	c.waiters.failAll()
	c.logger.Warnf("eslgo: connection lost (%v), redialing", cause)
	go c.redialLoop()
}

// redialLoop retries the TCP dial and auth handshake with the configured
// backoff until one succeeds or the Connection is explicitly closed, then
// takes over as the reader loop for the new transport.
func (c *Connection) redialLoop() {
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		time.Sleep(c.opts.redoStrategy.NextWait())

		var d net.Dialer
		dialCtx, cancel := context.WithTimeout(context.Background(), c.opts.dialTimeout)
		rawConn, err := d.DialContext(dialCtx, "tcp", c.redialAddr)
		cancel()
		if err != nil {
			c.logger.Warnf("eslgo: redial attempt failed: %v", err)
			continue
		}

		t := newTransportTCPSize(rawConn, c.opts.readBufferSize)
		authFrame, err := t.ReadMessage()
		if err != nil || authFrame.ContentType() != ContentTypeAuthRequest {
			c.logger.Warnf("eslgo: redial handshake failed: %v", err)
			_ = rawConn.Close()
			continue
		}
		c.setTransport(t)
		// Auth's reply only ever arrives through dispatch, so the reader
		// loop has to be running on the new transport before the command is
		// sent. If auth fails and t gets closed below, this goroutine's own
		// ReadMessage error loops back into handleConnectionLost, which is a
		// no-op while c.redialing is still true.
		go c.readLoop()

		authCtx, cancel2 := context.WithTimeout(context.Background(), c.opts.dialTimeout)
		reply, err := c.Auth(authCtx, c.redialPassword)
		cancel2()
		if err != nil || !reply.Success() {
			c.logger.Warnf("eslgo: redial auth failed: %v", err)
			_ = t.Close()
			continue
		}

		c.opts.redoStrategy.Reset()
		c.logger.Infof("eslgo: redial succeeded")

		c.redialMu.Lock()
		c.redialing = false
		c.redialMu.Unlock()
		return
	}
}

// dispatch routes one frame and reports whether the connection should stop
// reading (a disconnect-notice frame).
func (c *Connection) dispatch(msg *BasicMessage) (stop bool) {
	c.messages.Publish(msg)
	switch msg.ContentType() {
	case ContentTypeCommandReply:
		if p := c.commandFIFO.popOldest(); p != nil {
			p.resolve(msg)
		} else {
			c.logger.Warnf("eslgo: unsolicited command/reply: %s", msg.ReplyText())
		}
	case ContentTypeApiResponse:
		if p := c.apiFIFO.popOldest(); p != nil {
			p.resolve(msg)
		} else {
			c.logger.Warnf("eslgo: unsolicited api/response")
		}
	case ContentTypeEventPlain:
		ev, err := parseEventMessage(msg)
		if err != nil {
			c.logger.Warnf("eslgo: malformed event: %v", err)
			return false
		}
		c.events.Publish(ev)
		c.waiters.dispatch(ev)
	case ContentTypeDisconnectNotice:
		return true
	case ContentTypeLogData:
		c.logs.Publish(parseLogMessage(msg))
	case ContentTypeAuthRequest:
		c.logger.Warnf("eslgo: unexpected auth/request after handshake")
	default:
		c.logger.Warnf("eslgo: unrecognized content-type %q", msg.ContentType())
	}
	return false
}

func (c *Connection) writeRaw(data []byte) error {
	if c.opts.writeTimeout > 0 {
		_ = c.getTransport().SetWriteDeadline(time.Now().Add(c.opts.writeTimeout))
	}
	return c.getTransport().Write(data)
}

// sendAndWait enqueues a pending reply on fifo and writes raw as a single
// critical section, then waits for the matching reply.
//
// ctx is only honored before the write: once raw is actually on the wire,
// FreeSWITCH will reply to it in request order, and there is no way to
// retract that without desynchronizing whichever caller's request comes
// next in the same FIFO. So a write that succeeds is always waited out to
// its real reply (or to connection teardown, which fails every queued
// entry); ctx cancellation past that point has no effect on this call.
func (c *Connection) sendAndWait(ctx context.Context, fifo *replyFIFO, raw []byte) (*BasicMessage, error) {
	select {
	case <-c.closed:
		return nil, ErrDisposed
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	pending := newPendingReply()
	c.writeMu.Lock()
	fifo.push(pending)
	err := c.writeRaw(raw)
	c.writeMu.Unlock()
	if err != nil {
		// The write never reached FreeSWITCH, so no reply is ever coming
		// for this entry; drop it rather than leave it queued forever.
		fifo.remove(pending)
		if connLost(err) {
			go c.handleConnectionLost(wrap(err, "write"))
		} else {
			c.logger.Warnf("eslgo: transient write error: %v", err)
		}
		return nil, wrap(err, "write")
	}

	r := <-pending.ch
	return r.msg, r.err
}

// SendCommand writes text followed by the blank-line terminator and returns
// the synchronous command/reply.
func (c *Connection) SendCommand(ctx context.Context, text string) (*CommandReply, error) {
	msg, err := c.sendAndWait(ctx, c.commandFIFO, []byte(text+"\n\n"))
	if err != nil {
		return nil, err
	}
	return commandReplyFromMessage(msg), nil
}

// SendApi issues "api <text>" and returns the synchronous api/response.
func (c *Connection) SendApi(ctx context.Context, text string) (*ApiResponse, error) {
	msg, err := c.sendAndWait(ctx, c.apiFIFO, []byte("api "+text+"\n\n"))
	if err != nil {
		return nil, err
	}
	return apiResponseFromMessage(msg), nil
}

// BgApi issues "bgapi <text>" tagged with jobID (minted if empty) and
// returns once the matching BACKGROUND_JOB event arrives. The event waiter
// is registered before the command is written, so a BACKGROUND_JOB that
// arrives before the synchronous reply is never missed.
func (c *Connection) BgApi(ctx context.Context, text string, jobID string) (*BackgroundJobResult, error) {
	if jobID == "" {
		jobID = newUUID()
	}
	waiter, cancel := c.waiters.add(func(ev *EventMessage) bool {
		return ev.EventName() == "BACKGROUND_JOB" && ev.JobUUID() == jobID
	})

	raw := []byte("bgapi " + text + "\nJob-UUID: " + jobID + "\n\n")
	msg, err := c.sendAndWait(ctx, c.commandFIFO, raw)
	if err != nil {
		cancel()
		return nil, err
	}
	reply := commandReplyFromMessage(msg)
	if !reply.Success() {
		cancel()
		// A rejected dispatch never produces a BACKGROUND_JOB event, so
		// there's nothing to wait for; resolve as a failed
		// BackgroundJobResult carrying the rejection text as its body,
		// rather than an error, matching Originate's own bgapi-failure path.
		return &BackgroundJobResult{JobUUID: jobID, Body: []byte(reply.ReplyText)}, nil
	}

	select {
	case ev, ok := <-waiter.ch:
		if !ok {
			return nil, ErrConnectionClosed
		}
		return backgroundJobResultFromEvent(ev), nil
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// ExecuteApp runs application on the channel identified by uuid via
// "sendmsg", waiting for the matching CHANNEL_EXECUTE_COMPLETE event.
func (c *Connection) ExecuteApp(ctx context.Context, uuid, application, args string) (*EventMessage, error) {
	waiter, cancel := c.waiters.add(func(ev *EventMessage) bool {
		return ev.EventName() == "CHANNEL_EXECUTE_COMPLETE" &&
			ev.UUID() == uuid &&
			ev.Headers.Get("Application") == application
	})

	raw := []byte("sendmsg " + uuid + "\ncall-command: execute\nexecute-app-name: " + application +
		"\nexecute-app-arg: " + args + "\n\n")
	msg, err := c.sendAndWait(ctx, c.commandFIFO, raw)
	if err != nil {
		cancel()
		return nil, err
	}
	reply := commandReplyFromMessage(msg)
	if !reply.Success() {
		cancel()
		return nil, &CommandFailureError{ReplyText: reply.ReplyText}
	}

	select {
	case ev, ok := <-waiter.ch:
		if !ok {
			return nil, ErrConnectionClosed
		}
		return ev, nil
	case <-ctx.Done():
		cancel()
		return nil, ctx.Err()
	}
}

// Auth sends the inbound "auth" command. Dial calls this during the
// handshake; it is also exposed directly for callers driving the handshake
// themselves.
func (c *Connection) Auth(ctx context.Context, password string) (*CommandReply, error) {
	return c.SendCommand(ctx, "auth "+password)
}

// Events returns a subscription to every parsed EventMessage.
func (c *Connection) Events() *subscription[*EventMessage] { return c.events.Subscribe() }

// Messages returns a subscription to every parsed BasicMessage, events
// included — useful for logging or protocol-level debugging.
func (c *Connection) Messages() *subscription[*BasicMessage] { return c.messages.Subscribe() }

// Logs returns a subscription to FreeSWITCH's own log/data frames, sent
// over the socket alongside events when the caller has enabled logging on
// this connection with "log <level>".
func (c *Connection) Logs() *subscription[*LogMessage] { return c.logs.Subscribe() }

// RemoteAddr returns the transport's peer address.
func (c *Connection) RemoteAddr() net.Addr { return c.getTransport().RemoteAddr() }

// Done returns a channel closed once the Connection has terminated, by
// either side or by an explicit Close.
func (c *Connection) Done() <-chan struct{} { return c.closed }

// Close tears the Connection down: every pending request future and event
// waiter resolves with ErrConnectionClosed, the Events, Messages and Logs
// streams complete, and the underlying transport is closed. Safe to call
// more than once.
func (c *Connection) Close() error {
	c.terminate(ErrDisposed)
	return nil
}

func (c *Connection) terminate(cause error) {
	c.closeOnce.Do(func() {
		close(c.closed)
		_ = c.getTransport().Close()
		c.commandFIFO.failAll(ErrConnectionClosed)
		c.apiFIFO.failAll(ErrConnectionClosed)
		c.waiters.failAll()
		c.events.Close()
		c.messages.Close()
		c.logs.Close()
		c.logger.Infof("eslgo: connection closed: %v", cause)
	})
}
