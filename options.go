package eslgo

import "time"

// options holds the resolved configuration for a Dial or Listen call, built
// up by applying a slice of Option in order.
type options struct {
	logger Logger

	dialTimeout  time.Duration
	writeTimeout time.Duration

	readBufferSize int

	broadcastBuffer int

	autoReconnect bool
	redoStrategy  RedoStrategy

	heartbeat bool
}

func defaultOptions() *options {
	return &options{
		logger:          newDefaultLogger(),
		dialTimeout:     5 * time.Second,
		writeTimeout:    5 * time.Second,
		readBufferSize:  16 * 1024,
		broadcastBuffer: broadcastBuffer,
	}
}

// Option configures a Dial or Listen call, following the teacher's
// struct-of-closures pattern: each Option is a function that mutates the
// shared options under construction.
type Option func(*options)

// WithLogger injects a Logger; the default writes Info and above to stderr
// and discards Debug.
func WithLogger(logger Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithLogLevel sets the minimum severity the default logger emits. It has no
// effect when combined with WithLogger and a caller-supplied Logger.
func WithLogLevel(level Level) Option {
	return func(o *options) {
		if dl, ok := o.logger.(*defaultLogger); ok {
			dl.SetLevel(level)
		}
	}
}

// WithDialTimeout bounds how long Dial waits to establish the TCP connection.
func WithDialTimeout(d time.Duration) Option {
	return func(o *options) { o.dialTimeout = d }
}

// WithWriteTimeout bounds every individual socket write a Connection makes.
// A write that exceeds it is treated as a lost connection.
func WithWriteTimeout(d time.Duration) Option {
	return func(o *options) { o.writeTimeout = d }
}

// WithReadBufferSize sets the Framer's underlying bufio.Reader size.
func WithReadBufferSize(n int) Option {
	return func(o *options) { o.readBufferSize = n }
}

// WithBroadcastBuffer sets the per-subscriber channel capacity on the
// Events, Messages and Logs streams and on Listener.Accepted.
func WithBroadcastBuffer(n int) Option {
	return func(o *options) { o.broadcastBuffer = n }
}

// WithAutoReconnect makes the inbound dialer redial and re-authenticate on
// connection loss, backing off per strategy (the default is exponential,
// 1s to a 64s ceiling). Off by default: this package never forces a
// reconnection policy on the caller.
func WithAutoReconnect(strategy RedoStrategy) Option {
	return func(o *options) {
		o.autoReconnect = true
		if strategy != nil {
			o.redoStrategy = strategy
		}
	}
}

// WithHeartbeat auto-subscribes the inbound dialer to HEARTBEAT events,
// which are then delivered on Events. No liveness deadline is tracked: a
// socket that goes silent without a read or write error is not detected.
func WithHeartbeat() Option {
	return func(o *options) { o.heartbeat = true }
}

func resolveOptions(opts []Option) *options {
	o := defaultOptions()
	for _, apply := range opts {
		apply(o)
	}
	if o.autoReconnect && o.redoStrategy == nil {
		o.redoStrategy = newDefaultRedoStrategy()
	}
	return o
}
