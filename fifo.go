package eslgo

import "sync"

// pendingReply is the one-shot completion handle for a single outstanding
// command or API request.
type pendingReply struct {
	ch chan replyOrError
}

type replyOrError struct {
	msg *BasicMessage
	err error
}

func newPendingReply() *pendingReply {
	return &pendingReply{ch: make(chan replyOrError, 1)}
}

func (p *pendingReply) resolve(msg *BasicMessage) {
	p.ch <- replyOrError{msg: msg}
}

func (p *pendingReply) fail(err error) {
	p.ch <- replyOrError{err: err}
}

// replyFIFO is the ordered queue of pending requests of one kind (command
// replies or API responses). FreeSWITCH replies to a single socket
// strictly in request order, so the reader loop always resolves the
// oldest entry first; callers must enqueue under the same lock they write
// the request bytes with, or two concurrent callers could race their
// entries out of order.
type replyFIFO struct {
	mu    sync.Mutex
	queue []*pendingReply
}

// push appends a new pending reply. Call this and the socket write that
// corresponds to it inside the same external critical section.
func (f *replyFIFO) push(p *pendingReply) {
	f.mu.Lock()
	f.queue = append(f.queue, p)
	f.mu.Unlock()
}

// popOldest removes and returns the oldest pending reply, or nil if the
// queue is empty (an unsolicited reply arrived — logged and dropped by the
// caller).
func (f *replyFIFO) popOldest() *pendingReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.queue) == 0 {
		return nil
	}
	p := f.queue[0]
	f.queue = f.queue[1:]
	return p
}

// remove drops p from the queue before it has been resolved. The only safe
// caller is sendAndWait's own synchronous write-failure path: if the write
// that was supposed to produce p's reply never reached FreeSWITCH, no
// reply is ever coming for p, and leaving it queued would let some later,
// unrelated reply get mistakenly popped for it. remove must never be used
// to model cancelling a request that was actually written — by the time
// FreeSWITCH has the bytes, it will reply to them in order, and abandoning
// p here would hand that reply to whichever caller's request comes next
// instead, silently breaking FIFO correlation for them. remove reports
// whether p was still queued.
func (f *replyFIFO) remove(p *pendingReply) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, q := range f.queue {
		if q == p {
			f.queue = append(f.queue[:i], f.queue[i+1:]...)
			return true
		}
	}
	return false
}

// failAll drains every pending reply with err, used when the Connection
// terminates: both FIFOs are failed in full, not one entry each (§9's
// resolved "known defect": a connection-level read error must not dequeue
// a single entry per queue while leaving the rest to hang).
func (f *replyFIFO) failAll(err error) {
	f.mu.Lock()
	queue := f.queue
	f.queue = nil
	f.mu.Unlock()
	for _, p := range queue {
		p.fail(err)
	}
}
