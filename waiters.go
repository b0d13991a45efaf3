package eslgo

import "sync"

// eventWaiter is a one-shot subscription for "the next event matching
// this predicate," the correlator behind ExecuteApp, BgApi, and Originate
// (§4.2's "Event-completion futures"). It tolerates the matching event
// arriving before, after, or never relative to the synchronous reply that
// triggered the wait, and is always removed on its terminal path, whether
// that's a match, an external cancellation, or Connection teardown.
type eventWaiter struct {
	match func(*EventMessage) bool
	ch    chan *EventMessage
}

// eventWaiters is the registry of live waiters, consulted by the reader
// loop for every incoming event right after publishing it on the Events
// broadcast.
type eventWaiters struct {
	mu      sync.Mutex
	waiters map[*eventWaiter]struct{}
}

func newEventWaiters() *eventWaiters {
	return &eventWaiters{waiters: make(map[*eventWaiter]struct{})}
}

// add registers a new waiter and returns it along with a cancel function
// that removes it without resolving it (used when a concurrent path
// already won the race, e.g. a failed bgapi dispatch in Originate).
func (w *eventWaiters) add(match func(*EventMessage) bool) (*eventWaiter, func()) {
	waiter := &eventWaiter{match: match, ch: make(chan *EventMessage, 1)}
	w.mu.Lock()
	w.waiters[waiter] = struct{}{}
	w.mu.Unlock()
	cancel := func() {
		w.mu.Lock()
		delete(w.waiters, waiter)
		w.mu.Unlock()
	}
	return waiter, cancel
}

// dispatch offers ev to every registered waiter whose predicate matches,
// removing each one it resolves. Multiple independent waiters may match
// the same event (e.g. an Originate wait and an unrelated ExecuteApp
// wait can never collide since their predicates differ by UUID/app, but
// nothing stops a caller from registering overlapping predicates).
func (w *eventWaiters) dispatch(ev *EventMessage) {
	w.mu.Lock()
	var matched []*eventWaiter
	for waiter := range w.waiters {
		if waiter.match(ev) {
			matched = append(matched, waiter)
			delete(w.waiters, waiter)
		}
	}
	w.mu.Unlock()
	for _, waiter := range matched {
		waiter.ch <- ev
	}
}

// failAll resolves every live waiter's channel as closed-with-no-value by
// closing it, so a blocked receive unblocks with the zero value; callers
// tell this apart from a genuine match by the receive's ok flag and report
// ErrConnectionClosed.
func (w *eventWaiters) failAll() {
	w.mu.Lock()
	waiters := w.waiters
	w.waiters = make(map[*eventWaiter]struct{})
	w.mu.Unlock()
	for waiter := range waiters {
		close(waiter.ch)
	}
}
