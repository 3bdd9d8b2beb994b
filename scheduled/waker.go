package scheduled

import "github.com/google/uuid"

// Waker is a cheap, copyable handle an operator can hand to an external
// future, timer, or callback so that code running on another goroutine
// can ask the scheduler to rerun a specific subgraph. It is the
// poll-free analogue of the upstream runtime's task waker: instead of
// integrating with a generic async-task-wakeup protocol, Wake always
// does exactly one thing — schedule a subgraph as an external event.
type Waker struct {
	sched    *Scheduler
	subgraph SubgraphId
	traceID  uuid.UUID
}

// NewWaker creates a Waker bound to a specific subgraph. Operators call
// this once (often from within their own run, via ctx.NewWaker()) and
// hand the result off to whatever external resource they are polling.
func (ctx *Context) NewWaker() Waker {
	return Waker{sched: ctx.sched, subgraph: ctx.CurrentSubgraph(), traceID: uuid.New()}
}

// Wake schedules the bound subgraph to run, as an external event. Safe to
// call from any goroutine, any number of times (including after the
// scheduler has moved on to a later tick). Returns ErrUnknownSubgraph if
// the bound subgraph id is no longer valid for this Waker's Scheduler —
// unreachable for a Waker obtained the normal way, via ctx.NewWaker(), but
// surfaced rather than panicked since Wake is meant to be called from
// arbitrary external code long after the subgraph that created it ran.
func (w Waker) Wake() error {
	return w.sched.ScheduleSubgraph(w.subgraph, true)
}

// TraceID returns a stable identifier for this waker instance, useful
// when logging which of several concurrently outstanding wakers fired.
func (w Waker) TraceID() string {
	return w.traceID.String()
}
