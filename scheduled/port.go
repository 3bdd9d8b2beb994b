package scheduled

import "reflect"

func typeMismatch[T any](id HandoffId, got any) error {
	return &ErrPortTypeMismatch{
		HandoffID: id.Index(),
		WantType:  reflect.TypeOf((*T)(nil)).Elem(),
		GotType:   reflect.TypeOf(got),
	}
}

// SendPort is the write side of a handoff, captured by a subgraph closure
// at AddSubgraph time. Calling Send outside of the owning subgraph's run
// is a programmer error, but it is not guarded against at runtime — the
// same trust boundary as the rest of this package's operator-author API.
type SendPort[T any] struct {
	sched *Scheduler
	id    HandoffId
}

// Send appends v to the underlying handoff.
func (p SendPort[T]) Send(v T) {
	h := p.sched.handoffs.Get(p.id)
	switch hh := h.(type) {
	case *VecHandoff[T]:
		hh.Send(v)
	case *TeeHandoff[T]:
		hh.Send(v)
	default:
		panic(typeMismatch[T](p.id, h))
	}
}

// RecvPort is the read side of a handoff. A plain (non-teeing) RecvPort
// has cursor -1 and reads the whole VecHandoff buffer; a teeing RecvPort
// carries the cursor id it registered with the TeeHandoff at build time.
type RecvPort[T any] struct {
	sched  *Scheduler
	id     HandoffId
	cursor int
}

// TakeAll drains everything newly available on this port since the last call.
func (p RecvPort[T]) TakeAll() []T {
	h := p.sched.handoffs.Get(p.id)
	switch hh := h.(type) {
	case *VecHandoff[T]:
		return hh.TakeAll()
	case *TeeHandoff[T]:
		return hh.TakeAllFor(p.cursor)
	default:
		panic(typeMismatch[T](p.id, h))
	}
}

// HandoffID returns the underlying handoff identifier, mostly useful for
// tracing and diagnostics.
func (p RecvPort[T]) HandoffID() HandoffId { return p.id }

// HandoffID returns the underlying handoff identifier.
func (p SendPort[T]) HandoffID() HandoffId { return p.id }
