package scheduled

import (
	"fmt"
	"reflect"
)

// Lifespan controls when a state cell's contents are reset to their
// zero/bottom value, mirroring the persistence annotations ('tick,
// 'static, 'mut, a loop-scoped lifetime, or none) operators declare on
// their internal state in the upstream language this scheduler's model is
// drawn from.
type Lifespan int

const (
	// LifespanNone never resets automatically; the operator using the
	// cell is responsible for clearing it (or never does).
	LifespanNone Lifespan = iota
	// LifespanTick resets at the end of every tick.
	LifespanTick
	// LifespanLoop resets whenever the owning loop context's nonce
	// changes, i.e. once per loop iteration rather than once per tick.
	LifespanLoop
	// LifespanStatic never resets; the cell lives for the scheduler's
	// entire lifetime.
	LifespanStatic
	// LifespanMutable never resets automatically and additionally
	// signals "this cell is meant to be mutated by code outside the
	// owning subgraph's own run" (e.g. via a shared handle). Most
	// operators in ops/ reject this lifespan explicitly the way the
	// upstream state_by operator rejects 'mut.
	LifespanMutable
)

func (l Lifespan) String() string {
	switch l {
	case LifespanNone:
		return "none"
	case LifespanTick:
		return "tick"
	case LifespanLoop:
		return "loop"
	case LifespanStatic:
		return "static"
	case LifespanMutable:
		return "mutable"
	default:
		return "unknown"
	}
}

// StateHandle is a phantom-typed reference to a state cell. It carries no
// data of its own beyond the cell's id; StateRef/StateMut use the type
// parameter to downcast the cell's type-erased value safely.
type StateHandle[T any] struct {
	id StateId
}

// ID returns the underlying StateId, useful for tracing.
func (h StateHandle[T]) ID() StateId { return h.id }

// stateCell is the type-erased storage the scheduler actually keeps. The
// value field always holds a *T for whatever T the cell was created with;
// StateRef/StateMut assert back to *T using the StateHandle's phantom type.
type stateCell struct {
	value any
	typ   reflect.Type // the *T type value was created with; checked on every access

	lifespan Lifespan
	loopID   LoopId // meaningful only when lifespan == LifespanLoop
	lastSeen uint64 // loop nonce this cell was last reset for (used by LifespanLoop cells only)

	// lifespanReset is invoked when the cell's lifespan boundary is
	// crossed (tick end for LifespanTick, nonce change for LifespanLoop).
	// It receives the cell's *T value so it can reset it in place.
	lifespanReset func(any)

	// tickReset fires at the end of EVERY tick, regardless of the cell's
	// lifespan — a second, independent reset mechanism layered on top of
	// the lifespan-driven one. When both are registered, tickReset runs
	// first.
	tickReset func(any)
}

// AddState registers a new state cell initialized to init and returns a
// typed handle to it. The cell has LifespanNone (no automatic reset) until
// SetStateLifespanHook is called.
func AddState[T any](b *Builder, init T) StateHandle[T] {
	b.mustNotFrozen()
	v := new(T)
	*v = init
	id := b.sched.cells.Insert(&stateCell{
		value:    v,
		lifespan: LifespanNone,
		typ:      reflect.TypeOf((*T)(nil)).Elem(),
	})
	return StateHandle[T]{id: id}
}

// SetStateLifespanHook declares how a cell resets when its lifespan
// boundary is crossed. reset is called with the cell's *T value.
//
// LifespanMutable is accepted here (the mechanism doesn't care), but
// individual operators in ops/ that don't support mutable persistence
// reject it themselves via RejectMutableLifespan before calling this, the
// same way upstream operators raise a diagnostic for unsupported
// persistence arguments. Calling this twice on the same cell with two
// different lifespans is itself an ErrLifespanMisuse: a cell's reset
// boundary is declared once, at construction, not renegotiated mid-build.
func SetStateLifespanHook[T any](b *Builder, h StateHandle[T], lifespan Lifespan, reset func(*T)) {
	b.mustNotFrozen()
	cell := b.sched.cells.Get(h.id)
	if cell.lifespanReset != nil && cell.lifespan != lifespan {
		panic(fmt.Errorf("scheduled: state cell %d already hooked with lifespan %v, cannot rehook as %v: %w",
			h.id.Index(), cell.lifespan, lifespan, ErrLifespanMisuse))
	}
	cell.lifespan = lifespan
	cell.lifespanReset = func(v any) { reset(v.(*T)) }
}

// RejectMutableLifespan panics with ErrLifespanMisuse if persistence is
// LifespanMutable. Operators that have no meaningful way to honor
// 'mutable (almost all of them — it signals external mutation through a
// shared handle, which only a handful of stateful sinks make sense of)
// call this once, at construction time, before registering their state
// cells, the same way the upstream state_by operator rejects 'mut up
// front rather than letting it silently misbehave at run time.
func RejectMutableLifespan(persistence Lifespan) {
	if persistence == LifespanMutable {
		panic(fmt.Errorf("scheduled: %w: LifespanMutable is not supported by this operator", ErrLifespanMisuse))
	}
}

// SetStateLoopID associates a LifespanLoop cell with the loop context
// whose nonce changes drive its resets.
func SetStateLoopID[T any](b *Builder, h StateHandle[T], loop LoopId) {
	b.mustNotFrozen()
	cell := b.sched.cells.Get(h.id)
	cell.loopID = loop
}

// SetStateTickResetHook registers a reset that runs at the end of every
// tick, independent of (and before) any lifespan-driven reset.
func SetStateTickResetHook[T any](b *Builder, h StateHandle[T], reset func(*T)) {
	b.mustNotFrozen()
	cell := b.sched.cells.Get(h.id)
	cell.tickReset = func(v any) { reset(v.(*T)) }
}

// StateRef returns the current value of a state cell.
func StateRef[T any](ctx *Context, h StateHandle[T]) T {
	return *StateMut(ctx, h)
}

// StateMut returns a pointer to a state cell's value for in-place mutation.
// It panics with ErrStateTypeMismatch — a type-tag comparison against the
// reflect.Type recorded at AddState time, the same check port.go runs at
// every handoff access — if h's type parameter disagrees with what the
// cell actually holds; this is only reachable via a zero-value
// StateHandle (StateHandle's id field is unexported, so there is no other
// way to get a handle pointed at the wrong cell).
//
// LifespanLoop cells reset lazily here rather than at a fixed point in the
// tick: the owning loop's nonce only advances when RescheduleLoopBlock
// actually reschedules another iteration, so "once per iteration" is
// checked against that nonce on access instead of on a schedule the
// scheduler can't predict in advance.
func StateMut[T any](ctx *Context, h StateHandle[T]) *T {
	cell := ctx.sched.cells.Get(h.id)
	wantType := reflect.TypeOf((*T)(nil)).Elem()
	if cell.typ != wantType {
		panic(fmt.Errorf("scheduled: state cell %d: want %v, got %v: %w",
			h.id.Index(), wantType, cell.typ, ErrStateTypeMismatch))
	}
	if cell.lifespan == LifespanLoop {
		loop := ctx.sched.loops.Get(cell.loopID)
		if cell.lastSeen != loop.nonce {
			cell.lastSeen = loop.nonce
			if cell.lifespanReset != nil {
				cell.lifespanReset(cell.value)
			}
		}
	}
	return cell.value.(*T)
}
