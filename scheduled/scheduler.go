package scheduled

import (
	"context"
	"runtime/debug"
	"time"
)

// SubgraphFn is the closure a compiled subgraph runs each time it is
// scheduled. It receives a *Context scoped to that one run.
type SubgraphFn func(ctx *Context)

// subgraphData is everything the scheduler needs to know about a
// compiled subgraph beyond its own closure.
type subgraphData struct {
	fn            SubgraphFn
	stratum       int
	loopID        LoopId
	hasLoop       bool
	sendHandoffs  []HandoffId
}

// Scheduler executes a compiled dataflow graph: a fixed set of subgraphs,
// partitioned into ascending strata, connected by handoffs, wired during
// construction by a Builder and frozen by Builder.Build.
type Scheduler struct {
	subgraphs         *SlotVec[subgraphTag, *subgraphData]
	handoffs          *SlotVec[handoffTag, handoff]
	handoffSuccessors map[int][]SubgraphId
	cells             *SlotVec[stateTag, *stateCell]
	loops             *SlotVec[loopTag, *loopState]

	numStrata int
	ready     []*PriorityStack[SubgraphId]
	pending   []bool
	seq       int

	ranThisTick []bool
	tickErrors  []error

	currentTick    uint64
	currentStratum int

	events *eventQueue
	config *SchedulerConfig
}

// Context is passed to a subgraph closure for the duration of one run. It
// is the operator-facing API surface: scheduling, state access, loop
// control, and wakers all go through it (or through free functions, for
// the generic ones Go methods can't express — StateRef, StateMut).
type Context struct {
	sched          *Scheduler
	subgraph       SubgraphId
	firstRun       bool
	currentStratum int
}

// CurrentSubgraph returns the id of the subgraph currently running.
func (ctx *Context) CurrentSubgraph() SubgraphId { return ctx.subgraph }

// CurrentTick returns the tick currently being processed.
func (ctx *Context) CurrentTick() uint64 { return ctx.sched.currentTick }

// CurrentStratum returns the stratum currently being drained.
func (ctx *Context) CurrentStratum() int { return ctx.currentStratum }

// IsFirstRunThisTick reports whether this is the first time the current
// subgraph has run during the current tick. Operators like FoldKeyed and
// ReduceKeyed use this to decide whether to replay their 'static-persisted
// accumulated state or just process what's new.
func (ctx *Context) IsFirstRunThisTick() bool { return ctx.firstRun }

// ScheduleSubgraph lets a running subgraph request that id run again (most
// often ctx.CurrentSubgraph() itself, for 'static-persistence operators
// that must stay live across ticks with no new input). Equivalent to
// calling Scheduler.ScheduleSubgraph from outside a run.
func (ctx *Context) ScheduleSubgraph(id SubgraphId, isExternal bool) error {
	return ctx.sched.ScheduleSubgraph(id, isExternal)
}

// ScheduleSubgraph requests that id run (again, or for the first time)
// this tick, returning ErrUnknownSubgraph rather than panicking if id was
// never produced by this Scheduler's Builder — the one scheduling call
// this package exposes to arbitrary external callers (a Waker fired from
// a timer or future callback, a host driving the graph from outside any
// subgraph), so an id typo or a waker reused against the wrong Scheduler
// surfaces as a normal error instead of a slot-vec index panic.
//
// isExternal must be true when called from any goroutine other than the
// one driving the scheduler's run loop (e.g. from a Waker, a timer
// callback, or a goroutine polling an external future); it must be false
// when called synchronously from within a subgraph's own run (the
// self-rescheduling pattern stateful operators use to guarantee they
// rerun every tick).
func (s *Scheduler) ScheduleSubgraph(id SubgraphId, isExternal bool) error {
	if !s.subgraphs.Valid(id) {
		return ErrUnknownSubgraph
	}
	if isExternal {
		s.events.push(schedEvent{subgraph: id, isExternal: true})
		return nil
	}
	sd := s.subgraphs.Get(id)
	s.scheduleInStratum(id, sd.stratum)
	return nil
}

func (s *Scheduler) scheduleInStratum(id SubgraphId, stratum int) {
	idx := id.Index()
	if s.pending[idx] {
		return
	}
	s.pending[idx] = true
	sd := s.subgraphs.Get(id)
	depth := 0
	if sd.hasLoop {
		depth = s.loops.Get(sd.loopID).depth
	}
	s.seq++
	priority := depth*1_000_000_000 - s.seq
	s.ready[stratum].Push(priority, id)
}

// RunTick runs every subgraph scheduled so far to completion: strata drain
// in ascending order, each fully, before the next stratum starts, and a
// subgraph that reschedules itself (directly, or via a loop context) keeps
// its stratum open until nothing more is queued for it. It returns any
// subgraph panics recovered during the tick, wrapped as SubgraphPanicError
// (a single tick can recover more than one; only the first is returned —
// callers that need all of them should configure a Logger, which sees
// every one as it happens).
func (s *Scheduler) RunTick() error {
	if s.currentTick == ^uint64(0) {
		return ErrTickOverflow
	}
	s.currentTick++
	for i := range s.ranThisTick {
		s.ranThisTick[i] = false
	}
	s.tickErrors = s.tickErrors[:0]

	if s.config.Tracer != nil {
		s.config.Tracer.OnTickStart(s.currentTick)
	}

	for stratum := 0; stratum < s.numStrata; stratum++ {
		s.currentStratum = stratum
		if s.config.Tracer != nil {
			s.config.Tracer.OnStratumStart(s.currentTick, stratum)
		}
		for s.ready[stratum].Len() > 0 {
			id, _ := s.ready[stratum].Pop()
			s.pending[id.Index()] = false
			s.runSubgraph(id, stratum, false)
		}
	}

	s.applyTickEndResets()

	if s.config.Tracer != nil {
		s.config.Tracer.OnTickEnd(s.currentTick)
	}

	if len(s.tickErrors) > 0 {
		return s.tickErrors[0]
	}
	return nil
}

// RunAvailable drains every external event queued so far (without
// blocking for more) by scheduling the subgraphs they name, then runs a
// tick. It is the right call for a host loop that pumps its own external
// I/O and wants dataflow processing to catch up in between.
func (s *Scheduler) RunAvailable() error {
	s.drainEvents()
	return s.RunTick()
}

// RunAsync runs ticks forever, until ctx is cancelled. Between ticks it
// waits until an external event arrives or config.IdleWait elapses, and
// then runs a tick either way. Use this when every bit of
// scheduling is driven by wakers (timers, sockets, resolve-futures) and
// there is no separate host loop pumping RunAvailable itself.
func (s *Scheduler) RunAsync(ctx context.Context) error {
	return s.RunUntilAsync(ctx, nil)
}

// RunUntilAsync behaves like RunAsync but also returns (with a nil error)
// as soon as done is closed or receives a value, letting a caller bound
// how long the scheduler runs without tearing anything down. Passing a
// nil done channel makes it equivalent to RunAsync.
func (s *Scheduler) RunUntilAsync(ctx context.Context, done <-chan struct{}) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-done:
			return nil
		default:
		}

		evs := s.events.drain()
		if len(evs) == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-done:
				return nil
			case <-s.events.signalChan():
			case <-time.After(s.config.IdleWait):
			}
			evs = s.events.drain()
		}

		for _, ev := range evs {
			s.scheduleInStratum(ev.subgraph, s.subgraphs.Get(ev.subgraph).stratum)
		}
		if err := s.RunTick(); err != nil {
			return err
		}
	}
}

func (s *Scheduler) drainEvents() {
	for _, ev := range s.events.drain() {
		s.scheduleInStratum(ev.subgraph, s.subgraphs.Get(ev.subgraph).stratum)
	}
}

func (s *Scheduler) runSubgraph(id SubgraphId, stratum int, isExternal bool) {
	idx := id.Index()
	firstRun := !s.ranThisTick[idx]
	s.ranThisTick[idx] = true
	sd := s.subgraphs.Get(id)

	ctx := &Context{sched: s, subgraph: id, firstRun: firstRun, currentStratum: stratum}

	if s.config.Tracer != nil {
		s.config.Tracer.OnSubgraphRun(s.currentTick, stratum, id, isExternal)
	}

	s.runWithRecover(ctx, sd.fn, id)

	for _, hid := range sd.sendHandoffs {
		h := s.handoffs.Get(hid)
		if h.IsBottom() {
			continue
		}
		for _, succ := range s.handoffSuccessors[hid.Index()] {
			s.ScheduleSubgraph(succ, false)
		}
	}
}

func (s *Scheduler) runWithRecover(ctx *Context, fn SubgraphFn, id SubgraphId) {
	defer func() {
		if r := recover(); r != nil {
			err := &SubgraphPanicError{SubgraphID: id.Index(), Recovered: r, Stack: debug.Stack()}
			s.tickErrors = append(s.tickErrors, err)
			if s.config.Logger != nil {
				s.config.Logger.Error("subgraph %d panicked: %v", id.Index(), r)
			}
		}
	}()
	fn(ctx)
}

func (s *Scheduler) applyTickEndResets() {
	s.cells.Each(func(_ StateId, cell *stateCell) {
		if cell.tickReset != nil {
			cell.tickReset(cell.value)
		}
	})
	s.cells.Each(func(_ StateId, cell *stateCell) {
		if cell.lifespan == LifespanTick && cell.lifespanReset != nil {
			cell.lifespanReset(cell.value)
		}
	})
}
