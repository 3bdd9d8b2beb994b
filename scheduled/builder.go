package scheduled

// Builder assembles a Scheduler's topology: subgraphs, handoffs, edges,
// and state cells. Once Build is called the topology is frozen — every
// Builder method that would mutate it panics, the same way this
// codebase's lineage treats "you can't add nodes after compiling the
// graph".
type Builder struct {
	sched  *Scheduler
	frozen bool
}

// NewBuilder returns an empty Builder, ready to have subgraphs, handoffs,
// state, and edges added to it.
func NewBuilder(cfg *SchedulerConfig) *Builder {
	if cfg == nil {
		cfg = DefaultSchedulerConfig()
	}
	return &Builder{
		sched: &Scheduler{
			subgraphs:         NewSlotVec[subgraphTag, *subgraphData](),
			handoffs:          NewSlotVec[handoffTag, handoff](),
			handoffSuccessors: make(map[int][]SubgraphId),
			cells:             NewSlotVec[stateTag, *stateCell](),
			loops:             NewSlotVec[loopTag, *loopState](),
			events:            newEventQueue(),
			config:            cfg,
		},
	}
}

func (b *Builder) mustNotFrozen() {
	if b.frozen {
		panic("scheduled: builder used after Build")
	}
}

// AddSubgraph registers a subgraph closure at the given stratum (strata
// must be non-negative; the scheduler drains stratum 0, then 1, and so
// on). The returned SubgraphId is stable for the Scheduler's lifetime.
func (b *Builder) AddSubgraph(stratum int, fn SubgraphFn) SubgraphId {
	b.mustNotFrozen()
	if stratum < 0 {
		panic("scheduled: negative stratum")
	}
	id := b.sched.subgraphs.Insert(&subgraphData{fn: fn, stratum: stratum})
	b.sched.pending = append(b.sched.pending, false)
	b.sched.ranThisTick = append(b.sched.ranThisTick, false)
	for len(b.sched.ready) <= stratum {
		b.sched.ready = append(b.sched.ready, NewPriorityStack[SubgraphId]())
	}
	if stratum+1 > b.sched.numStrata {
		b.sched.numStrata = stratum + 1
	}
	return id
}

// SetSubgraphLoop associates a subgraph with a loop context, so its
// scheduling priority within a stratum reflects the loop's nesting depth.
func (b *Builder) SetSubgraphLoop(id SubgraphId, loop LoopId) {
	b.mustNotFrozen()
	sd := b.sched.subgraphs.Get(id)
	sd.loopID = loop
	sd.hasLoop = true
}

// AddHandoff creates a single-consumer VecHandoff and returns its two
// typed ends. Call AddEdge once to connect the recv end to the subgraph
// that reads it.
func AddHandoff[T any](b *Builder) (SendPort[T], RecvPort[T]) {
	b.mustNotFrozen()
	id := b.sched.handoffs.Insert(NewVecHandoff[T]())
	return SendPort[T]{sched: b.sched, id: id}, RecvPort[T]{sched: b.sched, id: id, cursor: -1}
}

// AddTeeHandoff creates a broadcast TeeHandoff. Call the returned factory
// once per downstream reader to get that reader's own RecvPort (each with
// an independent cursor over the shared buffer); call AddEdge once per
// reader as well, the same as for a plain handoff.
func AddTeeHandoff[T any](b *Builder) (SendPort[T], func() RecvPort[T]) {
	b.mustNotFrozen()
	th := NewTeeHandoff[T]()
	id := b.sched.handoffs.Insert(th)
	factory := func() RecvPort[T] {
		b.mustNotFrozen()
		cursor := th.NewReadCursor()
		return RecvPort[T]{sched: b.sched, id: id, cursor: cursor}
	}
	return SendPort[T]{sched: b.sched, id: id}, factory
}

// AddEdge records that reader consumes from a RecvPort's handoff: whenever
// a subgraph sends to that handoff and leaves it non-bottom, reader is
// scheduled for the current tick.
func AddEdge[T any](b *Builder, port RecvPort[T], reader SubgraphId) {
	b.mustNotFrozen()
	b.sched.handoffSuccessors[port.id.Index()] = append(b.sched.handoffSuccessors[port.id.Index()], reader)
}

// AddSender records that owner sends on a SendPort's handoff. The
// scheduler uses this at the end of owner's run to decide which handoffs
// to check for newly available data.
func AddSender[T any](b *Builder, port SendPort[T], owner SubgraphId) {
	b.mustNotFrozen()
	sd := b.sched.subgraphs.Get(owner)
	sd.sendHandoffs = append(sd.sendHandoffs, port.id)
}

// AddChannelInput creates a VecHandoff fed from outside the dataflow graph
// (e.g. a network listener goroutine, a CLI stdin reader) via the
// returned send function, which also wakes the given subgraph as an
// external event so it runs even if the scheduler is otherwise idle.
func AddChannelInput[T any](b *Builder, reader SubgraphId) (func(T), RecvPort[T]) {
	sendPort, recvPort := AddHandoff[T](b)
	sched := b.sched
	send := func(v T) {
		sendPort.Send(v)
		sched.ScheduleSubgraph(reader, true)
	}
	return send, recvPort
}

// Build finalizes the topology and returns the runnable Scheduler. The
// Builder itself must not be used afterwards.
func (b *Builder) Build() *Scheduler {
	b.mustNotFrozen()
	b.frozen = true
	return b.sched
}

// ScheduleSubgraph exposes Scheduler.ScheduleSubgraph before Build, for
// constructing a topology that schedules some initial set of subgraphs to
// run on the first tick (e.g. source subgraphs with no upstream handoff).
func (b *Builder) ScheduleSubgraph(id SubgraphId, isExternal bool) error {
	return b.sched.ScheduleSubgraph(id, isExternal)
}
