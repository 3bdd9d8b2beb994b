// Package scheduled implements a single-process, tick-based dataflow
// scheduler: a compiled graph of subgraph closures, partitioned into
// ascending strata, connected by typed handoffs, with per-cell state
// governed by a declared lifespan.
//
// # Building a graph
//
// A Builder accumulates subgraphs, handoffs, edges, and state cells:
//
//	b := scheduled.NewBuilder(nil)
//	send, recv := scheduled.AddHandoff[int](b)
//	src := b.AddSubgraph(0, func(ctx *scheduled.Context) { send.Send(1) })
//	scheduled.AddSender(b, send, src)
//	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
//		for range recv.TakeAll() { /* ... */ }
//	})
//	scheduled.AddEdge(b, recv, sink)
//	sched := b.Build()
//
// Subgraph closures close over the typed RecvPort/SendPort values
// returned by AddHandoff/AddTeeHandoff: Go's generics provide the
// compile-time guarantee that a port's element type agrees with what a
// closure sends or receives, without needing a variadic port-list type.
//
// # Running
//
// sched.ScheduleSubgraph(id, false) queues a subgraph for the current
// tick; sched.RunTick() drains every scheduled subgraph, stratum by
// stratum, in ascending order, FIFO within a stratum (ties broken only
// when loop nesting requires deeper loops to finish their iteration
// before an enclosing stratum is considered drained). sched.RunAvailable
// additionally drains any external events queued via a Waker since the
// last call, and sched.RunAsync/RunUntilAsync loop forever (or until a
// context is cancelled), waiting between ticks for the next external
// event or, at most, the configured IdleWait.
//
// # State
//
// AddState/StateRef/StateMut/SetStateLifespanHook are free functions,
// not methods, because Go does not allow a method to introduce a type
// parameter its receiver doesn't have — the same reason the operators in
// the sibling ops package are themselves free functions parameterized
// over element and key types.
package scheduled
