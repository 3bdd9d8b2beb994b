// Command dfirtrace builds a small example dataflow, runs it for a
// handful of ticks while recording every scheduler callback, and renders
// the resulting tick/stratum/subgraph timeline to the terminal.
//
// It exists to give the scheduler's Tracer hook a concrete, runnable
// consumer: a symmetric hash join with one side held at static
// persistence, which self-reschedules to stay live across ticks with no
// new input at all. RunTick reports every subgraph run to the Tracer with
// isExternal false (it does not record which runs an external event
// triggered), so every run in the rendered timeline is labelled internal.
package main

import (
	"fmt"

	"github.com/dfir-go/dfir/internal/dlog"
	"github.com/dfir-go/dfir/ops"
	"github.com/dfir-go/dfir/scheduled"
)

func main() {
	tracer := &recordingTracer{}
	cfg := scheduled.DefaultSchedulerConfig()
	cfg.Tracer = tracer
	cfg.Logger = dlog.NewStdLogger(dlog.LevelInfo)

	b := scheduled.NewBuilder(cfg)

	lhsSend, lhsRecv := scheduled.AddHandoff[ops.Pair[string, string]](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[ops.Pair[string, string]](b)

	out := ops.Join[string, string, string](b, 0, scheduled.LifespanStatic, scheduled.LifespanTick, lhsRecv, rhsRecv)

	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		for _, p := range out.TakeAll() {
			fmt.Printf("joined: %s -> (%s, %s)\n", p.First, p.Second.First, p.Second.Second)
		}
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send(ops.NewPair("alice", "engineering"))
	lhsSend.Send(ops.NewPair("bob", "sales"))
	sched.ScheduleSubgraph(src, false)
	mustRun(sched)

	rhsSend.Send(ops.NewPair("alice", "remote"))
	sched.ScheduleSubgraph(src, false)
	mustRun(sched)

	mustRun(sched)

	fmt.Println()
	fmt.Println(renderTimeline(tracer.events))
}

func mustRun(sched *scheduled.Scheduler) {
	if err := sched.RunAvailable(); err != nil {
		panic(err)
	}
}
