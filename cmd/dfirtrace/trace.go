package main

import "github.com/dfir-go/dfir/scheduled"

// event is one recorded tracer callback, flattened for rendering.
type event struct {
	kind       string
	tick       uint64
	stratum    int
	subgraph   int
	isExternal bool
}

// recordingTracer implements scheduled.Tracer by appending every callback
// to an in-memory slice, so a finished run can be rendered as a timeline
// after the fact instead of printed line-by-line as it happens.
type recordingTracer struct {
	events []event
}

func (r *recordingTracer) OnTickStart(tick uint64) {
	r.events = append(r.events, event{kind: "tick-start", tick: tick})
}

func (r *recordingTracer) OnStratumStart(tick uint64, stratum int) {
	r.events = append(r.events, event{kind: "stratum-start", tick: tick, stratum: stratum})
}

func (r *recordingTracer) OnSubgraphRun(tick uint64, stratum int, subgraph scheduled.SubgraphId, isExternal bool) {
	r.events = append(r.events, event{
		kind:       "subgraph-run",
		tick:       tick,
		stratum:    stratum,
		subgraph:   subgraph.Index(),
		isExternal: isExternal,
	})
}

func (r *recordingTracer) OnTickEnd(tick uint64) {
	r.events = append(r.events, event{kind: "tick-end", tick: tick})
}
