package scheduled

// Tracer is an optional observer a Scheduler can be configured with,
// generalizing the span-per-step tracing pattern used elsewhere in this
// codebase's lineage from "one span per graph node" to "one span per
// tick/stratum/subgraph run". A nil Tracer (the default) costs nothing:
// every call site checks for nil before invoking it.
type Tracer interface {
	OnTickStart(tick uint64)
	OnStratumStart(tick uint64, stratum int)
	OnSubgraphRun(tick uint64, stratum int, subgraph SubgraphId, isExternal bool)
	OnTickEnd(tick uint64)
}

// NoOpTracer implements Tracer with no-ops; it exists so callers can embed
// it and override only the methods they care about.
type NoOpTracer struct{}

func (NoOpTracer) OnTickStart(uint64)                                    {}
func (NoOpTracer) OnStratumStart(uint64, int)                            {}
func (NoOpTracer) OnSubgraphRun(uint64, int, SubgraphId, bool)           {}
func (NoOpTracer) OnTickEnd(uint64)                                      {}
