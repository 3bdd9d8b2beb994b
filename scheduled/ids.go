package scheduled

// Phantom tag types used only to parameterize Key[Tag] — they carry no
// data and are never instantiated.
type (
	subgraphTag struct{}
	handoffTag  struct{}
	stateTag    struct{}
	loopTag     struct{}
)

// SubgraphId identifies a compiled subgraph within a Scheduler.
type SubgraphId = Key[subgraphTag]

// HandoffId identifies a handoff (VecHandoff or TeeHandoff) within a Scheduler.
type HandoffId = Key[handoffTag]

// StateId identifies a state cell within a Scheduler.
type StateId = Key[stateTag]

// LoopId identifies a loop context within a Scheduler.
type LoopId = Key[loopTag]
