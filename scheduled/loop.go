package scheduled

// loopState tracks one loop context's iteration nonce and depth. Depth is
// fixed at construction (the number of loops it is nested inside, +1);
// nonce and pendingContinue change at runtime.
type loopState struct {
	depth           int
	nonce           uint64
	pendingContinue bool
}

// AddLoop registers a new loop context nested inside parent (pass a zero
// LoopId and hasParent=false for a top-level loop). Loop-lifespan state cells
// reset whenever this loop's nonce changes.
func (b *Builder) AddLoop(parent LoopId, hasParent bool) LoopId {
	b.mustNotFrozen()
	depth := 1
	if hasParent {
		depth = b.sched.loops.Get(parent).depth + 1
	}
	return b.sched.loops.Insert(&loopState{depth: depth})
}

// LoopNonce returns a loop's current iteration nonce.
func (ctx *Context) LoopNonce(loop LoopId) uint64 {
	return ctx.sched.loops.Get(loop).nonce
}

// LoopDepth returns a loop's nesting depth (1 for a top-level loop).
func (ctx *Context) LoopDepth(loop LoopId) int {
	return ctx.sched.loops.Get(loop).depth
}

// AllowAnotherIteration is called by any subgraph inside a loop body to
// vote that the loop should run another iteration. The loop's driver
// subgraph only actually loops (via RescheduleLoopBlock) if at least one
// vote was cast since the loop's last iteration began — a loop with no
// operator requesting continuation reaches its fixpoint and stops.
func (ctx *Context) AllowAnotherIteration(loop LoopId) {
	ctx.sched.loops.Get(loop).pendingContinue = true
}

// RescheduleLoopBlock is called by a loop's driver subgraph (conventionally
// at the end of its own run) to continue the loop: if any operator voted
// via AllowAnotherIteration since the last iteration, the loop's nonce is
// bumped (resetting LifespanLoop state tied to loop) and the current
// subgraph is rescheduled within the same stratum and tick. If nothing
// voted, the loop has reached a fixpoint and this is a no-op, letting the
// stratum finish draining.
func (ctx *Context) RescheduleLoopBlock(loop LoopId) {
	ls := ctx.sched.loops.Get(loop)
	if !ls.pendingContinue {
		return
	}
	ls.pendingContinue = false
	ls.nonce++
	ctx.sched.scheduleInStratum(ctx.CurrentSubgraph(), ctx.sched.currentStratum)
}
