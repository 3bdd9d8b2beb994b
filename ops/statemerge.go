package ops

import "github.com/dfir-go/dfir/scheduled"

// StateMerge folds a stream of T into a single accumulator of type S via
// merge, exposing both the accumulator's StateHandle (for other
// subgraphs to read with scheduled.StateRef) and an optional pass-through
// output port that re-emits every input item unchanged after merging it
// in, so a StateMerge stage can sit inline in a larger pipeline without
// forcing callers to fork the input stream themselves.
//
// merge is expected to be commutative, associative and idempotent — a
// join on whatever lattice S represents (set union, max, grow-only
// counter) — so that arrival order and duplicate delivery never change
// the accumulated result. This mirrors a merge-into-state operator
// dfir_lang/src/graph/ops/state_by.rs implements: spec.md lists lattice
// merges as a representative state-cell payload but (per its stated
// non-goals around the front-end/IR) never pins down the operator that
// performs one, so its persistence-argument surface (tick/loop/static)
// is adopted unchanged here.
func StateMerge[T any, S any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	init func() S,
	merge func(acc *S, item T),
	in scheduled.RecvPort[T],
) (scheduled.StateHandle[S], scheduled.RecvPort[T]) {
	scheduled.RejectMutableLifespan(persistence)

	acc := scheduled.AddState(b, init())
	scheduled.SetStateLifespanHook(b, acc, persistence, func(s *S) { *s = init() })

	out, outRecv := scheduled.AddHandoff[T](b)
	isStatic := persistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		items := in.TakeAll()
		if len(items) == 0 {
			return
		}
		a := scheduled.StateMut(ctx, acc)
		for _, item := range items {
			merge(a, item)
			out.Send(item)
		}

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return acc, outRecv
}

// StateMergeLoop associates a StateMerge accumulator with a loop context so
// its LifespanLoop resets track the loop's nonce instead of tick/static
// boundaries, for accumulators meant to converge once per loop iteration
// (e.g. a fixpoint computation's running frontier).
func StateMergeLoop[T any, S any](
	b *scheduled.Builder,
	stratum int,
	loop scheduled.LoopId,
	init func() S,
	merge func(acc *S, item T),
	in scheduled.RecvPort[T],
) (scheduled.StateHandle[S], scheduled.RecvPort[T]) {
	acc := scheduled.AddState(b, init())
	scheduled.SetStateLifespanHook(b, acc, scheduled.LifespanLoop, func(s *S) { *s = init() })
	scheduled.SetStateLoopID(b, acc, loop)

	out, outRecv := scheduled.AddHandoff[T](b)

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		items := in.TakeAll()
		if len(items) == 0 {
			return
		}
		a := scheduled.StateMut(ctx, acc)
		for _, item := range items {
			merge(a, item)
			out.Send(item)
		}
	})
	b.SetSubgraphLoop(sg, loop)
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return acc, outRecv
}
