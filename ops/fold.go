package ops

import "github.com/dfir-go/dfir/scheduled"

// Fold accumulates every item of in into a single value of type A using
// init to produce the starting accumulator and combine to fold each item
// in. The accumulator is emitted once per run that sees at least one new
// item. Grounded on dfir_lang/src/graph/ops/fold.rs: a single state cell
// holds the accumulator; LifespanTick re-invokes init at tick end (so the
// next tick starts fresh), LifespanStatic keeps accumulating for the
// scheduler's whole lifetime.
func Fold[I any, A any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	init func() A,
	combine func(acc A, item I) A,
	in scheduled.RecvPort[I],
) scheduled.RecvPort[A] {
	scheduled.RejectMutableLifespan(persistence)

	acc := scheduled.AddState(b, init())
	scheduled.SetStateLifespanHook(b, acc, persistence, func(a *A) { *a = init() })

	out, outRecv := scheduled.AddHandoff[A](b)

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		items := in.TakeAll()
		if len(items) == 0 {
			return
		}
		a := scheduled.StateMut(ctx, acc)
		for _, item := range items {
			*a = combine(*a, item)
		}
		out.Send(*a)
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

// FoldSingleton is Fold used as a referenceable singleton: it has no
// downstream output port, only the accumulator's StateHandle for other
// subgraphs (added via AddEdge to this same subgraph, or read through the
// handle directly) to read with StateRef once this subgraph has run.
// Grounded on fold.rs's no-downstream-port mode.
func FoldSingleton[I any, A any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	init func() A,
	combine func(acc A, item I) A,
	in scheduled.RecvPort[I],
) (scheduled.StateHandle[A], scheduled.SubgraphId) {
	scheduled.RejectMutableLifespan(persistence)

	acc := scheduled.AddState(b, init())
	scheduled.SetStateLifespanHook(b, acc, persistence, func(a *A) { *a = init() })

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		items := in.TakeAll()
		if len(items) == 0 {
			return
		}
		a := scheduled.StateMut(ctx, acc)
		for _, item := range items {
			*a = combine(*a, item)
		}
	})
	scheduled.AddEdge(b, in, sg)

	return acc, sg
}
