package ops

import "github.com/dfir-go/dfir/scheduled"

// Zip pairs lhs and rhs items by arrival index: the first lhs item pairs
// with the first rhs item, the second with the second, and so on.
// Unmatched leftovers on the faster side are buffered in a per-side cell.
// lhsPersistence/rhsPersistence independently control whether that
// leftover buffer survives a lifespan boundary: LifespanTick drops
// unpaired items at tick end, LifespanStatic lets them accumulate
// indefinitely across ticks when one side consistently outpaces the
// other. Grounded on dfir_lang/src/graph/ops/zip.rs.
func Zip[A any, B any](
	b *scheduled.Builder,
	stratum int,
	lhsPersistence, rhsPersistence scheduled.Lifespan,
	lhs scheduled.RecvPort[A],
	rhs scheduled.RecvPort[B],
) scheduled.RecvPort[Pair[A, B]] {
	scheduled.RejectMutableLifespan(lhsPersistence)
	scheduled.RejectMutableLifespan(rhsPersistence)

	lhsBuf := scheduled.AddState(b, []A{})
	rhsBuf := scheduled.AddState(b, []B{})
	scheduled.SetStateLifespanHook(b, lhsBuf, lhsPersistence, func(s *[]A) { *s = nil })
	scheduled.SetStateLifespanHook(b, rhsBuf, rhsPersistence, func(s *[]B) { *s = nil })

	out, outRecv := scheduled.AddHandoff[Pair[A, B]](b)
	isStatic := lhsPersistence == scheduled.LifespanStatic || rhsPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		lb := scheduled.StateMut(ctx, lhsBuf)
		rb := scheduled.StateMut(ctx, rhsBuf)

		*lb = append(*lb, lhs.TakeAll()...)
		*rb = append(*rb, rhs.TakeAll()...)

		n := len(*lb)
		if len(*rb) < n {
			n = len(*rb)
		}
		for i := 0; i < n; i++ {
			out.Send(NewPair((*lb)[i], (*rb)[i]))
		}
		*lb = (*lb)[n:]
		*rb = (*rb)[n:]

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, lhs, sg)
	scheduled.AddEdge(b, rhs, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}
