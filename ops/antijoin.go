package ops

import "github.com/dfir-go/dfir/scheduled"

// AntiJoin emits every (k, v) from pos whose key k has never appeared in
// neg, deduplicated: an equal (k, v) pair that was already emitted once is
// never emitted again, no matter how many times it arrives. posPersistence
// and negPersistence independently control how long each side's
// accumulated set survives a lifespan boundary.
//
// Grounded on dfir_lang/src/graph/ops/anti_join.rs: neg arrivals are folded
// into neg_state before pos is checked, so a positive item arriving in the
// SAME run as a matching negative key is still suppressed; pos_state then
// dedupes the positive stream independently of neg.
func AntiJoin[K comparable, V comparable](
	b *scheduled.Builder,
	stratum int,
	posPersistence, negPersistence scheduled.Lifespan,
	pos scheduled.RecvPort[Pair[K, V]],
	neg scheduled.RecvPort[K],
) scheduled.RecvPort[Pair[K, V]] {
	scheduled.RejectMutableLifespan(posPersistence)
	scheduled.RejectMutableLifespan(negPersistence)

	negKeys := scheduled.AddState(b, map[K]struct{}{})
	scheduled.SetStateLifespanHook(b, negKeys, negPersistence, func(m *map[K]struct{}) { *m = map[K]struct{}{} })

	posSeen := scheduled.AddState(b, map[Pair[K, V]]struct{}{})
	scheduled.SetStateLifespanHook(b, posSeen, posPersistence, func(m *map[Pair[K, V]]struct{}) { *m = map[Pair[K, V]]struct{}{} })

	out, outRecv := scheduled.AddHandoff[Pair[K, V]](b)
	isStatic := posPersistence == scheduled.LifespanStatic || negPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		negSet := scheduled.StateMut(ctx, negKeys)
		for _, k := range neg.TakeAll() {
			(*negSet)[k] = struct{}{}
		}

		seen := scheduled.StateMut(ctx, posSeen)
		for _, p := range pos.TakeAll() {
			if _, negated := (*negSet)[p.First]; negated {
				continue
			}
			if _, dup := (*seen)[p]; dup {
				continue
			}
			(*seen)[p] = struct{}{}
			out.Send(p)
		}

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, pos, sg)
	scheduled.AddEdge(b, neg, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}
