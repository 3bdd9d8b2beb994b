package ops

import "github.com/dfir-go/dfir/scheduled"

// AntiJoinMultiset is AntiJoin without positive-side deduplication:
// duplicate (k, v) positive arrivals are each retained and each emitted
// independently once key k is confirmed never-negated.
//
// Grounded on dfir_lang/src/graph/ops/anti_join_multiset.rs, including its
// is_first_run_this_tick branch: the first time this subgraph runs in a
// given tick it does a full pass — draining every buffered positive item
// (from this and any still-unresolved earlier run this tick) and
// re-checking all of them against the current negative-key set, since a
// late-arriving negative earlier in the same tick can still retroactively
// suppress an item buffered from a previous run. Subsequent runs within
// the same tick only need to check the newly arrived suffix of positive
// items against the (already up to date) negative set, which is cheaper
// and sufficient because nothing emitted by an earlier run this tick can
// become invalid after the fact — the scheduler doesn't retract emitted
// output, it only withholds what it hasn't emitted yet.
func AntiJoinMultiset[K comparable, V any](
	b *scheduled.Builder,
	stratum int,
	negPersistence scheduled.Lifespan,
	pos scheduled.RecvPort[Pair[K, V]],
	neg scheduled.RecvPort[K],
) scheduled.RecvPort[Pair[K, V]] {
	scheduled.RejectMutableLifespan(negPersistence)

	negKeys := scheduled.AddState(b, map[K]struct{}{})
	scheduled.SetStateLifespanHook(b, negKeys, negPersistence, func(m *map[K]struct{}) { *m = map[K]struct{}{} })

	posPending := scheduled.AddState(b, map[K][]V{})
	scheduled.SetStateLifespanHook(b, posPending, scheduled.LifespanTick, func(m *map[K][]V) { *m = map[K][]V{} })

	out, outRecv := scheduled.AddHandoff[Pair[K, V]](b)

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		negSet := scheduled.StateMut(ctx, negKeys)
		for _, k := range neg.TakeAll() {
			(*negSet)[k] = struct{}{}
		}

		pp := scheduled.StateMut(ctx, posPending)

		if ctx.IsFirstRunThisTick() {
			for _, p := range pos.TakeAll() {
				(*pp)[p.First] = append((*pp)[p.First], p.Second)
			}
			for k, vs := range *pp {
				if _, negated := (*negSet)[k]; !negated {
					for _, v := range vs {
						out.Send(NewPair(k, v))
					}
					delete(*pp, k)
				}
			}
			return
		}

		for _, p := range pos.TakeAll() {
			if _, negated := (*negSet)[p.First]; negated {
				(*pp)[p.First] = append((*pp)[p.First], p.Second)
			} else {
				out.Send(p)
			}
		}
	})
	scheduled.AddEdge(b, pos, sg)
	scheduled.AddEdge(b, neg, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}
