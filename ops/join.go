package ops

import (
	"github.com/dfir-go/dfir/scheduled"
)

// Join computes the equijoin of two keyed input streams as sets: a (k, v1)
// pair from lhs and a (k, v2) pair from rhs produce exactly one
// Pair[K, Pair[V1, V2]] output no matter how many times an equal (k, v1)
// or (k, v2) pair arrives. lhsPersistence/rhsPersistence control how long
// each side's accumulated table survives: scheduled.LifespanTick forgets
// a side's rows at the end of every tick (matching join's upstream
// default), scheduled.LifespanStatic remembers them for the Scheduler's
// whole lifetime so later ticks' arrivals on the other side can still
// match against them.
//
// Grounded on dfir_lang/src/graph/ops/join.rs (symmetric_hash_join): a new
// batch from one side is matched against the OTHER side's table before
// being folded into its own table, and the other side's new batch is
// matched against the (now updated) first table — this ordering is what
// guarantees a same-tick lhs/rhs pair is emitted exactly once rather than
// zero or two times.
func Join[K comparable, V1 comparable, V2 comparable](
	b *scheduled.Builder,
	stratum int,
	lhsPersistence, rhsPersistence scheduled.Lifespan,
	lhs scheduled.RecvPort[Pair[K, V1]],
	rhs scheduled.RecvPort[Pair[K, V2]],
) scheduled.RecvPort[Pair[K, Pair[V1, V2]]] {
	scheduled.RejectMutableLifespan(lhsPersistence)
	scheduled.RejectMutableLifespan(rhsPersistence)

	lhsTable := scheduled.AddState(b, map[K]map[V1]struct{}{})
	rhsTable := scheduled.AddState(b, map[K]map[V2]struct{}{})
	scheduled.SetStateLifespanHook(b, lhsTable, lhsPersistence, clearMapOfSets[K, V1])
	scheduled.SetStateLifespanHook(b, rhsTable, rhsPersistence, clearMapOfSets[K, V2])

	out, outRecv := scheduled.AddHandoff[Pair[K, Pair[V1, V2]]](b)

	isStatic := lhsPersistence == scheduled.LifespanStatic || rhsPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		lt := scheduled.StateMut(ctx, lhsTable)
		rt := scheduled.StateMut(ctx, rhsTable)

		for _, p := range lhs.TakeAll() {
			if _, dup := (*lt)[p.First][p.Second]; dup {
				continue
			}
			if set, ok := (*rt)[p.First]; ok {
				for v2 := range set {
					out.Send(NewPair(p.First, NewPair(p.Second, v2)))
				}
			}
			insertIntoMapOfSets(lt, p.First, p.Second)
		}
		for _, p := range rhs.TakeAll() {
			if _, dup := (*rt)[p.First][p.Second]; dup {
				continue
			}
			if set, ok := (*lt)[p.First]; ok {
				for v1 := range set {
					out.Send(NewPair(p.First, NewPair(v1, p.Second)))
				}
			}
			insertIntoMapOfSets(rt, p.First, p.Second)
		}

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, lhs, sg)
	scheduled.AddEdge(b, rhs, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

// JoinMultiset is Join without the set-deduplication: every (k, v1)/(k, v2)
// arrival is matched and recorded independently, so a duplicate row
// produces duplicate output pairs. Unlike Join, element types need not be
// comparable.
func JoinMultiset[K comparable, V1 any, V2 any](
	b *scheduled.Builder,
	stratum int,
	lhsPersistence, rhsPersistence scheduled.Lifespan,
	lhs scheduled.RecvPort[Pair[K, V1]],
	rhs scheduled.RecvPort[Pair[K, V2]],
) scheduled.RecvPort[Pair[K, Pair[V1, V2]]] {
	scheduled.RejectMutableLifespan(lhsPersistence)
	scheduled.RejectMutableLifespan(rhsPersistence)

	lhsTable := scheduled.AddState(b, map[K][]V1{})
	rhsTable := scheduled.AddState(b, map[K][]V2{})
	scheduled.SetStateLifespanHook(b, lhsTable, lhsPersistence, clearMapOfSlices[K, V1])
	scheduled.SetStateLifespanHook(b, rhsTable, rhsPersistence, clearMapOfSlices[K, V2])

	out, outRecv := scheduled.AddHandoff[Pair[K, Pair[V1, V2]]](b)
	isStatic := lhsPersistence == scheduled.LifespanStatic || rhsPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		lt := scheduled.StateMut(ctx, lhsTable)
		rt := scheduled.StateMut(ctx, rhsTable)

		for _, p := range lhs.TakeAll() {
			for _, v2 := range (*rt)[p.First] {
				out.Send(NewPair(p.First, NewPair(p.Second, v2)))
			}
			(*lt)[p.First] = append((*lt)[p.First], p.Second)
		}
		for _, p := range rhs.TakeAll() {
			for _, v1 := range (*lt)[p.First] {
				out.Send(NewPair(p.First, NewPair(v1, p.Second)))
			}
			(*rt)[p.First] = append((*rt)[p.First], p.Second)
		}

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, lhs, sg)
	scheduled.AddEdge(b, rhs, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

func insertIntoMapOfSets[K comparable, V comparable](m *map[K]map[V]struct{}, k K, v V) {
	set, ok := (*m)[k]
	if !ok {
		set = map[V]struct{}{}
		(*m)[k] = set
	}
	set[v] = struct{}{}
}

func clearMapOfSets[K comparable, V comparable](m *map[K]map[V]struct{}) {
	*m = map[K]map[V]struct{}{}
}

func clearMapOfSlices[K comparable, V any](m *map[K][]V) {
	*m = map[K][]V{}
}
