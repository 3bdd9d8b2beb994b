package ops

import "github.com/dfir-go/dfir/scheduled"

// Difference is AntiJoin specialized to an un-keyed element type: it emits
// every pos item never seen on neg, deduplicated against its own emitted
// set. There is no dedicated upstream source file for this operator — it
// is derived the same way dfir_lang derives difference from anti_join.rs,
// treating the element itself as both key and value.
func Difference[T comparable](
	b *scheduled.Builder,
	stratum int,
	posPersistence, negPersistence scheduled.Lifespan,
	pos scheduled.RecvPort[T],
	neg scheduled.RecvPort[T],
) scheduled.RecvPort[T] {
	scheduled.RejectMutableLifespan(posPersistence)
	scheduled.RejectMutableLifespan(negPersistence)

	negSet := scheduled.AddState(b, map[T]struct{}{})
	scheduled.SetStateLifespanHook(b, negSet, negPersistence, func(m *map[T]struct{}) { *m = map[T]struct{}{} })

	posSeen := scheduled.AddState(b, map[T]struct{}{})
	scheduled.SetStateLifespanHook(b, posSeen, posPersistence, func(m *map[T]struct{}) { *m = map[T]struct{}{} })

	out, outRecv := scheduled.AddHandoff[T](b)
	isStatic := posPersistence == scheduled.LifespanStatic || negPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		ns := scheduled.StateMut(ctx, negSet)
		for _, v := range neg.TakeAll() {
			(*ns)[v] = struct{}{}
		}

		seen := scheduled.StateMut(ctx, posSeen)
		for _, v := range pos.TakeAll() {
			if _, negated := (*ns)[v]; negated {
				continue
			}
			if _, dup := (*seen)[v]; dup {
				continue
			}
			(*seen)[v] = struct{}{}
			out.Send(v)
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

// DifferenceMultiset is Difference without positive-side deduplication,
// preserving multiplicity the same way AntiJoinMultiset preserves it:
// every duplicate pos item is retained and independently emitted once
// confirmed never-negated, with the same is_first_run_this_tick-driven
// full-rebuild-vs-suffix-only split.
//
// posPersistence governs the confirmed-output register, not just the
// within-tick pending buffer: with LifespanTick a run emits only the items
// it just confirmed, and the register (like the buffer) is thrown away at
// tick end. With LifespanStatic the register accumulates every confirmed
// item's count across ticks and the full multiset replays on the first
// run of every later tick, the same way FoldKeyed/ReduceKeyed replay their
// static table — so a later tick's output is the new confirmations plus
// everything ever confirmed before, not just what changed this tick.
func DifferenceMultiset[T comparable](
	b *scheduled.Builder,
	stratum int,
	posPersistence, negPersistence scheduled.Lifespan,
	pos scheduled.RecvPort[T],
	neg scheduled.RecvPort[T],
) scheduled.RecvPort[T] {
	scheduled.RejectMutableLifespan(posPersistence)
	scheduled.RejectMutableLifespan(negPersistence)

	negSet := scheduled.AddState(b, map[T]struct{}{})
	scheduled.SetStateLifespanHook(b, negSet, negPersistence, func(m *map[T]struct{}) { *m = map[T]struct{}{} })

	posPending := scheduled.AddState(b, map[T]int{})
	scheduled.SetStateLifespanHook(b, posPending, scheduled.LifespanTick, func(m *map[T]int) { *m = map[T]int{} })

	emitted := scheduled.AddState(b, map[T]int{})
	scheduled.SetStateLifespanHook(b, emitted, posPersistence, func(m *map[T]int) { *m = map[T]int{} })

	out, outRecv := scheduled.AddHandoff[T](b)
	posIsStatic := posPersistence == scheduled.LifespanStatic
	isStatic := posIsStatic || negPersistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		ns := scheduled.StateMut(ctx, negSet)
		for _, v := range neg.TakeAll() {
			(*ns)[v] = struct{}{}
		}

		pp := scheduled.StateMut(ctx, posPending)
		em := scheduled.StateMut(ctx, emitted)

		if ctx.IsFirstRunThisTick() {
			for _, v := range pos.TakeAll() {
				(*pp)[v]++
			}
			for v, count := range *pp {
				if _, negated := (*ns)[v]; !negated {
					(*em)[v] += count
					delete(*pp, v)
					if !posIsStatic {
						for i := 0; i < count; i++ {
							out.Send(v)
						}
					}
				}
			}
			if posIsStatic {
				for v, count := range *em {
					for i := 0; i < count; i++ {
						out.Send(v)
					}
				}
			}
			if isStatic {
				ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
			}
			return
		}

		for _, v := range pos.TakeAll() {
			if _, negated := (*ns)[v]; negated {
				(*pp)[v]++
			} else {
				(*em)[v]++
				out.Send(v)
			}
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
