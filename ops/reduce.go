package ops

import "github.com/dfir-go/dfir/scheduled"

// Reduce is Fold without an initializer: the first item after the
// accumulator is created or reset seeds it directly, every later item
// folds into it via combine.
// Grounded on dfir_lang/src/graph/ops/reduce.rs.
func Reduce[T any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	combine func(acc T, item T) T,
	in scheduled.RecvPort[T],
) scheduled.RecvPort[T] {
	scheduled.RejectMutableLifespan(persistence)

	type box struct {
		v   T
		has bool
	}
	acc := scheduled.AddState(b, box{})
	scheduled.SetStateLifespanHook(b, acc, persistence, func(bx *box) { *bx = box{} })

	out, outRecv := scheduled.AddHandoff[T](b)
	isStatic := persistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		items := in.TakeAll()
		if len(items) == 0 {
			return
		}
		a := scheduled.StateMut(ctx, acc)
		for _, item := range items {
			if !a.has {
				a.v, a.has = item, true
			} else {
				a.v = combine(a.v, item)
			}
		}
		out.Send(a.v)

		if isStatic {
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
		}
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

// FoldKeyed maintains a per-key accumulator table, initialized with init
// for a key's first arrival and folded with combine thereafter. Output
// shape differs by persistence: LifespanTick drains only the keys touched
// in this run (the table is thrown away at tick end regardless); with
// LifespanStatic the full table replays on the first invocation of every
// tick, since the accumulated state is meant to be visible downstream on
// every tick it survives into. Grounded on dfir_lang/src/graph/ops/fold.rs
// (the keyed variant shares its rs source file with unkeyed fold upstream).
func FoldKeyed[K comparable, I any, A any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	init func() A,
	combine func(acc A, item I) A,
	in scheduled.RecvPort[Pair[K, I]],
) scheduled.RecvPort[Pair[K, A]] {
	scheduled.RejectMutableLifespan(persistence)

	table := scheduled.AddState(b, map[K]A{})
	scheduled.SetStateLifespanHook(b, table, persistence, func(m *map[K]A) { *m = map[K]A{} })

	out, outRecv := scheduled.AddHandoff[Pair[K, A]](b)
	isStatic := persistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		t := scheduled.StateMut(ctx, table)
		touched := map[K]struct{}{}
		for _, p := range in.TakeAll() {
			cur, ok := (*t)[p.First]
			if !ok {
				cur = init()
			}
			(*t)[p.First] = combine(cur, p.Second)
			touched[p.First] = struct{}{}
		}

		if isStatic {
			if ctx.IsFirstRunThisTick() {
				for k, v := range *t {
					out.Send(NewPair(k, v))
				}
			}
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
			return
		}
		for k := range touched {
			out.Send(NewPair(k, (*t)[k]))
		}
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

// ReduceKeyed is FoldKeyed without an initializer: a key's first arrival
// seeds its table entry directly.
func ReduceKeyed[K comparable, V any](
	b *scheduled.Builder,
	stratum int,
	persistence scheduled.Lifespan,
	combine func(acc V, item V) V,
	in scheduled.RecvPort[Pair[K, V]],
) scheduled.RecvPort[Pair[K, V]] {
	scheduled.RejectMutableLifespan(persistence)

	table := scheduled.AddState(b, map[K]V{})
	scheduled.SetStateLifespanHook(b, table, persistence, func(m *map[K]V) { *m = map[K]V{} })

	out, outRecv := scheduled.AddHandoff[Pair[K, V]](b)
	isStatic := persistence == scheduled.LifespanStatic

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		t := scheduled.StateMut(ctx, table)
		touched := map[K]struct{}{}
		for _, p := range in.TakeAll() {
			cur, ok := (*t)[p.First]
			if !ok {
				cur = p.Second
			} else {
				cur = combine(cur, p.Second)
			}
			(*t)[p.First] = cur
			touched[p.First] = struct{}{}
		}

		if isStatic {
			if ctx.IsFirstRunThisTick() {
				for k, v := range *t {
					out.Send(NewPair(k, v))
				}
			}
			ctx.ScheduleSubgraph(ctx.CurrentSubgraph(), false)
			return
		}
		for k := range touched {
			out.Send(NewPair(k, (*t)[k]))
		}
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}
