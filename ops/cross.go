package ops

import "github.com/dfir-go/dfir/scheduled"

// CrossSingleton pairs every item of stream with a cached "singleton"
// value: the first item received on singleton in a tick seeds a cell, and every
// subsequent stream item (including ones that arrive before the singleton
// has shown up at all) is paired with whatever is cached. If singleton
// never produces a value, stream items that arrived first are held and
// never emitted.
//
// Grounded on dfir_lang/src/graph/ops/cross_singleton.rs, which hardcodes
// the singleton side to tick lifespan; this port preserves that: the
// cached singleton value is forgotten at the end of every tick, the same
// way the upstream operator's internal state does.
func CrossSingleton[T any, S any](
	b *scheduled.Builder,
	stratum int,
	stream scheduled.RecvPort[T],
	singleton scheduled.RecvPort[S],
) scheduled.RecvPort[Pair[T, S]] {
	type box struct {
		v   S
		has bool
	}
	cached := scheduled.AddState(b, box{})
	scheduled.SetStateLifespanHook(b, cached, scheduled.LifespanTick, func(bx *box) { *bx = box{} })

	pending := scheduled.AddState(b, []T{})
	scheduled.SetStateLifespanHook(b, pending, scheduled.LifespanTick, func(p *[]T) { *p = nil })

	out, outRecv := scheduled.AddHandoff[Pair[T, S]](b)

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		c := scheduled.StateMut(ctx, cached)
		for _, s := range singleton.TakeAll() {
			if !c.has {
				c.v, c.has = s, true
			}
		}

		items := stream.TakeAll()
		if !c.has {
			p := scheduled.StateMut(ctx, pending)
			*p = append(*p, items...)
			return
		}

		p := scheduled.StateMut(ctx, pending)
		for _, v := range *p {
			out.Send(NewPair(v, c.v))
		}
		*p = nil
		for _, v := range items {
			out.Send(NewPair(v, c.v))
		}
	})
	scheduled.AddEdge(b, singleton, sg)
	scheduled.AddEdge(b, stream, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}
