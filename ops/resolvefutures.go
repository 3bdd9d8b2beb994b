package ops

import "github.com/dfir-go/dfir/scheduled"

// resolveFutures is the shared core of ResolveFuturesUnordered and
// ResolveFuturesOrdered. It holds every not-yet-resolved future in a
// static-lifespan cell (futures outlive the tick they arrived in — they
// resolve on their own schedule, not the scheduler's), spawns one
// goroutine per newly arrived future that blocks on its Done() channel and
// wakes this subgraph through the scheduler's waker, and on every run
// drains whichever of its pending futures are ready.
//
// Grounded on dfir_lang/src/graph/ops/resolve_futures.rs: push new futures
// into the container, poll-ready all of them, emit resolved values, and
// rely on a waker (rather than a polling loop) to get rescheduled once a
// future the previous run couldn't resolve yet becomes ready.
func resolveFutures[T any](b *scheduled.Builder, stratum int, ordered bool, in scheduled.RecvPort[Future[T]]) scheduled.RecvPort[T] {
	pending := scheduled.AddState(b, []Future[T]{})
	scheduled.SetStateLifespanHook(b, pending, scheduled.LifespanStatic, func(p *[]Future[T]) { *p = nil })

	out, outRecv := scheduled.AddHandoff[T](b)

	sg := b.AddSubgraph(stratum, func(ctx *scheduled.Context) {
		p := scheduled.StateMut(ctx, pending)

		newFutures := in.TakeAll()
		if len(newFutures) > 0 {
			waker := ctx.NewWaker()
			*p = append(*p, newFutures...)
			for _, f := range newFutures {
				go func(f Future[T]) {
					<-f.Done()
					waker.Wake()
				}(f)
			}
		}

		if ordered {
			for len(*p) > 0 {
				v, ok := (*p)[0].TryRecv()
				if !ok {
					break
				}
				out.Send(v)
				*p = (*p)[1:]
			}
			return
		}

		remaining := (*p)[:0]
		for _, f := range *p {
			if v, ok := f.TryRecv(); ok {
				out.Send(v)
			} else {
				remaining = append(remaining, f)
			}
		}
		*p = remaining
	})
	scheduled.AddEdge(b, in, sg)
	scheduled.AddSender(b, out, sg)

	return outRecv
}

// ResolveFuturesUnordered emits each future's value as soon as it
// resolves, regardless of arrival order.
func ResolveFuturesUnordered[T any](b *scheduled.Builder, stratum int, in scheduled.RecvPort[Future[T]]) scheduled.RecvPort[T] {
	return resolveFutures(b, stratum, false, in)
}

// ResolveFuturesOrdered emits resolved values in the order their futures
// arrived: a later future resolving before an earlier one still waits
// behind it.
func ResolveFuturesOrdered[T any](b *scheduled.Builder, stratum int, in scheduled.RecvPort[Future[T]]) scheduled.RecvPort[T] {
	return resolveFutures(b, stratum, true, in)
}
