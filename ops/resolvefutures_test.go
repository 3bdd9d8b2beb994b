package ops

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dfir-go/dfir/scheduled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFuturesUnordered_EmitsAlreadyResolvedImmediately(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	inSend, inRecv := scheduled.AddHandoff[Future[int]](b)

	out := ResolveFuturesUnordered[int](b, 0, inRecv)

	var results []int
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, inSend, src)

	sched := b.Build()

	f, resolve := NewChanFuture[int]()
	resolve(7)
	inSend.Send(f)
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())

	assert.Equal(t, []int{7}, results)
}

func TestResolveFuturesOrdered_WaitsForEarlierFutureBeforeLater(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	inSend, inRecv := scheduled.AddHandoff[Future[int]](b)

	out := ResolveFuturesOrdered[int](b, 0, inRecv)

	var results []int
	done := make(chan struct{})
	var closeOnce sync.Once
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
		if len(results) >= 2 {
			closeOnce.Do(func() { close(done) })
		}
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, inSend, src)

	sched := b.Build()

	first, resolveFirst := NewChanFuture[int]()
	second, resolveSecond := NewChanFuture[int]()
	resolveSecond(2)
	inSend.Send(first)
	inSend.Send(second)
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())

	assert.Empty(t, results, "second resolved but first hasn't — ordered output must wait")

	resolveFirst(1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sched.RunUntilAsync(ctx, done))

	assert.Equal(t, []int{1, 2}, results)
}
