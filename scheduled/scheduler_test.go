package scheduled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPipeline wires: source (stratum 0) --handoff--> sink (stratum 1),
// where source sends the next int of feed each time it runs (nothing once
// feed is used up), and sink appends whatever it receives to *out.
func buildPipeline(t *testing.T, feed []int, out *[]int) (*Builder, SubgraphId, SubgraphId) {
	t.Helper()
	b := NewBuilder(nil)

	send, recv := AddHandoff[int](b)

	srcIdx := 0
	src := b.AddSubgraph(0, func(ctx *Context) {
		if srcIdx < len(feed) {
			send.Send(feed[srcIdx])
			srcIdx++
		}
	})
	AddSender(b, send, src)

	sink := b.AddSubgraph(1, func(ctx *Context) {
		*out = append(*out, recv.TakeAll()...)
	})
	AddEdge(b, recv, sink)

	return b, src, sink
}

func TestScheduler_StrataDrainInOrder(t *testing.T) {
	var out []int
	b, src, _ := buildPipeline(t, []int{1, 2, 3}, &out)
	sched := b.Build()

	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunTick())
	assert.Equal(t, []int{1}, out)

	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunTick())
	assert.Equal(t, []int{1, 2}, out)
}

func TestScheduler_HandoffWakesDownstreamAutomatically(t *testing.T) {
	var out []int
	b := NewBuilder(nil)
	send, recv := AddHandoff[string](b)

	src := b.AddSubgraph(0, func(ctx *Context) {
		send.Send("hello")
	})
	AddSender(b, send, src)

	sink := b.AddSubgraph(2, func(ctx *Context) {
		for range recv.TakeAll() {
			out = append(out, 1)
		}
	})
	AddEdge(b, recv, sink)

	sched := b.Build()
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunTick())
	assert.Equal(t, []int{1}, out)
}

func TestScheduler_TeeHandoffBroadcastsToAllPeers(t *testing.T) {
	b := NewBuilder(nil)
	send, newRecv := AddTeeHandoff[int](b)
	recvA := newRecv()
	recvB := newRecv()

	var gotA, gotB []int

	src := b.AddSubgraph(0, func(ctx *Context) {
		send.Send(42)
	})
	AddSender(b, send, src)

	sinkA := b.AddSubgraph(1, func(ctx *Context) { gotA = append(gotA, recvA.TakeAll()...) })
	sinkB := b.AddSubgraph(1, func(ctx *Context) { gotB = append(gotB, recvB.TakeAll()...) })
	AddEdge(b, recvA, sinkA)
	AddEdge(b, recvB, sinkB)

	sched := b.Build()
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, []int{42}, gotA)
	assert.Equal(t, []int{42}, gotB)
}

func TestScheduler_SubgraphPanicIsRecovered(t *testing.T) {
	b := NewBuilder(nil)
	sg := b.AddSubgraph(0, func(ctx *Context) {
		panic("boom")
	})
	sched := b.Build()
	sched.ScheduleSubgraph(sg, false)

	err := sched.RunTick()
	require.Error(t, err)
	var panicErr *SubgraphPanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, sg.Index(), panicErr.SubgraphID)
	assert.Equal(t, "boom", panicErr.Recovered)
}

func TestScheduler_TickLifespanStateResetsBetweenTicks(t *testing.T) {
	b := NewBuilder(nil)
	h := AddState(b, 0)
	SetStateLifespanHook(b, h, LifespanTick, func(v *int) { *v = 0 })

	var seen []int
	sg := b.AddSubgraph(0, func(ctx *Context) {
		p := StateMut(ctx, h)
		*p++
		seen = append(seen, *p)
	})
	sched := b.Build()

	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())
	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, []int{1, 1}, seen)
}

func TestScheduler_StaticLifespanStatePersistsAcrossTicks(t *testing.T) {
	b := NewBuilder(nil)
	h := AddState(b, 0)
	SetStateLifespanHook(b, h, LifespanStatic, func(v *int) { *v = 0 })

	var seen []int
	sg := b.AddSubgraph(0, func(ctx *Context) {
		p := StateMut(ctx, h)
		*p++
		seen = append(seen, *p)
	})
	sched := b.Build()

	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())
	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, []int{1, 2}, seen)
}

func TestScheduler_TickResetHookFiresRegardlessOfLifespan(t *testing.T) {
	b := NewBuilder(nil)
	h := AddState(b, 0)
	SetStateLifespanHook(b, h, LifespanStatic, func(v *int) { *v = -1 })

	var tickResetCalls int
	SetStateTickResetHook(b, h, func(v *int) { tickResetCalls++ })

	sg := b.AddSubgraph(0, func(ctx *Context) {
		p := StateMut(ctx, h)
		*p++
	})
	sched := b.Build()

	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())
	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, 2, tickResetCalls)
}

func TestScheduler_IsFirstRunThisTick(t *testing.T) {
	b := NewBuilder(nil)
	var firstRuns []bool

	var self SubgraphId
	runs := 0
	self = b.AddSubgraph(0, func(ctx *Context) {
		firstRuns = append(firstRuns, ctx.IsFirstRunThisTick())
		runs++
		if runs < 3 {
			ctx.ScheduleSubgraph(self, false)
		}
	})
	sched := b.Build()
	sched.ScheduleSubgraph(self, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, []bool{true, false, false}, firstRuns)
}

func TestScheduler_LoopRerunsUntilNoVote(t *testing.T) {
	b := NewBuilder(nil)
	loop := b.AddLoop(LoopId{}, false)

	iterations := 0
	var driver SubgraphId
	driver = b.AddSubgraph(0, func(ctx *Context) {
		iterations++
		if iterations < 3 {
			ctx.AllowAnotherIteration(loop)
		}
		ctx.RescheduleLoopBlock(loop)
	})
	b.SetSubgraphLoop(driver, loop)

	sched := b.Build()
	sched.ScheduleSubgraph(driver, false)
	require.NoError(t, sched.RunTick())

	assert.Equal(t, 3, iterations)
}

func TestScheduler_WakerSchedulesAcrossTicks(t *testing.T) {
	b := NewBuilder(nil)
	var w Waker
	ran := 0
	sg := b.AddSubgraph(0, func(ctx *Context) {
		ran++
		w = ctx.NewWaker()
	})
	sched := b.Build()

	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())
	assert.Equal(t, 1, ran)

	w.Wake()
	require.NoError(t, sched.RunAvailable())
	assert.Equal(t, 2, ran)
}
