package ops

import (
	"testing"

	"github.com/dfir-go/dfir/scheduled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoin_TickPersistenceForgetsAcrossTicks(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[Pair[string, string]](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[Pair[string, string]](b)

	out := Join[string, string, string](b, 0, scheduled.LifespanTick, scheduled.LifespanTick, lhsRecv, rhsRecv)

	var results []Pair[string, Pair[string, string]]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send(NewPair("hello", "world"))
	rhsSend.Send(NewPair("hello", "cleveland"))
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Equal(t, []Pair[string, Pair[string, string]]{NewPair("hello", NewPair("world", "cleveland"))}, results)

	results = nil
	lhsSend.Send(NewPair("hello", "world"))
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	// rhs's tick-scoped row from the previous tick is gone.
	assert.Empty(t, results)
}

func TestJoin_StaticPersistenceRemembersAcrossTicks(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[Pair[string, string]](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[Pair[string, string]](b)

	out := Join[string, string, string](b, 0, scheduled.LifespanStatic, scheduled.LifespanStatic, lhsRecv, rhsRecv)

	var results []Pair[string, Pair[string, string]]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send(NewPair("hello", "world"))
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Empty(t, results)

	rhsSend.Send(NewPair("hello", "oakland"))
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Equal(t, []Pair[string, Pair[string, string]]{NewPair("hello", NewPair("world", "oakland"))}, results)
}

func TestJoinMultiset_KeepsDuplicates(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[Pair[int, string]](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[Pair[int, string]](b)

	out := JoinMultiset[int, string, string](b, 0, scheduled.LifespanTick, scheduled.LifespanTick, lhsRecv, rhsRecv)

	var results []Pair[int, Pair[string, string]]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send(NewPair(1, "a"))
	lhsSend.Send(NewPair(1, "a"))
	rhsSend.Send(NewPair(1, "x"))
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())

	assert.Len(t, results, 2)
}
