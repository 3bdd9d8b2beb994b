package ops

import (
	"testing"

	"github.com/dfir-go/dfir/scheduled"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZip_PairsByIndex(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[string](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[int](b)

	out := Zip[string, int](b, 0, scheduled.LifespanTick, scheduled.LifespanTick, lhsRecv, rhsRecv)

	var results []Pair[string, int]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send("a")
	lhsSend.Send("b")
	rhsSend.Send(1)
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())

	assert.Equal(t, []Pair[string, int]{NewPair("a", 1)}, results)
}

func TestZip_DropsLeftoverAtTickEndWhenTickPersistence(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[string](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[int](b)

	out := Zip[string, int](b, 0, scheduled.LifespanTick, scheduled.LifespanTick, lhsRecv, rhsRecv)

	var results []Pair[string, int]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send("leftover")
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Empty(t, results)

	rhsSend.Send(99)
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Empty(t, results)
}

func TestZip_StaticPersistenceCarriesLeftoverAcrossTicks(t *testing.T) {
	b := scheduled.NewBuilder(nil)
	lhsSend, lhsRecv := scheduled.AddHandoff[string](b)
	rhsSend, rhsRecv := scheduled.AddHandoff[int](b)

	out := Zip[string, int](b, 0, scheduled.LifespanStatic, scheduled.LifespanStatic, lhsRecv, rhsRecv)

	var results []Pair[string, int]
	sink := b.AddSubgraph(1, func(ctx *scheduled.Context) {
		results = append(results, out.TakeAll()...)
	})
	scheduled.AddEdge(b, out, sink)

	src := b.AddSubgraph(0, func(ctx *scheduled.Context) {})
	scheduled.AddSender(b, lhsSend, src)
	scheduled.AddSender(b, rhsSend, src)

	sched := b.Build()

	lhsSend.Send("later")
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Empty(t, results)

	rhsSend.Send(3)
	sched.ScheduleSubgraph(src, false)
	require.NoError(t, sched.RunAvailable())
	assert.Equal(t, []Pair[string, int]{NewPair("later", 3)}, results)
}
