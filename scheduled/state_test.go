package scheduled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopLifespanState_ResetsOnlyWhenNonceChanges(t *testing.T) {
	b := NewBuilder(nil)
	loop := b.AddLoop(LoopId{}, false)
	h := AddState(b, 0)
	SetStateLifespanHook(b, h, LifespanLoop, func(v *int) { *v = 0 })
	SetStateLoopID(b, h, loop)

	var seenPerIteration []int
	iterations := 0
	var driver SubgraphId
	driver = b.AddSubgraph(0, func(ctx *Context) {
		p := StateMut(ctx, h)
		*p++
		seenPerIteration = append(seenPerIteration, *p)

		iterations++
		if iterations < 4 {
			ctx.AllowAnotherIteration(loop)
		}
		ctx.RescheduleLoopBlock(loop)
	})
	b.SetSubgraphLoop(driver, loop)

	sched := b.Build()
	sched.ScheduleSubgraph(driver, false)
	require.NoError(t, sched.RunTick())

	// Each of the 4 iterations starts its loop-lifespan cell fresh at 1,
	// because the loop's nonce bumps between RescheduleLoopBlock calls.
	assert.Equal(t, []int{1, 1, 1, 1}, seenPerIteration)
}

func TestStateMut_MutatesInPlace(t *testing.T) {
	b := NewBuilder(nil)
	h := AddState(b, []int{1, 2})

	sg := b.AddSubgraph(0, func(ctx *Context) {
		p := StateMut(ctx, h)
		*p = append(*p, 3)
	})
	sched := b.Build()
	sched.ScheduleSubgraph(sg, false)
	require.NoError(t, sched.RunTick())

	// Static/none lifespan by default: the mutation from the subgraph's
	// run is visible via StateRef after the tick.
	ctx := &Context{sched: sched}
	assert.Equal(t, []int{1, 2, 3}, StateRef(ctx, h))
}
