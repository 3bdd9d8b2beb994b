package scheduled

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTag struct{}

func TestSlotVec_InsertGetStableKeys(t *testing.T) {
	sv := NewSlotVec[testTag, string]()

	k0 := sv.Insert("a")
	k1 := sv.Insert("b")
	k2 := sv.Insert("c")

	assert.Equal(t, 0, k0.Index())
	assert.Equal(t, 1, k1.Index())
	assert.Equal(t, 2, k2.Index())
	require.Equal(t, 3, sv.Len())

	assert.Equal(t, "a", sv.Get(k0))
	assert.Equal(t, "b", sv.Get(k1))
	assert.Equal(t, "c", sv.Get(k2))

	sv.Set(k1, "bb")
	assert.Equal(t, "bb", sv.Get(k1))

	*sv.GetPtr(k2) = "cc"
	assert.Equal(t, "cc", sv.Get(k2))
}

func TestSlotVec_EachInInsertionOrder(t *testing.T) {
	sv := NewSlotVec[testTag, int]()
	for i := 0; i < 5; i++ {
		sv.Insert(i * 10)
	}

	var seen []int
	sv.Each(func(k Key[testTag], v int) {
		assert.Equal(t, len(seen), k.Index())
		seen = append(seen, v)
	})
	assert.Equal(t, []int{0, 10, 20, 30, 40}, seen)
}

func TestSecondarySlotVec_SetGetRemove(t *testing.T) {
	sv := NewSlotVec[testTag, string]()
	k0 := sv.Insert("a")
	k1 := sv.Insert("b")

	sec := NewSecondarySlotVec[testTag, int]()
	sec.Set(k0, 100)
	sec.Set(k1, 200)
	assert.Equal(t, 2, sec.Len())

	v, ok := sec.Get(k0)
	assert.True(t, ok)
	assert.Equal(t, 100, v)

	sec.Remove(k0)
	assert.Equal(t, 1, sec.Len())
	_, ok = sec.Get(k0)
	assert.False(t, ok)

	v, ok = sec.Get(k1)
	assert.True(t, ok)
	assert.Equal(t, 200, v)
}
