package scheduled

// Key is a typed, dense integer key into a SlotVec or SecondarySlotVec.
// Tag is a phantom type parameter: Key[subgraphTag] and Key[handoffTag]
// are distinct types even though both are backed by a plain int, so the
// compiler rejects code that mixes up id spaces.
type Key[Tag any] struct {
	index int
}

// Index returns the raw dense index backing this key.
func (k Key[Tag]) Index() int { return k.index }

func keyOf[Tag any](i int) Key[Tag] { return Key[Tag]{index: i} }

// SlotVec is a dense, insertion-ordered, append-only vector keyed by a
// phantom-tagged Key. Entries are never removed, so a Key returned by
// Insert stays valid for the vector's whole lifetime — the scheduler
// relies on this to hand out stable SubgraphId/HandoffId/StateId/LoopId
// values during graph construction and never invalidate them at runtime.
type SlotVec[Tag any, Val any] struct {
	slots []Val
}

// NewSlotVec returns an empty SlotVec.
func NewSlotVec[Tag any, Val any]() *SlotVec[Tag, Val] {
	return &SlotVec[Tag, Val]{}
}

// Insert appends a value and returns its key.
func (s *SlotVec[Tag, Val]) Insert(v Val) Key[Tag] {
	k := keyOf[Tag](len(s.slots))
	s.slots = append(s.slots, v)
	return k
}

// Get returns the value at k.
func (s *SlotVec[Tag, Val]) Get(k Key[Tag]) Val {
	return s.slots[k.index]
}

// Valid reports whether k was actually handed out by this SlotVec's
// Insert, as opposed to a zero-value or out-of-range key constructed some
// other way (e.g. a zero-value SubgraphId reaching a scheduling call from
// outside the package that built the graph).
func (s *SlotVec[Tag, Val]) Valid(k Key[Tag]) bool {
	return k.index >= 0 && k.index < len(s.slots)
}

// GetPtr returns a pointer to the slot at k, for in-place mutation.
func (s *SlotVec[Tag, Val]) GetPtr(k Key[Tag]) *Val {
	return &s.slots[k.index]
}

// Set overwrites the value at k.
func (s *SlotVec[Tag, Val]) Set(k Key[Tag], v Val) {
	s.slots[k.index] = v
}

// Len returns the number of entries ever inserted.
func (s *SlotVec[Tag, Val]) Len() int { return len(s.slots) }

// Keys returns every key currently in the vector, in insertion order.
func (s *SlotVec[Tag, Val]) Keys() []Key[Tag] {
	out := make([]Key[Tag], len(s.slots))
	for i := range s.slots {
		out[i] = keyOf[Tag](i)
	}
	return out
}

// Each calls fn for every (key, value) pair in insertion order.
func (s *SlotVec[Tag, Val]) Each(fn func(Key[Tag], Val)) {
	for i, v := range s.slots {
		fn(keyOf[Tag](i), v)
	}
}

// SecondarySlotVec is a sparse map keyed by a Key from some other SlotVec's
// id space (e.g. per-subgraph scheduling metadata keyed by SubgraphId),
// supporting removal — unlike SlotVec, whose whole point is that entries
// are permanent.
type SecondarySlotVec[Tag any, Val any] struct {
	slots map[int]Val
}

// NewSecondarySlotVec returns an empty SecondarySlotVec.
func NewSecondarySlotVec[Tag any, Val any]() *SecondarySlotVec[Tag, Val] {
	return &SecondarySlotVec[Tag, Val]{slots: make(map[int]Val)}
}

// Set stores v at k, overwriting any existing entry.
func (s *SecondarySlotVec[Tag, Val]) Set(k Key[Tag], v Val) {
	s.slots[k.index] = v
}

// Get returns the value at k and whether it was present.
func (s *SecondarySlotVec[Tag, Val]) Get(k Key[Tag]) (Val, bool) {
	v, ok := s.slots[k.index]
	return v, ok
}

// Remove deletes the entry at k, if any.
func (s *SecondarySlotVec[Tag, Val]) Remove(k Key[Tag]) {
	delete(s.slots, k.index)
}

// Len returns the number of entries currently present.
func (s *SecondarySlotVec[Tag, Val]) Len() int { return len(s.slots) }
