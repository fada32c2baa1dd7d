package typeset

// expirationState is the tracker bookkeeping embedded in each tracked
// object. The zero value means untracked.
type expirationState struct {
	tracked    bool
	generation int
	index      int
}

// expirable is implemented by objects an expirationTracker can manage.
type expirable interface {
	expirationState() *expirationState
}

// expirationTracker ages objects through a fixed ring of generations.
// New and recently used objects sit in the newest generation; each aging
// step expires everything left in the oldest generation and rotates the
// ring. An object therefore survives between generationCount-1 and
// generationCount steps after its last use.
//
// Aging is driven explicitly by the owner rather than by a timer
// goroutine, which keeps the tracker usable from single-threaded event
// loops.
type expirationTracker[T expirable] struct {
	generations   [][]T
	newest        int
	notifyExpired func(T)
}

func newExpirationTracker[T expirable](generationCount int, notifyExpired func(T)) *expirationTracker[T] {
	return &expirationTracker[T]{
		generations:   make([][]T, generationCount),
		notifyExpired: notifyExpired,
	}
}

// addObject starts tracking obj in the newest generation.
// obj must not already be tracked.
func (t *expirationTracker[T]) addObject(obj T) {
	st := obj.expirationState()
	if st.tracked {
		panic("typeset: object already tracked")
	}
	st.tracked = true
	st.generation = t.newest
	st.index = len(t.generations[t.newest])
	t.generations[t.newest] = append(t.generations[t.newest], obj)
}

// removeObject stops tracking obj. obj must be tracked.
func (t *expirationTracker[T]) removeObject(obj T) {
	st := obj.expirationState()
	if !st.tracked {
		panic("typeset: object not tracked")
	}
	bucket := t.generations[st.generation]
	last := len(bucket) - 1
	moved := bucket[last]
	bucket[st.index] = moved
	moved.expirationState().index = st.index
	t.generations[st.generation] = bucket[:last]
	st.tracked = false
}

// markUsed moves a tracked obj back into the newest generation, restarting
// its grace period.
func (t *expirationTracker[T]) markUsed(obj T) {
	t.removeObject(obj)
	t.addObject(obj)
}

// ageOneGeneration expires every object left in the oldest generation and
// rotates the ring so that generation becomes the newest.
func (t *expirationTracker[T]) ageOneGeneration() {
	oldest := (t.newest + 1) % len(t.generations)
	bucket := t.generations[oldest]
	t.generations[oldest] = nil
	for _, obj := range bucket {
		st := obj.expirationState()
		if st.tracked && st.generation == oldest {
			st.tracked = false
			t.notifyExpired(obj)
		}
	}
	t.newest = oldest
}

// ageAllGenerations expires every tracked object.
func (t *expirationTracker[T]) ageAllGenerations() {
	for range t.generations {
		t.ageOneGeneration()
	}
}

// count returns the number of tracked objects.
func (t *expirationTracker[T]) count() int {
	n := 0
	for _, bucket := range t.generations {
		n += len(bucket)
	}
	return n
}
