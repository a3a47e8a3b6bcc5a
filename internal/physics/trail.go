package physics

import "github.com/san-kum/gravtrail/internal/dynamo"

// Trail is a fixed-capacity ring buffer of past positions.
// Iteration is always oldest first; pushing onto a full trail evicts the
// oldest sample.
type Trail struct {
	points []dynamo.Vec2
	head   int
	n      int
}

// NewTrail returns an empty trail holding at most capacity samples.
// A capacity of zero (or less) yields a trail that records nothing.
func NewTrail(capacity int) *Trail {
	if capacity < 0 {
		capacity = 0
	}
	return &Trail{points: make([]dynamo.Vec2, capacity)}
}

func (t *Trail) Len() int { return t.n }
func (t *Trail) Cap() int { return len(t.points) }

// Push appends p as the newest sample.
func (t *Trail) Push(p dynamo.Vec2) {
	c := len(t.points)
	if c == 0 {
		return
	}
	if t.n < c {
		t.points[(t.head+t.n)%c] = p
		t.n++
		return
	}
	t.points[t.head] = p
	t.head = (t.head + 1) % c
}

// At returns the i-th sample, 0 being the oldest. It panics if i is out of
// range, like a slice index.
func (t *Trail) At(i int) dynamo.Vec2 {
	if i < 0 || i >= t.n {
		panic("physics: trail index out of range")
	}
	return t.points[(t.head+i)%len(t.points)]
}

// Last returns the newest sample.
func (t *Trail) Last() (dynamo.Vec2, bool) {
	if t.n == 0 {
		return dynamo.Vec2{}, false
	}
	return t.At(t.n - 1), true
}

// Each calls fn for every sample, oldest first.
func (t *Trail) Each(fn func(i int, p dynamo.Vec2)) {
	c := len(t.points)
	for i := 0; i < t.n; i++ {
		fn(i, t.points[(t.head+i)%c])
	}
}

// Points returns a copy of the samples, oldest first.
func (t *Trail) Points() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, 0, t.n)
	t.Each(func(_ int, p dynamo.Vec2) {
		out = append(out, p)
	})
	return out
}

func (t *Trail) Reset() {
	t.head = 0
	t.n = 0
}
