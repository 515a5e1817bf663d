package components

// TrailCap is the fixed capacity of a position trail.
const TrailCap = 50

// Trail is a fixed-capacity ring of an agent's most recent positions.
// Once full, each push evicts the oldest entry. The zero value is an
// empty trail ready for use.
type Trail struct {
	pts  [TrailCap]Position
	head int // index of the next write
	size int
}

// Push records p, evicting the oldest position if the ring is full.
func (t *Trail) Push(p Position) {
	t.pts[t.head] = p
	t.head = (t.head + 1) % TrailCap
	if t.size < TrailCap {
		t.size++
	}
}

// Len reports how many positions are recorded, never more than TrailCap.
func (t *Trail) Len() int { return t.size }

// At returns the i-th recorded position, oldest first. i must be in
// [0, Len()).
func (t *Trail) At(i int) Position {
	start := t.head - t.size
	if start < 0 {
		start += TrailCap
	}
	return t.pts[(start+i)%TrailCap]
}

// Points appends the recorded positions to dst, oldest first, and
// returns the extended slice.
func (t *Trail) Points(dst []Position) []Position {
	for i := 0; i < t.size; i++ {
		dst = append(dst, t.At(i))
	}
	return dst
}

// Reset drops all recorded positions.
func (t *Trail) Reset() {
	t.head = 0
	t.size = 0
}
