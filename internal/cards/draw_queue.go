package cards

// DrawQueue holds scheduled followups in insertion order.
type DrawQueue struct {
	entries []Followup
}

// NewDrawQueue creates an empty queue.
func NewDrawQueue() *DrawQueue {
	return &DrawQueue{}
}

// Insert schedules a copy of f. Negative delays count as already due.
func (q *DrawQueue) Insert(f Followup) {
	if f.Delay < 0 {
		f.Delay = 0
	}
	q.entries = append(q.entries, f)
}

// Next counts one draw down on every pending entry, then removes and returns the
// first entry (in insertion order) whose delay reached zero or below.
func (q *DrawQueue) Next() (Followup, bool) {
	due := -1
	for i := range q.entries {
		q.entries[i].Delay--
		if due < 0 && q.entries[i].Delay <= 0 {
			due = i
		}
	}
	if due < 0 {
		return Followup{}, false
	}
	next := q.entries[due]
	q.entries = append(q.entries[:due], q.entries[due+1:]...)
	return next, true
}

// Clear discards all pending entries.
func (q *DrawQueue) Clear() {
	q.entries = nil
}

// Len returns the number of pending entries.
func (q *DrawQueue) Len() int {
	return len(q.entries)
}

// Pending returns a copy of the pending entries.
func (q *DrawQueue) Pending() []Followup {
	return append([]Followup(nil), q.entries...)
}
