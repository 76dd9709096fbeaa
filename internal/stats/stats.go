// Package stats holds the four survival counters of a run.
package stats

const (
	MaxValue      = 32
	StartingValue = 16
)

// Resource identifies one of the survival counters.
type Resource string

const (
	Coal   Resource = "coal"
	Food   Resource = "food"
	Health Resource = "health"
	Hope   Resource = "hope"
)

// TerminalPriority is the order in which exhausted resources are reported.
var TerminalPriority = []Resource{Coal, Food, Health, Hope}

// Modification is a signed delta for every counter.
type Modification struct {
	Coal   int `json:"coal"`
	Food   int `json:"food"`
	Health int `json:"health"`
	Hope   int `json:"hope"`
}

// Snapshot is a read-only copy of the counters.
type Snapshot struct {
	Coal   int `json:"coal"`
	Food   int `json:"food"`
	Health int `json:"health"`
	Hope   int `json:"hope"`
}

// Value returns the counter of r.
func (s Snapshot) Value(r Resource) int {
	switch r {
	case Coal:
		return s.Coal
	case Food:
		return s.Food
	case Health:
		return s.Health
	case Hope:
		return s.Hope
	}
	return 0
}

// Percentage returns the counter of r as a fraction of MaxValue.
func (s Snapshot) Percentage(r Resource) float64 {
	return float64(s.Value(r)) / MaxValue
}

// Notifier receives every change of the counters. The list of actual listeners
// belongs to the display layer.
type Notifier interface {
	StatsChanged(Snapshot)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Snapshot)

func (f NotifierFunc) StatsChanged(s Snapshot) { f(s) }

// Model is the stat model of a single run. It is not safe for concurrent use;
// the owning game serializes access.
type Model struct {
	values   Snapshot
	notifier Notifier
}

// New returns a model seeded with starting values. notifier may be nil.
func New(notifier Notifier) *Model {
	m := &Model{notifier: notifier}
	m.applyStartingValues()
	return m
}

// Apply adds the deltas, saturating every counter at [0, MaxValue].
func (m *Model) Apply(mod Modification) {
	m.values.Coal = add(m.values.Coal, mod.Coal)
	m.values.Food = add(m.values.Food, mod.Food)
	m.values.Health = add(m.values.Health, mod.Health)
	m.values.Hope = add(m.values.Hope, mod.Hope)
	m.notify()
}

// Reset re-seeds all counters.
func (m *Model) Reset() {
	m.applyStartingValues()
	m.notify()
}

// Snapshot returns the current counters.
func (m *Model) Snapshot() Snapshot {
	return m.values
}

// Terminal returns the first exhausted resource in TerminalPriority order.
func (m *Model) Terminal() (Resource, bool) {
	for _, r := range TerminalPriority {
		if m.values.Value(r) == 0 {
			return r, true
		}
	}
	return "", false
}

func (m *Model) applyStartingValues() {
	m.values = Snapshot{
		Coal:   clamp(StartingValue),
		Food:   clamp(StartingValue),
		Health: clamp(StartingValue),
		Hope:   clamp(StartingValue),
	}
}

func (m *Model) notify() {
	if m.notifier != nil {
		m.notifier.StatsChanged(m.values)
	}
}

// add applies delta to a counter already in range. The delta is bounded first
// so the sum cannot overflow.
func add(v, delta int) int {
	if delta > MaxValue {
		delta = MaxValue
	} else if delta < -MaxValue {
		delta = -MaxValue
	}
	return clamp(v + delta)
}

// clamp saturates; it never wraps.
func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}
