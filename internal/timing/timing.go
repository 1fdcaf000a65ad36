// Package timing provides wall-clock measurement helpers for Reef.
package timing

import (
	"fmt"
	"time"
)

// Timer tracks elapsed time across the phases of a completion request.
type Timer struct {
	start time.Time
	marks map[string]time.Duration
	order []string
}

// NewTimer starts a new timer.
func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
		marks: make(map[string]time.Duration),
	}
}

// Mark records a checkpoint under the given label and returns the
// elapsed time since the timer started.
func (t *Timer) Mark(label string) time.Duration {
	elapsed := time.Since(t.start)
	t.marks[label] = elapsed
	t.order = append(t.order, label)
	return elapsed
}

// Elapsed returns the total elapsed time.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Get returns the recorded duration for label.
func (t *Timer) Get(label string) (time.Duration, bool) {
	d, ok := t.marks[label]
	return d, ok
}

// Summary formats all checkpoints in recording order.
func (t *Timer) Summary() string {
	out := fmt.Sprintf("total: %.3fms", ms(t.Elapsed()))
	for i, label := range t.order {
		if i == 0 {
			out += " ("
		} else {
			out += ", "
		}
		out += fmt.Sprintf("%s: %.3fms", label, ms(t.marks[label]))
	}
	if len(t.order) > 0 {
		out += ")"
	}
	return out
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// Budget enforces a wall-clock cap on an enumeration. The zero value is
// unusable; create one with NewBudget.
type Budget struct {
	start time.Time
	limit time.Duration
}

// NewBudget starts a budget with the given cap.
func NewBudget(limit time.Duration) Budget {
	return Budget{start: time.Now(), limit: limit}
}

// Exceeded reports whether the cap has been reached.
func (b Budget) Exceeded() bool {
	return time.Since(b.start) > b.limit
}
