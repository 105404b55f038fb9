// Package browser implements the lazy, paginated tree-materialization engine
// that turns heap query results into bounded node arrays for a property and
// reference browser.
package browser

import "sync/atomic"

// Progress is a single-owner, single-writer step counter with known-total
// semantics. The zero value is usable. All methods are nil-safe so callers
// that do not report progress can pass nil.
//
// Finish is idempotent: every computation finalizes its Progress exactly
// once, including on cancellation and error paths.
type Progress struct {
	total    atomic.Int64
	steps    atomic.Int64
	finished atomic.Bool
}

// NewProgress creates a Progress with no known total.
func NewProgress() *Progress {
	return &Progress{}
}

// SetupKnownSteps declares the total number of steps.
func (p *Progress) SetupKnownSteps(n int) {
	if p == nil {
		return
	}
	p.total.Store(int64(n))
}

// Step records one completed step.
func (p *Progress) Step() {
	if p == nil {
		return
	}
	p.steps.Add(1)
}

// Finish marks the progress complete, stepping the counter to the known
// total. Repeated calls are no-ops.
func (p *Progress) Finish() {
	if p == nil {
		return
	}
	if p.finished.CompareAndSwap(false, true) {
		if total := p.total.Load(); total > p.steps.Load() {
			p.steps.Store(total)
		}
	}
}

// Finished reports whether Finish has been called.
func (p *Progress) Finished() bool {
	if p == nil {
		return false
	}
	return p.finished.Load()
}

// Value returns the current step count and the known total (0 if unknown).
func (p *Progress) Value() (steps, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.steps.Load(), p.total.Load()
}
