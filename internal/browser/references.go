package browser

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/heap-browser/internal/heap"
	apperrors "github.com/heap-browser/pkg/errors"
)

// errAggregationBusy signals that an aggregation is already in flight on this
// aggregator. Callers render it as the progress placeholder.
var errAggregationBusy = errors.New("reference aggregation already in flight")

// DefaultMaxReferers caps the referer accumulator. Aggregation over a batch
// of hot objects can otherwise grow the map without bound; the cap turns
// that into a single visible warning node instead of memory pressure.
const DefaultMaxReferers = 1_000_000

// ItemsFunc collects the candidate items of one object.
type ItemsFunc func(inst heap.Instance) []Item

// ReferenceAggregator computes, for every distinct referer across a batch of
// objects, how many batch objects it references. Dedup happens at two
// levels: a referer reaching one object through several edges counts once
// for that object, and the per-object sets are then merged into the global
// counts.
//
// One aggregation runs at a time per aggregator; the Computing flag is
// observable by the hosting view and is reset on every exit path.
type ReferenceAggregator struct {
	maxReferers int
	computing   atomic.Bool
}

// NewReferenceAggregator creates an aggregator with the given accumulator
// cap. A non-positive cap uses DefaultMaxReferers.
func NewReferenceAggregator(maxReferers int) *ReferenceAggregator {
	if maxReferers <= 0 {
		maxReferers = DefaultMaxReferers
	}
	return &ReferenceAggregator{maxReferers: maxReferers}
}

// Computing reports whether an aggregation is in flight.
func (a *ReferenceAggregator) Computing() bool {
	return a.computing.Load()
}

// Aggregate walks the batch and returns referer counts keyed by defining
// instance id.
//
// Cancellation returns (nil, ctx.Err()). Exceeding the accumulator cap
// returns (nil, ErrTooManyReferers); callers render that as a single warning
// node rather than propagating it. A second call while an aggregation is in
// flight returns errAggregationBusy without touching the running one.
// progress is stepped per batch object and finished on every exit path.
func (a *ReferenceAggregator) Aggregate(ctx context.Context, batch []heap.Instance, collect ItemsFunc, include func(Item) bool, progress *Progress) (map[heap.InstanceID]int, error) {
	if !a.computing.CompareAndSwap(false, true) {
		progress.Finish()
		return nil, errAggregationBusy
	}
	defer a.computing.Store(false)
	defer progress.Finish()

	progress.SetupKnownSteps(len(batch))

	counts := make(map[heap.InstanceID]int)
	for _, obj := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.Step()

		references := collect(obj)
		referers := make(map[heap.InstanceID]struct{})
		for _, ref := range references {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if include != nil && !include(ref) {
				continue
			}
			if ref.Defining == 0 {
				// a reference without a referer should not happen
				continue
			}
			referers[ref.Defining] = struct{}{}
		}

		for referer := range referers {
			if _, known := counts[referer]; !known && len(counts) >= a.maxReferers {
				return nil, apperrors.ErrTooManyReferers
			}
			counts[referer]++
		}
	}

	return counts, nil
}
