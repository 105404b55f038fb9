package browser

import (
	"context"

	"github.com/heap-browser/internal/heap"
)

// StaticPrefix disambiguates static fields from instance fields of the same
// name in merged views.
const StaticPrefix = "static "

// FieldUnion computes the set of distinct field names present across any
// object in the batch. Static fields are qualified with StaticPrefix. The
// result is unordered and independent of batch order.
//
// progress is stepped once per object visited and finished on every exit
// path; cancellation returns (nil, ctx.Err()).
func FieldUnion(ctx context.Context, batch []heap.Instance, collect ItemsFunc, progress *Progress) (map[string]struct{}, error) {
	defer progress.Finish()

	progress.SetupKnownSteps(len(batch))

	names := make(map[string]struct{})
	for _, obj := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		progress.Step()

		for _, item := range collect(obj) {
			if item.Kind != ItemField {
				continue
			}
			name := item.Field.Name
			if item.Field.Static {
				name = StaticPrefix + name
			}
			names[name] = struct{}{}
		}
	}

	return names, nil
}
