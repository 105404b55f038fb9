package browser

import (
	"context"
	"errors"
	"sort"

	"github.com/heap-browser/internal/heap"
	apperrors "github.com/heap-browser/pkg/errors"
)

// Provider wiring. Each provider pairs an item collector with the node
// computer and factory for one property of an object: fields, inbound
// references, or array items. Providers are stateless apart from the
// reference aggregator's computing flag and can be shared across queries of
// one snapshot.

// FieldsProvider materializes the field children of an object.
type FieldsProvider struct {
	heap     heap.Heap
	factory  *Factory
	computer *NodesComputer
	policy   InclusionPolicy // nil disables filtering
}

// NewFieldsProvider creates a fields provider. policy may be nil to show
// every field.
func NewFieldsProvider(h heap.Heap, factory *Factory, cfg ComputerConfig, policy InclusionPolicy) *FieldsProvider {
	return &FieldsProvider{
		heap:     h,
		factory:  factory,
		computer: NewNodesComputer(cfg, "fields"),
		policy:   policy,
	}
}

// Nodes computes the bounded field node array of one object. An object
// without displayable fields yields the single no-fields placeholder.
func (p *FieldsProvider) Nodes(ctx context.Context, inst heap.Instance, progress *Progress, s Sort) ([]*Node, error) {
	items := FilterItems(p.heap, FieldItems(p.heap, inst), p.policy)
	if len(items) == 0 {
		progress.Finish()
		return []*Node{NewNoFieldsNode()}, nil
	}
	return p.computer.Compute(ctx, len(items), progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}

// ExpandRange materializes the direct children of a container node emitted
// by Nodes.
func (p *FieldsProvider) ExpandRange(ctx context.Context, inst heap.Instance, start, end int, progress *Progress, s Sort) ([]*Node, error) {
	items := FilterItems(p.heap, FieldItems(p.heap, inst), p.policy)
	if end >= len(items) {
		end = len(items) - 1
	}
	return p.computer.ComputeRange(ctx, start, end, progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}

// MergedNodes computes the union-of-field-names view across a batch of
// objects of one shape, one merged node per distinct name.
func (p *FieldsProvider) MergedNodes(ctx context.Context, batch []heap.Instance, progress *Progress, s Sort) ([]*Node, error) {
	collect := func(inst heap.Instance) []Item {
		return FilterItems(p.heap, FieldItems(p.heap, inst), p.policy)
	}
	union, err := FieldUnion(ctx, batch, collect, progress)
	if err != nil {
		return nil, err
	}
	if len(union) == 0 {
		return []*Node{NewNoFieldsNode()}, nil
	}

	names := make([]string, 0, len(union))
	for name := range union {
		names = append(names, name)
	}
	sort.Strings(names)

	return p.computer.Compute(ctx, len(names), NewProgress(), s, func(i int) (*Node, error) {
		return p.factory.MergedFieldNode(names[i], len(batch)), nil
	})
}

// ReferencesProvider materializes the inbound reference children of an
// object and the merged referer view of a batch.
type ReferencesProvider struct {
	heap       heap.Heap
	factory    *Factory
	computer   *NodesComputer
	policy     InclusionPolicy
	aggregator *ReferenceAggregator
}

// NewReferencesProvider creates a references provider. policy may be nil to
// show every reference with a resolvable referer.
func NewReferencesProvider(h heap.Heap, factory *Factory, cfg ComputerConfig, policy InclusionPolicy, maxReferers int) *ReferencesProvider {
	return &ReferencesProvider{
		heap:       h,
		factory:    factory,
		computer:   NewNodesComputer(cfg, "references"),
		policy:     policy,
		aggregator: NewReferenceAggregator(maxReferers),
	}
}

// Computing reports whether a merged aggregation is in flight.
func (p *ReferencesProvider) Computing() bool {
	return p.aggregator.Computing()
}

func (p *ReferencesProvider) collect(inst heap.Instance) []Item {
	items := ReferenceItems(p.heap, inst)
	kept := items[:0]
	for _, item := range items {
		// a reference the heap cannot attribute is dropped outright
		if item.Defining == 0 {
			continue
		}
		if p.policy != nil && !p.policy.Include(p.heap, item) {
			continue
		}
		kept = append(kept, item)
	}
	return kept
}

// Nodes computes the bounded reference node array of one object. An object
// nothing refers to yields the single no-references placeholder.
func (p *ReferencesProvider) Nodes(ctx context.Context, inst heap.Instance, progress *Progress, s Sort) ([]*Node, error) {
	items := p.collect(inst)
	if len(items) == 0 {
		progress.Finish()
		return []*Node{NewNoReferencesNode()}, nil
	}
	return p.computer.Compute(ctx, len(items), progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}

// ExpandRange materializes the direct children of a container node emitted
// by Nodes.
func (p *ReferencesProvider) ExpandRange(ctx context.Context, inst heap.Instance, start, end int, progress *Progress, s Sort) ([]*Node, error) {
	items := p.collect(inst)
	if end >= len(items) {
		end = len(items) - 1
	}
	return p.computer.ComputeRange(ctx, start, end, progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}

// MergedNodes computes the deduplicated referer view across a batch: one
// merged node per distinct referer, weighted by how many batch objects it
// references. Exceeding the referer limit yields the single warning node; a
// concurrent merged query on the same view yields the progress placeholder;
// cancellation yields no nodes.
func (p *ReferencesProvider) MergedNodes(ctx context.Context, batch []heap.Instance, progress *Progress, s Sort) ([]*Node, error) {
	collect := func(inst heap.Instance) []Item {
		return ReferenceItems(p.heap, inst)
	}
	counts, err := p.aggregator.Aggregate(ctx, batch, collect, p.includeItem, progress)
	if err != nil {
		switch {
		case errors.Is(err, errAggregationBusy):
			return []*Node{NewProgressNode("references")}, nil
		case apperrors.IsTooManyReferers(err):
			return []*Node{NewOutOfMemoryNode()}, nil
		}
		return nil, err
	}
	if len(counts) == 0 {
		return []*Node{NewNoReferencesNode()}, nil
	}

	referers := make([]heap.InstanceID, 0, len(counts))
	for id := range counts {
		referers = append(referers, id)
	}
	sort.Slice(referers, func(i, j int) bool { return referers[i] < referers[j] })

	return p.computer.Compute(ctx, len(referers), NewProgress(), s, func(i int) (*Node, error) {
		inst, ok := p.heap.InstanceByID(referers[i])
		if !ok {
			return nil, nil
		}
		return p.factory.MergedReferenceNode(inst, counts[referers[i]]), nil
	})
}

func (p *ReferencesProvider) includeItem(item Item) bool {
	if p.policy == nil {
		return true
	}
	return p.policy.Include(p.heap, item)
}

// ArrayItemsProvider materializes the element children of an array.
type ArrayItemsProvider struct {
	heap     heap.Heap
	factory  *Factory
	computer *NodesComputer
}

// NewArrayItemsProvider creates an array items provider.
func NewArrayItemsProvider(h heap.Heap, factory *Factory, cfg ComputerConfig) *ArrayItemsProvider {
	return &ArrayItemsProvider{
		heap:     h,
		factory:  factory,
		computer: NewNodesComputer(cfg, "items"),
	}
}

// Nodes computes the bounded element node array of an array instance. An
// empty array yields the single no-items placeholder.
func (p *ArrayItemsProvider) Nodes(ctx context.Context, inst heap.Instance, progress *Progress, s Sort) ([]*Node, error) {
	items := ArrayItems(p.heap, inst)
	if len(items) == 0 {
		progress.Finish()
		return []*Node{NewNoItemsNode()}, nil
	}
	return p.computer.Compute(ctx, len(items), progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}

// ExpandRange materializes the direct children of an element container.
func (p *ArrayItemsProvider) ExpandRange(ctx context.Context, inst heap.Instance, start, end int, progress *Progress, s Sort) ([]*Node, error) {
	items := ArrayItems(p.heap, inst)
	if end >= len(items) {
		end = len(items) - 1
	}
	return p.computer.ComputeRange(ctx, start, end, progress, s, func(i int) (*Node, error) {
		return p.factory.NodeForItem(items[i]), nil
	})
}
