package browser

import "context"

// Collapse defaults. Borrowed from the classic heap walker thresholds: items
// collapse into containers of 500 once a view exceeds 2000 entries, and
// container units grow past 5000 entries so the container count stays flat.
const (
	DefaultMaxItems        = 100
	DefaultCollapseUnit    = 500
	DefaultArrayCollapse   = 2000
	DefaultUnitLimit       = 5000
	DefaultSampleThreshold = 100000
)

// ComputerConfig tunes the pagination layout.
type ComputerConfig struct {
	// MaxItems is the largest item count rendered as direct nodes.
	MaxItems int
	// CollapseUnit is the base container size.
	CollapseUnit int
	// UnitLimit is the item count beyond which the container unit grows
	// to keep the number of containers manageable.
	UnitLimit int
	// SampleThreshold is the item count beyond which the computer emits a
	// sampled subset instead of containers.
	SampleThreshold int
}

// withDefaults fills zero fields.
func (c ComputerConfig) withDefaults() ComputerConfig {
	if c.MaxItems <= 0 {
		c.MaxItems = DefaultMaxItems
	}
	if c.CollapseUnit <= 0 {
		c.CollapseUnit = DefaultCollapseUnit
	}
	if c.UnitLimit <= 0 {
		c.UnitLimit = DefaultUnitLimit
	}
	if c.SampleThreshold <= 0 {
		c.SampleThreshold = DefaultSampleThreshold
	}
	return c
}

// NodeBuilder materializes the node for one item index.
type NodeBuilder func(index int) (*Node, error)

// NodesComputer converts an arbitrarily large item collection into a bounded
// node array: direct nodes when small, contiguous containers when large, a
// sampled subset plus a trailing "more" node when extreme. The represented
// item counts of the emitted nodes always total the input count exactly.
type NodesComputer struct {
	cfg     ComputerConfig
	subject string
}

// NewNodesComputer creates a computer for a given item subject ("fields",
// "references", "items") used in container labels.
func NewNodesComputer(cfg ComputerConfig, subject string) *NodesComputer {
	return &NodesComputer{cfg: cfg.withDefaults(), subject: subject}
}

// Compute builds the bounded node array for n items.
//
// Cancellation is cooperative: ctx is polled on every iteration and a
// cancelled computation returns (nil, ctx.Err()) with no partial output.
// progress is stepped per materialized item and finished on every exit path.
func (c *NodesComputer) Compute(ctx context.Context, n int, progress *Progress, s Sort, build NodeBuilder) ([]*Node, error) {
	defer progress.Finish()

	if n <= 0 {
		return []*Node{}, nil
	}

	switch {
	case n <= c.cfg.MaxItems:
		nodes, err := c.buildRange(ctx, 0, n-1, progress, build)
		if err != nil {
			return nil, err
		}
		sortNodes(nodes, s)
		return nodes, nil

	case n <= c.cfg.SampleThreshold:
		return c.buildContainers(n), nil

	default:
		return c.buildSampled(ctx, n, progress, build)
	}
}

// ComputeRange materializes the direct children of a container node covering
// the inclusive range [start, end]. Used when the presentation layer expands
// a container.
func (c *NodesComputer) ComputeRange(ctx context.Context, start, end int, progress *Progress, s Sort, build NodeBuilder) ([]*Node, error) {
	defer progress.Finish()

	if end < start {
		return []*Node{}, nil
	}
	nodes, err := c.buildRange(ctx, start, end, progress, build)
	if err != nil {
		return nil, err
	}
	sortNodes(nodes, s)
	return nodes, nil
}

func (c *NodesComputer) buildRange(ctx context.Context, start, end int, progress *Progress, build NodeBuilder) ([]*Node, error) {
	progress.SetupKnownSteps(end - start + 1)
	nodes := make([]*Node, 0, end-start+1)
	for i := start; i <= end; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node, err := build(i)
		if err != nil {
			return nil, err
		}
		progress.Step()
		if node == nil {
			continue
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// buildContainers partitions [0, n) into contiguous container nodes. The
// unit starts at CollapseUnit and grows for very large collections so the
// container count stays manageable. Ranges are disjoint and cover every
// item, so represented counts total n.
func (c *NodesComputer) buildContainers(n int) []*Node {
	unit := c.cfg.CollapseUnit
	for n/unit > c.cfg.UnitLimit/c.cfg.CollapseUnit {
		unit *= 2
	}

	nodes := make([]*Node, 0, (n+unit-1)/unit)
	for start := 0; start < n; start += unit {
		end := start + unit - 1
		if end >= n {
			end = n - 1
		}
		nodes = append(nodes, &Node{
			Kind:  KindContainer,
			Index: -1,
			Start: start,
			End:   end,
			Count: end - start + 1,
			Label: Label{Kind: LabelContainer, Subject: c.subject, Start: start, End: end},
		})
	}
	return nodes
}

// buildSampled emits MaxItems evenly spaced item nodes, each labeled as a
// sample, followed by one trailing node accounting for the remaining count.
func (c *NodesComputer) buildSampled(ctx context.Context, n int, progress *Progress, build NodeBuilder) ([]*Node, error) {
	samples := c.cfg.MaxItems
	progress.SetupKnownSteps(samples)
	step := n / samples

	nodes := make([]*Node, 0, samples+1)
	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		node, err := build(i * step)
		if err != nil {
			return nil, err
		}
		progress.Step()
		if node == nil {
			continue
		}
		node.Label = Label{Kind: LabelSamples, Subject: c.subject, Count: samples}
		nodes = append(nodes, node)
	}

	remaining := n - len(nodes)
	nodes = append(nodes, &Node{
		Kind:  KindMoreItems,
		Index: -1,
		Count: remaining,
		Label: Label{Kind: LabelMoreItems, Subject: c.subject, Count: remaining},
	})
	return nodes, nil
}
