package browser

import "sort"

// SortKey selects the column nodes are ordered by.
type SortKey int

const (
	// SortNone keeps the original item order.
	SortNone SortKey = iota
	// SortByName orders by node name.
	SortByName
	// SortByType orders by type descriptor.
	SortByType
	// SortByValue orders by rendered value.
	SortByValue
	// SortByCount is the count pseudo-column. Container labels are
	// inherently ordered by range, so this key never reorders nodes.
	SortByCount
)

// SortOrder is the requested direction.
type SortOrder int

const (
	// Ascending sorts smallest first.
	Ascending SortOrder = iota
	// Descending sorts largest first.
	Descending
)

// Sort is a requested ordering.
type Sort struct {
	Key   SortKey
	Order SortOrder
}

// Sortable reports whether the key reorders nodes at all.
func (s Sort) Sortable() bool {
	return s.Key != SortNone && s.Key != SortByCount
}

// sortNodes orders nodes according to s. Unsortable keys leave the slice
// untouched. The sort is stable so equal keys keep item order.
func sortNodes(nodes []*Node, s Sort) {
	if !s.Sortable() {
		return
	}

	key := func(n *Node) string {
		switch s.Key {
		case SortByName:
			return n.Name
		case SortByType:
			return n.Type
		case SortByValue:
			return n.Value
		default:
			return ""
		}
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := key(nodes[i]), key(nodes[j])
		if s.Order == Descending {
			return a > b
		}
		return a < b
	})
}
