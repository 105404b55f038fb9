package browser

import "github.com/heap-browser/internal/heap"

// Kind tags the Node variant.
type Kind int

const (
	// KindObject is a plain object node.
	KindObject Kind = iota
	// KindObjectArray is an object-array node.
	KindObjectArray
	// KindPrimitiveArray is a primitive-array node.
	KindPrimitiveArray
	// KindPrimitive is a primitive leaf value.
	KindPrimitive
	// KindDomainObject is a guest-language (dynamic) object node.
	KindDomainObject
	// KindContainer stands in for a contiguous range of items.
	KindContainer
	// KindMoreItems is the trailing "another K left" node.
	KindMoreItems
	// KindMergedField represents one field name across a batch of objects.
	KindMergedField
	// KindMergedReference wraps a referer node in a batch reference view.
	KindMergedReference
	// KindPlaceholder is a message node (no fields, searching, ...).
	KindPlaceholder
)

// Role records how a node hangs under its parent.
type Role int

const (
	// RoleNone is used for roots, containers and placeholders.
	RoleNone Role = iota
	// RoleField marks a node reached through a field edge.
	RoleField
	// RoleReference marks a node reached through an inbound reference.
	RoleReference
	// RoleArrayItem marks an array element node.
	RoleArrayItem
)

// PlaceholderKind tags a KindPlaceholder node.
type PlaceholderKind int

const (
	placeholderInvalid PlaceholderKind = iota
	// PlaceholderNoFields: the object has no displayable fields.
	PlaceholderNoFields
	// PlaceholderNoItems: the array has no elements.
	PlaceholderNoItems
	// PlaceholderNoReferences: nothing refers to the object.
	PlaceholderNoReferences
	// PlaceholderProgress: children are still being computed.
	PlaceholderProgress
	// PlaceholderOutOfMemory: aggregation exceeded its referer limit.
	PlaceholderOutOfMemory
)

// Node is one presentation-tree node. It is a tagged union: Kind selects the
// variant and the variant-specific fields below it. Nodes are plain data;
// the presentation layer owns rendering and the providers own (re)computing
// children.
type Node struct {
	Kind Kind
	Role Role

	// Name is the field name, element index rendering, or type name that
	// identifies the node under its parent. Empty for labeled nodes.
	Name string
	// Type is the displayed type descriptor.
	Type string
	// Value is the rendered primitive value, empty otherwise.
	Value string
	// Static is set for static field edges.
	Static bool

	// Object is the referenced instance, 0 for primitives and labels.
	Object heap.InstanceID
	// Index is the array element index, -1 when not an array item.
	Index int

	// Label parameterizes container/placeholder display strings.
	Label Label

	// Start/End delimit the inclusive item range of a KindContainer.
	Start int
	End   int
	// Count is the represented item count for containers and more-items
	// nodes, and the batch occurrence count for merged nodes.
	Count int

	// Inner is the wrapped referer node of a KindMergedReference.
	Inner *Node

	// Placeholder tags a KindPlaceholder node.
	Placeholder PlaceholderKind
}

// Leaf reports whether the node can never have children.
func (n *Node) Leaf() bool {
	switch n.Kind {
	case KindPrimitive, KindMergedField, KindMergedReference, KindPlaceholder, KindMoreItems:
		return true
	default:
		return false
	}
}

// RepresentedCount returns how many underlying items the node stands for.
func (n *Node) RepresentedCount() int {
	switch n.Kind {
	case KindContainer, KindMoreItems:
		return n.Count
	case KindPlaceholder:
		return 0
	default:
		return 1
	}
}

// NewNoFieldsNode builds the placeholder shown for objects without fields.
func NewNoFieldsNode() *Node {
	return &Node{Kind: KindPlaceholder, Placeholder: PlaceholderNoFields, Index: -1, Label: Label{Kind: LabelNoFields}}
}

// NewNoItemsNode builds the placeholder shown for empty arrays.
func NewNoItemsNode() *Node {
	return &Node{Kind: KindPlaceholder, Placeholder: PlaceholderNoItems, Index: -1, Label: Label{Kind: LabelNoItems}}
}

// NewNoReferencesNode builds the placeholder shown for unreferenced objects.
func NewNoReferencesNode() *Node {
	return &Node{Kind: KindPlaceholder, Placeholder: PlaceholderNoReferences, Index: -1, Label: Label{Kind: LabelNoReferences}}
}

// NewProgressNode builds the placeholder shown while children are computed.
func NewProgressNode(subject string) *Node {
	return &Node{Kind: KindPlaceholder, Placeholder: PlaceholderProgress, Index: -1, Label: Label{Kind: LabelComputing, Subject: subject}}
}

// NewOutOfMemoryNode builds the warning shown when reference aggregation
// exceeded its limit.
func NewOutOfMemoryNode() *Node {
	return &Node{Kind: KindPlaceholder, Placeholder: PlaceholderOutOfMemory, Index: -1, Label: Label{Kind: LabelOutOfMemory}}
}

// IsNoFieldsNode reports whether n is the no-fields placeholder.
func IsNoFieldsNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder && n.Placeholder == PlaceholderNoFields
}

// IsNoItemsNode reports whether n is the no-items placeholder.
func IsNoItemsNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder && n.Placeholder == PlaceholderNoItems
}

// IsNoReferencesNode reports whether n is the no-references placeholder.
func IsNoReferencesNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder && n.Placeholder == PlaceholderNoReferences
}

// IsProgressNode reports whether n is the progress placeholder.
func IsProgressNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder && n.Placeholder == PlaceholderProgress
}

// IsOutOfMemoryNode reports whether n is the referer-limit warning.
func IsOutOfMemoryNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder && n.Placeholder == PlaceholderOutOfMemory
}

// IsMessageNode reports whether n is any placeholder node.
func IsMessageNode(n *Node) bool {
	return n != nil && n.Kind == KindPlaceholder
}

// RootView is the capability interface the hosting view injects into root
// nodes: refresh and repaint delegation plus lookups the view performs on
// user interaction.
type RootView interface {
	Refresh()
	Repaint()
	LookupRoot(id heap.InstanceID) (heap.GCRoot, bool)
	LookupClass(id heap.ClassID) (heap.Class, bool)
}

// RootNode is a Node bound to the hosting view.
type RootNode struct {
	Node
	view RootView
}

// RefreshView asks the hosting view to recompute itself.
func (r *RootNode) RefreshView() {
	if r.view != nil {
		r.view.Refresh()
	}
}

// RepaintView asks the hosting view to redraw.
func (r *RootNode) RepaintView() {
	if r.view != nil {
		r.view.Repaint()
	}
}

// GCRoot resolves the GC root of an instance through the hosting view.
func (r *RootNode) GCRoot(id heap.InstanceID) (heap.GCRoot, bool) {
	if r.view == nil {
		return heap.GCRoot{}, false
	}
	return r.view.LookupRoot(id)
}

// ClassByID resolves a class through the hosting view.
func (r *RootNode) ClassByID(id heap.ClassID) (heap.Class, bool) {
	if r.view == nil {
		return heap.Class{}, false
	}
	return r.view.LookupClass(id)
}
