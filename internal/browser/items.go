package browser

import "github.com/heap-browser/internal/heap"

// ItemKind tags a PropertyItem variant.
type ItemKind int

const (
	// ItemField is an outbound field edge.
	ItemField ItemKind = iota
	// ItemReference is an inbound reference edge.
	ItemReference
	// ItemArrayItem is an array element.
	ItemArrayItem
)

// Item is one candidate child of a node: a field, a reference edge, or an
// array element.
type Item struct {
	Kind ItemKind
	// Field describes the edge for field and reference items.
	Field heap.Field
	// Value is the carried value.
	Value heap.Value
	// Defining is the instance owning the edge; for references it is the
	// referer. 0 means unknown.
	Defining heap.InstanceID
	// Index is the element index for array items, -1 otherwise.
	Index int
}

// FieldItems gathers the field items of an object. Never returns nil.
func FieldItems(h heap.Heap, inst heap.Instance) []Item {
	fields := h.FieldsOf(inst.ID)
	items := make([]Item, 0, len(fields))
	for _, fv := range fields {
		items = append(items, Item{
			Kind:     ItemField,
			Field:    fv.Field,
			Value:    fv.Value,
			Defining: fv.Defining,
			Index:    -1,
		})
	}
	return items
}

// ReferenceItems gathers the inbound reference items of an object. Never
// returns nil.
func ReferenceItems(h heap.Heap, inst heap.Instance) []Item {
	refs := h.ReferencesOf(inst.ID)
	items := make([]Item, 0, len(refs))
	for _, fv := range refs {
		items = append(items, Item{
			Kind:     ItemReference,
			Field:    fv.Field,
			Value:    fv.Value,
			Defining: fv.Defining,
			Index:    fv.ArrayIndex,
		})
	}
	return items
}

// ArrayItems gathers the element items of an array instance. Never returns
// nil.
func ArrayItems(h heap.Heap, inst heap.Instance) []Item {
	values := h.ArrayValuesOf(inst.ID)
	items := make([]Item, 0, len(values))
	for i, v := range values {
		items = append(items, Item{
			Kind:     ItemArrayItem,
			Value:    v,
			Defining: inst.ID,
			Index:    i,
		})
	}
	return items
}

// InclusionPolicy decides whether a collected item is displayed. Policies
// are consulted only when a provider filters its items.
type InclusionPolicy interface {
	Include(h heap.Heap, item Item) bool
}

// AcceptAll includes every item.
type AcceptAll struct{}

// Include implements InclusionPolicy.
func (AcceptAll) Include(heap.Heap, Item) bool { return true }

// InstancePredicate is the secondary predicate deciding whether a plain
// host-runtime instance is interesting enough to display.
type InstancePredicate func(h heap.Heap, inst heap.Instance) bool

// FieldPolicy is the inclusion rule for field items. Domain-significant
// values are always shown; plain host objects go through the secondary
// predicate so uninteresting runtime plumbing can be hidden.
type FieldPolicy struct {
	Language heap.Language
	// IncludeForeign decides plain host instances. Nil accepts all.
	IncludeForeign InstancePredicate
}

// Include implements InclusionPolicy.
func (p *FieldPolicy) Include(h heap.Heap, item Item) bool {
	// primitive fields are always displayed
	if item.Value.Kind == heap.ValuePrimitive {
		return true
	}
	// null fields are always displayed
	if item.Value.Kind == heap.ValueNull {
		return true
	}

	inst, ok := h.InstanceByID(item.Value.Object)
	if !ok {
		return false
	}

	// primitive arrays are always displayed
	if inst.Kind == heap.KindPrimitiveArray {
		return true
	}
	// language objects are always displayed
	if p.Language != nil && p.Language.IsLanguageObject(h, inst) {
		return true
	}
	// dynamic objects are always displayed
	if heap.IsDynamicObject(h, inst) {
		return true
	}

	if p.IncludeForeign == nil {
		return true
	}
	return p.IncludeForeign(h, inst)
}

// ReferencePolicy is the inclusion rule for reference items. A reference
// with no resolvable referer should not happen and is excluded.
type ReferencePolicy struct {
	Language heap.Language
	// IncludeForeign decides plain host referers. Nil accepts all.
	IncludeForeign InstancePredicate
}

// Include implements InclusionPolicy.
func (p *ReferencePolicy) Include(h heap.Heap, item Item) bool {
	if item.Defining == 0 {
		return false
	}
	inst, ok := h.InstanceByID(item.Defining)
	if !ok {
		return false
	}

	if p.Language != nil && p.Language.IsLanguageObject(h, inst) {
		return true
	}
	if heap.IsDynamicObject(h, inst) {
		return true
	}

	if p.IncludeForeign == nil {
		return true
	}
	return p.IncludeForeign(h, inst)
}

// FilterItems applies a policy in place, preserving order. A nil policy
// returns the input unchanged.
func FilterItems(h heap.Heap, items []Item, policy InclusionPolicy) []Item {
	if policy == nil {
		return items
	}
	kept := items[:0]
	for _, item := range items {
		if policy.Include(h, item) {
			kept = append(kept, item)
		}
	}
	return kept
}
