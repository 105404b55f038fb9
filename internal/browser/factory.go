package browser

import (
	"fmt"

	"github.com/heap-browser/internal/heap"
)

// Factory constructs typed nodes from heap values, dispatching on the
// runtime category of the referenced instance.
type Factory struct {
	heap heap.Heap
	lang heap.Language // nil when the heap carries no guest language
}

// NewFactory creates a node factory for a heap.
func NewFactory(h heap.Heap, lang heap.Language) *Factory {
	return &Factory{heap: h, lang: lang}
}

// NodeForItem builds the node for one collected item.
func (f *Factory) NodeForItem(item Item) *Node {
	switch item.Kind {
	case ItemField:
		return f.fieldNode(item)
	case ItemReference:
		return f.referenceNode(item)
	case ItemArrayItem:
		return f.arrayItemNode(item)
	default:
		return nil
	}
}

func (f *Factory) fieldNode(item Item) *Node {
	if item.Value.Kind == heap.ValuePrimitive {
		return &Node{
			Kind:   KindPrimitive,
			Role:   RoleField,
			Name:   item.Field.Name,
			Type:   item.Field.Type,
			Value:  item.Value.Primitive,
			Static: item.Field.Static,
			Index:  -1,
		}
	}
	node := f.instanceValueNode(item.Value, item.Field.Name)
	node.Role = RoleField
	node.Static = item.Field.Static
	if node.Type == "" {
		node.Type = item.Field.Type
	}
	return node
}

func (f *Factory) referenceNode(item Item) *Node {
	inst, ok := f.heap.InstanceByID(item.Defining)
	if !ok {
		return nil
	}
	name := item.Field.Name
	if item.Index >= 0 {
		name = fmt.Sprintf("[%d]", item.Index)
	}
	node := f.instanceNode(inst, name)
	node.Role = RoleReference
	node.Index = item.Index
	node.Static = item.Field.Static
	return node
}

func (f *Factory) arrayItemNode(item Item) *Node {
	name := fmt.Sprintf("[%d]", item.Index)
	if item.Value.Kind == heap.ValuePrimitive {
		return &Node{
			Kind:  KindPrimitive,
			Role:  RoleArrayItem,
			Name:  name,
			Value: item.Value.Primitive,
			Index: item.Index,
		}
	}
	node := f.instanceValueNode(item.Value, name)
	node.Role = RoleArrayItem
	node.Index = item.Index
	return node
}

// instanceValueNode builds a node for an object-or-null value.
func (f *Factory) instanceValueNode(v heap.Value, name string) *Node {
	if v.Kind == heap.ValueNull {
		return &Node{Kind: KindPrimitive, Name: name, Value: "null", Index: -1}
	}
	inst, ok := f.heap.InstanceByID(v.Object)
	if !ok {
		return &Node{Kind: KindPrimitive, Name: name, Value: "null", Index: -1}
	}
	return f.instanceNode(inst, name)
}

// instanceNode dispatches on the instance category.
func (f *Factory) instanceNode(inst heap.Instance, name string) *Node {
	node := &Node{
		Name:   name,
		Type:   heap.TypeNameOf(f.heap, inst.ID),
		Object: inst.ID,
		Index:  -1,
	}

	switch {
	case inst.Kind == heap.KindPrimitiveArray:
		node.Kind = KindPrimitiveArray
		node.Count = inst.Length
	case inst.Kind == heap.KindObjectArray:
		node.Kind = KindObjectArray
		node.Count = inst.Length
	case f.lang != nil && f.lang.IsLanguageObject(f.heap, inst):
		obj := f.lang.CreateObject(f.heap, inst)
		node.Kind = KindDomainObject
		node.Type = obj.Type
	case heap.IsDynamicObject(f.heap, inst):
		if obj, ok := heap.ToDynamicObject(f.heap, inst); ok {
			node.Kind = KindDomainObject
			node.Type = obj.Type
		} else {
			node.Kind = KindObject
		}
	default:
		node.Kind = KindObject
	}
	return node
}

// RootInstanceNode builds the root node of a view, bound to the hosting
// view's capability interface.
func (f *Factory) RootInstanceNode(inst heap.Instance, name string, view RootView) *RootNode {
	node := f.instanceNode(inst, name)
	return &RootNode{Node: *node, view: view}
}

// RootClassNode builds a class-level root node.
func (f *Factory) RootClassNode(cls heap.Class, view RootView) *RootNode {
	return &RootNode{
		Node: Node{
			Kind:  KindObject,
			Name:  cls.Name,
			Type:  "class",
			Index: -1,
		},
		view: view,
	}
}

// MergedFieldNode builds the merged node for one field name across a batch.
func (f *Factory) MergedFieldNode(name string, count int) *Node {
	return &Node{
		Kind:   KindMergedField,
		Name:   name,
		Static: len(name) > len(StaticPrefix) && name[:len(StaticPrefix)] == StaticPrefix,
		Count:  count,
		Index:  -1,
	}
}

// MergedReferenceNode wraps a referer node for a batch reference view. The
// count is the number of distinct batch objects the referer reaches.
func (f *Factory) MergedReferenceNode(referer heap.Instance, count int) *Node {
	inner := f.instanceNode(referer, heap.TypeNameOf(f.heap, referer.ID))
	return &Node{
		Kind:  KindMergedReference,
		Name:  inner.Name,
		Type:  inner.Type,
		Count: count,
		Inner: inner,
		Index: -1,
	}
}
