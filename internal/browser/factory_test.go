package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heap-browser/internal/heap"
	"github.com/heap-browser/internal/testutil"
)

func TestFactory_FieldNodes(t *testing.T) {
	h := testutil.SmallHeap()
	f := NewFactory(h, nil)
	inst, _ := h.InstanceByID(1)
	items := FieldItems(h, inst)

	t.Run("object field", func(t *testing.T) {
		n := f.NodeForItem(items[0])
		require.NotNil(t, n)
		assert.Equal(t, KindObject, n.Kind)
		assert.Equal(t, RoleField, n.Role)
		assert.Equal(t, "first", n.Name)
		assert.Equal(t, "demo.Value", n.Type)
		assert.Equal(t, heap.InstanceID(2), n.Object)
		assert.False(t, n.Leaf())
	})

	t.Run("primitive field", func(t *testing.T) {
		n := f.NodeForItem(items[2])
		require.NotNil(t, n)
		assert.Equal(t, KindPrimitive, n.Kind)
		assert.Equal(t, "count", n.Name)
		assert.Equal(t, "int", n.Type)
		assert.Equal(t, "2", n.Value)
		assert.True(t, n.Leaf())
	})

	t.Run("static field", func(t *testing.T) {
		n := f.NodeForItem(Item{
			Kind:  ItemField,
			Field: heap.Field{Name: "INSTANCE", Type: "demo.Holder", Static: true},
			Value: heap.ObjectValue(1),
			Index: -1,
		})
		require.NotNil(t, n)
		assert.True(t, n.Static)
	})

	t.Run("null field", func(t *testing.T) {
		n := f.NodeForItem(Item{
			Kind:  ItemField,
			Field: heap.Field{Name: "next", Type: "demo.Value"},
			Value: heap.NullValue(),
			Index: -1,
		})
		require.NotNil(t, n)
		assert.Equal(t, KindPrimitive, n.Kind)
		assert.Equal(t, "null", n.Value)
	})

	t.Run("dangling reference renders as null", func(t *testing.T) {
		n := f.NodeForItem(Item{
			Kind:  ItemField,
			Field: heap.Field{Name: "gone", Type: "demo.Value"},
			Value: heap.ObjectValue(999),
			Index: -1,
		})
		require.NotNil(t, n)
		assert.Equal(t, KindPrimitive, n.Kind)
		assert.Equal(t, "null", n.Value)
	})
}

func TestFactory_ReferenceNodes(t *testing.T) {
	h := testutil.SmallHeap()
	f := NewFactory(h, nil)
	inst, _ := h.InstanceByID(2)
	items := ReferenceItems(h, inst)
	require.Len(t, items, 1)

	n := f.NodeForItem(items[0])
	require.NotNil(t, n)
	assert.Equal(t, KindObject, n.Kind)
	assert.Equal(t, RoleReference, n.Role)
	assert.Equal(t, "first", n.Name)
	assert.Equal(t, "demo.Holder", n.Type)
	assert.Equal(t, heap.InstanceID(1), n.Object)

	t.Run("array element reference is named by index", func(t *testing.T) {
		ah := testutil.ArrayHeap(3)
		af := NewFactory(ah, nil)
		refs := ReferenceItems(ah, heap.Instance{ID: 3})
		require.Len(t, refs, 1)
		rn := af.NodeForItem(refs[0])
		require.NotNil(t, rn)
		assert.Equal(t, "[1]", rn.Name)
		assert.Equal(t, 1, rn.Index)
		assert.Equal(t, KindObjectArray, rn.Kind)
	})

	t.Run("unresolvable referer yields nil", func(t *testing.T) {
		n := f.NodeForItem(Item{Kind: ItemReference, Defining: 999, Index: -1})
		assert.Nil(t, n)
	})
}

func TestFactory_ArrayItemNodes(t *testing.T) {
	h := testutil.ArrayHeap(2)
	f := NewFactory(h, nil)
	inst, _ := h.InstanceByID(1)
	items := ArrayItems(h, inst)
	require.Len(t, items, 2)

	n := f.NodeForItem(items[1])
	require.NotNil(t, n)
	assert.Equal(t, KindObject, n.Kind)
	assert.Equal(t, RoleArrayItem, n.Role)
	assert.Equal(t, "[1]", n.Name)
	assert.Equal(t, 1, n.Index)
	assert.Equal(t, heap.InstanceID(3), n.Object)

	t.Run("primitive element", func(t *testing.T) {
		pn := f.NodeForItem(Item{Kind: ItemArrayItem, Value: heap.PrimitiveValue("7"), Index: 4})
		require.NotNil(t, pn)
		assert.Equal(t, KindPrimitive, pn.Kind)
		assert.Equal(t, "[4]", pn.Name)
		assert.Equal(t, "7", pn.Value)
	})
}

func TestFactory_ArrayNodesCarryLength(t *testing.T) {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: 1, Name: "byte[]"})
	h.AddInstance(heap.Instance{ID: 5, ClassID: 1, Kind: heap.KindPrimitiveArray, Length: 128})
	f := NewFactory(h, nil)

	n := f.NodeForItem(Item{
		Kind:  ItemField,
		Field: heap.Field{Name: "buf", Type: "byte[]"},
		Value: heap.ObjectValue(5),
		Index: -1,
	})
	require.NotNil(t, n)
	assert.Equal(t, KindPrimitiveArray, n.Kind)
	assert.Equal(t, 128, n.Count)
}

func TestFactory_LanguageObjects(t *testing.T) {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: 1, Name: "ruby.core.RubyString"})
	h.AddInstance(heap.Instance{ID: 3, ClassID: 1, Kind: heap.KindObject})
	lang := &heap.PrefixLanguage{LangName: "ruby", ClassPrefix: "ruby."}
	f := NewFactory(h, lang)

	n := f.NodeForItem(Item{
		Kind:  ItemField,
		Field: heap.Field{Name: "str", Type: "ruby.core.RubyString"},
		Value: heap.ObjectValue(3),
		Index: -1,
	})
	require.NotNil(t, n)
	assert.Equal(t, KindDomainObject, n.Kind)
	assert.Equal(t, "RubyString", n.Type)
}

func TestFactory_DynamicObjects(t *testing.T) {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: 1, Name: heap.DynamicObjectClass})
	h.AddClass(heap.Class{ID: 2, Name: "interop.Shape", SuperID: 1})
	h.AddInstance(heap.Instance{ID: 8, ClassID: 2, Kind: heap.KindObject})
	f := NewFactory(h, nil)

	n := f.NodeForItem(Item{
		Kind:  ItemField,
		Field: heap.Field{Name: "shape", Type: "interop.Shape"},
		Value: heap.ObjectValue(8),
		Index: -1,
	})
	require.NotNil(t, n)
	assert.Equal(t, KindDomainObject, n.Kind)
	assert.Equal(t, "Shape", n.Type)
}

func TestFactory_RootNodes(t *testing.T) {
	h := testutil.SmallHeap()
	f := NewFactory(h, nil)

	inst, _ := h.InstanceByID(1)
	root := f.RootInstanceNode(inst, "demo.Holder#1", nil)
	require.NotNil(t, root)
	assert.Equal(t, KindObject, root.Kind)
	assert.Equal(t, "demo.Holder#1", root.Name)
	assert.Equal(t, heap.InstanceID(1), root.Object)

	cls, _ := h.ClassByID(testutil.ValueClassID)
	classRoot := f.RootClassNode(cls, nil)
	require.NotNil(t, classRoot)
	assert.Equal(t, "demo.Value", classRoot.Name)
	assert.Equal(t, "class", classRoot.Type)
}

func TestFactory_MergedNodes(t *testing.T) {
	h := testutil.SmallHeap()
	f := NewFactory(h, nil)

	t.Run("merged instance field", func(t *testing.T) {
		n := f.MergedFieldNode("value", 12)
		assert.Equal(t, KindMergedField, n.Kind)
		assert.Equal(t, "value", n.Name)
		assert.False(t, n.Static)
		assert.Equal(t, 12, n.Count)
		assert.True(t, n.Leaf())
	})

	t.Run("merged static field", func(t *testing.T) {
		n := f.MergedFieldNode(StaticPrefix+"TABLE", 1)
		assert.True(t, n.Static)
	})

	t.Run("merged reference wraps the referer", func(t *testing.T) {
		referer, _ := h.InstanceByID(1)
		n := f.MergedReferenceNode(referer, 2)
		assert.Equal(t, KindMergedReference, n.Kind)
		assert.Equal(t, "demo.Holder", n.Type)
		assert.Equal(t, 2, n.Count)
		require.NotNil(t, n.Inner)
		assert.Equal(t, heap.InstanceID(1), n.Inner.Object)
		assert.True(t, n.Leaf())
	})
}
