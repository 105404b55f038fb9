package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildHeap() *MemHeap {
	h := NewMemHeap()
	h.AddClass(Class{ID: 1, Name: "app.Owner"})
	h.AddClass(Class{ID: 2, Name: "app.Child"})
	h.AddInstance(Instance{ID: 1, ClassID: 1, Kind: KindObject, Size: 32})
	h.AddInstance(Instance{ID: 2, ClassID: 2, Kind: KindObject, Size: 16})
	h.AddInstance(Instance{ID: 3, ClassID: 2, Kind: KindObject, Size: 16})
	h.SetFields(1, []FieldValue{
		{Field: Field{Name: "left", Type: "app.Child"}, Value: ObjectValue(2)},
		{Field: Field{Name: "right", Type: "app.Child"}, Value: ObjectValue(3)},
		{Field: Field{Name: "size", Type: "int"}, Value: PrimitiveValue("2")},
	})
	return h
}

func TestMemHeap_FieldsNormalized(t *testing.T) {
	h := buildHeap()

	fields := h.FieldsOf(1)
	require.Len(t, fields, 3)
	for _, fv := range fields {
		assert.Equal(t, InstanceID(1), fv.Defining)
		assert.Equal(t, -1, fv.ArrayIndex)
	}
}

func TestMemHeap_InverseEdges(t *testing.T) {
	h := buildHeap()

	refs := h.ReferencesOf(2)
	require.Len(t, refs, 1)
	assert.Equal(t, "left", refs[0].Field.Name)
	assert.Equal(t, InstanceID(1), refs[0].Defining)

	// primitive fields produce no inverse edges
	assert.Empty(t, h.ReferencesOf(1))
}

func TestMemHeap_ArrayValues(t *testing.T) {
	h := NewMemHeap()
	h.AddClass(Class{ID: 1, Name: "app.Child[]"})
	h.AddClass(Class{ID: 2, Name: "app.Child"})
	h.AddInstance(Instance{ID: 1, ClassID: 1, Kind: KindObjectArray})
	h.AddInstance(Instance{ID: 2, ClassID: 2, Kind: KindObject})
	h.SetArrayValues(1, []Value{ObjectValue(2), NullValue(), PrimitiveValue("9")})

	values := h.ArrayValuesOf(1)
	require.Len(t, values, 3)
	assert.Equal(t, ValueObject, values[0].Kind)
	assert.Equal(t, ValueNull, values[1].Kind)
	assert.Equal(t, ValuePrimitive, values[2].Kind)

	t.Run("length backfilled from elements", func(t *testing.T) {
		inst, ok := h.InstanceByID(1)
		require.True(t, ok)
		assert.Equal(t, 3, inst.Length)
	})

	t.Run("element edge carries its index", func(t *testing.T) {
		refs := h.ReferencesOf(2)
		require.Len(t, refs, 1)
		assert.Equal(t, InstanceID(1), refs[0].Defining)
		assert.Equal(t, 0, refs[0].ArrayIndex)
	})
}

func TestMemHeap_Lookups(t *testing.T) {
	h := buildHeap()

	t.Run("instance", func(t *testing.T) {
		inst, ok := h.InstanceByID(2)
		require.True(t, ok)
		assert.Equal(t, ClassID(2), inst.ClassID)

		_, ok = h.InstanceByID(99)
		assert.False(t, ok)
	})

	t.Run("class of instance", func(t *testing.T) {
		cls, ok := h.ClassOf(1)
		require.True(t, ok)
		assert.Equal(t, "app.Owner", cls.Name)

		_, ok = h.ClassOf(99)
		assert.False(t, ok)
	})

	t.Run("gc root", func(t *testing.T) {
		h.AddGCRoot(GCRoot{ObjectID: 1, Kind: RootStickyClass})
		root, ok := h.GCRootOf(1)
		require.True(t, ok)
		assert.Equal(t, RootStickyClass, root.Kind)

		_, ok = h.GCRootOf(2)
		assert.False(t, ok)
	})
}

func TestMemHeap_InstancesOrderedAndStoppable(t *testing.T) {
	h := buildHeap()

	var ids []InstanceID
	h.Instances(func(inst Instance) bool {
		ids = append(ids, inst.ID)
		return true
	})
	assert.Equal(t, []InstanceID{1, 2, 3}, ids)

	ids = ids[:0]
	h.Instances(func(inst Instance) bool {
		ids = append(ids, inst.ID)
		return len(ids) < 2
	})
	assert.Equal(t, []InstanceID{1, 2}, ids)

	assert.Equal(t, 3, h.InstanceCount())
}

func TestTypeNameOf(t *testing.T) {
	h := buildHeap()
	assert.Equal(t, "app.Owner", TypeNameOf(h, 1))
	assert.Equal(t, "(unknown)", TypeNameOf(h, 99))
}

func TestObjectValue_ZeroIsNull(t *testing.T) {
	assert.Equal(t, ValueNull, ObjectValue(0).Kind)
	assert.Equal(t, ValueObject, ObjectValue(7).Kind)
}
