package testutil

import (
	"fmt"

	"github.com/heap-browser/internal/heap"
)

// Class IDs used by the built heaps.
const (
	HolderClassID heap.ClassID = 1
	ValueClassID  heap.ClassID = 2
	ArrayClassID  heap.ClassID = 3
)

// SmallHeap builds a heap with one holder object (id 1) referencing two
// value objects (ids 2, 3) plus a primitive field. The value objects each
// gain one inbound reference from the holder.
func SmallHeap() *heap.MemHeap {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: HolderClassID, Name: "demo.Holder"})
	h.AddClass(heap.Class{ID: ValueClassID, Name: "demo.Value"})

	h.AddInstance(heap.Instance{ID: 1, ClassID: HolderClassID, Kind: heap.KindObject, Size: 48})
	h.AddInstance(heap.Instance{ID: 2, ClassID: ValueClassID, Kind: heap.KindObject, Size: 16})
	h.AddInstance(heap.Instance{ID: 3, ClassID: ValueClassID, Kind: heap.KindObject, Size: 16})

	h.SetFields(1, []heap.FieldValue{
		{Field: heap.Field{Name: "first", Type: "demo.Value"}, Value: heap.ObjectValue(2)},
		{Field: heap.Field{Name: "second", Type: "demo.Value"}, Value: heap.ObjectValue(3)},
		{Field: heap.Field{Name: "count", Type: "int"}, Value: heap.PrimitiveValue("2")},
	})
	return h
}

// WideObjectHeap builds a heap whose object (id 1) has fieldCount object
// fields, each referencing a distinct value object with ids starting at 2.
func WideObjectHeap(fieldCount int) *heap.MemHeap {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: HolderClassID, Name: "demo.Wide"})
	h.AddClass(heap.Class{ID: ValueClassID, Name: "demo.Value"})
	h.AddInstance(heap.Instance{ID: 1, ClassID: HolderClassID, Kind: heap.KindObject, Size: 1024})

	fields := make([]heap.FieldValue, 0, fieldCount)
	for i := 0; i < fieldCount; i++ {
		id := heap.InstanceID(i + 2)
		h.AddInstance(heap.Instance{ID: id, ClassID: ValueClassID, Kind: heap.KindObject, Size: 16})
		fields = append(fields, heap.FieldValue{
			Field: heap.Field{Name: fmt.Sprintf("field%d", i), Type: "demo.Value"},
			Value: heap.ObjectValue(id),
		})
	}
	h.SetFields(1, fields)
	return h
}

// ArrayHeap builds a heap with one object array (id 1) of length elements,
// each element referencing a distinct value object with ids starting at 2.
func ArrayHeap(length int) *heap.MemHeap {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: ArrayClassID, Name: "demo.Value[]"})
	h.AddClass(heap.Class{ID: ValueClassID, Name: "demo.Value"})
	h.AddInstance(heap.Instance{ID: 1, ClassID: ArrayClassID, Kind: heap.KindObjectArray, Size: int64(16 * length), Length: length})

	values := make([]heap.Value, 0, length)
	for i := 0; i < length; i++ {
		id := heap.InstanceID(i + 2)
		h.AddInstance(heap.Instance{ID: id, ClassID: ValueClassID, Kind: heap.KindObject, Size: 16})
		values = append(values, heap.ObjectValue(id))
	}
	h.SetArrayValues(1, values)
	return h
}

// SharedRefHeap builds a heap where one referer (id 100) references every
// target object (ids 1..targets) through a field each, so merged reference
// views collapse to a single referer.
func SharedRefHeap(targets int) *heap.MemHeap {
	h := heap.NewMemHeap()
	h.AddClass(heap.Class{ID: HolderClassID, Name: "demo.Registry"})
	h.AddClass(heap.Class{ID: ValueClassID, Name: "demo.Value"})
	h.AddInstance(heap.Instance{ID: 100, ClassID: HolderClassID, Kind: heap.KindObject, Size: 64})

	fields := make([]heap.FieldValue, 0, targets)
	for i := 0; i < targets; i++ {
		id := heap.InstanceID(i + 1)
		h.AddInstance(heap.Instance{ID: id, ClassID: ValueClassID, Kind: heap.KindObject, Size: 16})
		fields = append(fields, heap.FieldValue{
			Field: heap.Field{Name: fmt.Sprintf("entry%d", i), Type: "demo.Value"},
			Value: heap.ObjectValue(id),
		})
	}
	h.SetFields(100, fields)
	return h
}
