package heap

import "sort"

// MemHeap is an in-memory Heap implementation backed by plain maps. It is
// used by tests, the CLI snapshot loader, and the web UI demo. Inbound
// reference edges are derived automatically from registered fields and array
// elements, so ReferencesOf never has to scan the whole heap.
//
// MemHeap is mutable during construction and must not be modified once
// queries start; after that point it is safe for concurrent readers.
type MemHeap struct {
	classes   map[ClassID]Class
	instances map[InstanceID]Instance
	fields    map[InstanceID][]FieldValue
	elements  map[InstanceID][]Value
	incoming  map[InstanceID][]FieldValue
	gcRoots   map[InstanceID]GCRoot
}

// NewMemHeap creates an empty MemHeap.
func NewMemHeap() *MemHeap {
	return &MemHeap{
		classes:   make(map[ClassID]Class),
		instances: make(map[InstanceID]Instance),
		fields:    make(map[InstanceID][]FieldValue),
		elements:  make(map[InstanceID][]Value),
		incoming:  make(map[InstanceID][]FieldValue),
		gcRoots:   make(map[InstanceID]GCRoot),
	}
}

// AddClass registers a class.
func (m *MemHeap) AddClass(cls Class) {
	m.classes[cls.ID] = cls
}

// AddInstance registers an instance handle.
func (m *MemHeap) AddInstance(inst Instance) {
	m.instances[inst.ID] = inst
}

// SetFields registers the fields of an object and records the inverse edge
// for every object-valued field.
func (m *MemHeap) SetFields(id InstanceID, fields []FieldValue) {
	for i := range fields {
		fields[i].Defining = id
		fields[i].ArrayIndex = -1
		if fields[i].Value.Kind == ValueObject {
			m.incoming[fields[i].Value.Object] = append(m.incoming[fields[i].Value.Object], fields[i])
		}
	}
	m.fields[id] = fields
}

// SetArrayValues registers the element values of an array instance and
// records the inverse edge for every object element.
func (m *MemHeap) SetArrayValues(id InstanceID, values []Value) {
	m.elements[id] = values
	for i, v := range values {
		if v.Kind != ValueObject {
			continue
		}
		edge := FieldValue{
			Value:      v,
			Defining:   id,
			ArrayIndex: i,
		}
		m.incoming[v.Object] = append(m.incoming[v.Object], edge)
	}
	if inst, ok := m.instances[id]; ok && inst.Length == 0 {
		inst.Length = len(values)
		m.instances[id] = inst
	}
}

// AddGCRoot marks an instance as a GC root.
func (m *MemHeap) AddGCRoot(root GCRoot) {
	m.gcRoots[root.ObjectID] = root
}

// FieldsOf implements Heap.
func (m *MemHeap) FieldsOf(id InstanceID) []FieldValue {
	return m.fields[id]
}

// ReferencesOf implements Heap.
func (m *MemHeap) ReferencesOf(id InstanceID) []FieldValue {
	return m.incoming[id]
}

// ArrayValuesOf implements Heap.
func (m *MemHeap) ArrayValuesOf(id InstanceID) []Value {
	return m.elements[id]
}

// InstanceByID implements Heap.
func (m *MemHeap) InstanceByID(id InstanceID) (Instance, bool) {
	inst, ok := m.instances[id]
	return inst, ok
}

// ClassByID implements Heap.
func (m *MemHeap) ClassByID(id ClassID) (Class, bool) {
	cls, ok := m.classes[id]
	return cls, ok
}

// ClassOf implements Heap.
func (m *MemHeap) ClassOf(id InstanceID) (Class, bool) {
	inst, ok := m.instances[id]
	if !ok {
		return Class{}, false
	}
	cls, ok := m.classes[inst.ClassID]
	return cls, ok
}

// GCRootOf implements Heap.
func (m *MemHeap) GCRootOf(id InstanceID) (GCRoot, bool) {
	root, ok := m.gcRoots[id]
	return root, ok
}

// Instances implements Heap. Iteration order is by ascending instance id so
// repeated walks are deterministic.
func (m *MemHeap) Instances(fn func(Instance) bool) {
	ids := make([]InstanceID, 0, len(m.instances))
	for id := range m.instances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		if !fn(m.instances[id]) {
			return
		}
	}
}

// InstanceCount returns the number of registered instances.
func (m *MemHeap) InstanceCount() int {
	return len(m.instances)
}
