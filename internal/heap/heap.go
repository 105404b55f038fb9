// Package heap defines the query façade over an already-loaded heap snapshot.
// The browser core only depends on the Heap interface; ownership of all
// object data stays on the implementation side.
package heap

// InstanceID identifies a heap object. 0 is never a valid instance.
type InstanceID uint64

// ClassID identifies a class. 0 is never a valid class.
type ClassID uint64

// InstanceKind categorizes a heap instance.
type InstanceKind int

const (
	// KindObject is a plain object instance.
	KindObject InstanceKind = iota
	// KindObjectArray is an array of object references.
	KindObjectArray
	// KindPrimitiveArray is an array of primitive values.
	KindPrimitiveArray
)

// String returns the string representation of InstanceKind.
func (k InstanceKind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindObjectArray:
		return "object[]"
	case KindPrimitiveArray:
		return "primitive[]"
	default:
		return "unknown"
	}
}

// Class holds class metadata.
type Class struct {
	ID      ClassID
	Name    string
	SuperID ClassID // 0 for root classes
}

// Instance is a handle into the heap graph.
type Instance struct {
	ID      InstanceID
	ClassID ClassID
	Kind    InstanceKind
	Size    int64
	Length  int // element count for arrays, 0 otherwise
}

// ValueKind tags the variant carried by a Value.
type ValueKind int

const (
	// ValueNull is a null object reference.
	ValueNull ValueKind = iota
	// ValuePrimitive is a primitive value rendered as a string.
	ValuePrimitive
	// ValueObject is a reference to another instance.
	ValueObject
)

// Value is a primitive value or an object reference.
type Value struct {
	Kind      ValueKind
	Primitive string     // set for ValuePrimitive
	Object    InstanceID // set for ValueObject
}

// PrimitiveValue builds a primitive Value.
func PrimitiveValue(v string) Value {
	return Value{Kind: ValuePrimitive, Primitive: v}
}

// ObjectValue builds an object-reference Value.
func ObjectValue(id InstanceID) Value {
	if id == 0 {
		return Value{Kind: ValueNull}
	}
	return Value{Kind: ValueObject, Object: id}
}

// NullValue builds a null Value.
func NullValue() Value {
	return Value{Kind: ValueNull}
}

// Field describes a declared field.
type Field struct {
	Name   string
	Type   string
	Static bool
}

// FieldValue is one field or reference edge. For outbound field edges
// Defining is the owning instance; for inbound reference edges Defining is
// the referer. ArrayIndex is >= 0 when the edge is an array element, -1
// otherwise.
type FieldValue struct {
	Field      Field
	Value      Value
	Defining   InstanceID
	ArrayIndex int
}

// GCRootKind categorizes a GC root.
type GCRootKind string

const (
	RootJNIGlobal    GCRootKind = "JNI global"
	RootJNILocal     GCRootKind = "JNI local"
	RootJavaFrame    GCRootKind = "Java frame"
	RootStickyClass  GCRootKind = "sticky class"
	RootThreadObject GCRootKind = "thread object"
	RootMonitorUsed  GCRootKind = "monitor used"
	RootUnknown      GCRootKind = "unknown"
)

// GCRoot marks an instance as a garbage-collection root.
type GCRoot struct {
	ObjectID InstanceID
	Kind     GCRootKind
}

// Heap is the read-only query façade the browser core traverses. All methods
// are safe for concurrent readers.
type Heap interface {
	// FieldsOf returns the instance and static fields of an object,
	// including primitive fields. Never returns nil for a known object.
	FieldsOf(id InstanceID) []FieldValue
	// ReferencesOf returns the inbound reference edges of an object. The
	// Defining instance of each edge is the referer.
	ReferencesOf(id InstanceID) []FieldValue
	// ArrayValuesOf returns the element values of an array instance in
	// index order. Returns nil for non-array instances.
	ArrayValuesOf(id InstanceID) []Value
	// InstanceByID resolves an instance handle.
	InstanceByID(id InstanceID) (Instance, bool)
	// ClassByID resolves class metadata.
	ClassByID(id ClassID) (Class, bool)
	// ClassOf resolves the class of an instance.
	ClassOf(id InstanceID) (Class, bool)
	// GCRootOf reports whether an instance is a GC root.
	GCRootOf(id InstanceID) (GCRoot, bool)
	// Instances iterates all instances in unspecified order. The walk
	// stops when fn returns false.
	Instances(fn func(Instance) bool)
}

// TypeNameOf returns the class name of an instance, or "(unknown)" when the
// class cannot be resolved.
func TypeNameOf(h Heap, id InstanceID) string {
	cls, ok := h.ClassOf(id)
	if !ok {
		return "(unknown)"
	}
	return cls.Name
}
