package heap

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// The JSON snapshot format is a flat description of classes, instances and
// their fields. It exists so the browser can be exercised without a real
// heap-index backend; production deployments plug in their own Heap.

type jsonSnapshot struct {
	Classes   []jsonClass    `json:"classes"`
	Instances []jsonInstance `json:"instances"`
	Roots     []jsonRoot     `json:"roots"`
}

type jsonClass struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Super uint64 `json:"super,omitempty"`
}

type jsonInstance struct {
	ID       uint64      `json:"id"`
	Class    uint64      `json:"class"`
	Kind     string      `json:"kind,omitempty"` // "object" (default), "object-array", "primitive-array"
	Size     int64       `json:"size,omitempty"`
	Fields   []jsonField `json:"fields,omitempty"`
	Elements []jsonValue `json:"elements,omitempty"`
}

type jsonField struct {
	Name   string    `json:"name"`
	Type   string    `json:"type,omitempty"`
	Static bool      `json:"static,omitempty"`
	Value  jsonValue `json:"value"`
}

type jsonValue struct {
	Ref  uint64 `json:"ref,omitempty"`
	Prim string `json:"prim,omitempty"`
	Null bool   `json:"null,omitempty"`
}

type jsonRoot struct {
	ID   uint64 `json:"id"`
	Kind string `json:"kind,omitempty"`
}

func (v jsonValue) value() Value {
	switch {
	case v.Null:
		return NullValue()
	case v.Ref != 0:
		return ObjectValue(InstanceID(v.Ref))
	default:
		return PrimitiveValue(v.Prim)
	}
}

// ReadSnapshot builds a MemHeap from a JSON snapshot stream.
func ReadSnapshot(r io.Reader) (*MemHeap, error) {
	var snap jsonSnapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	h := NewMemHeap()
	for _, cls := range snap.Classes {
		if cls.ID == 0 {
			return nil, fmt.Errorf("class %q has no id", cls.Name)
		}
		h.AddClass(Class{ID: ClassID(cls.ID), Name: cls.Name, SuperID: ClassID(cls.Super)})
	}

	for _, in := range snap.Instances {
		if in.ID == 0 {
			return nil, fmt.Errorf("instance with class %d has no id", in.Class)
		}
		kind := KindObject
		switch in.Kind {
		case "", "object":
		case "object-array":
			kind = KindObjectArray
		case "primitive-array":
			kind = KindPrimitiveArray
		default:
			return nil, fmt.Errorf("instance %d has unknown kind %q", in.ID, in.Kind)
		}
		h.AddInstance(Instance{
			ID:      InstanceID(in.ID),
			ClassID: ClassID(in.Class),
			Kind:    kind,
			Size:    in.Size,
			Length:  len(in.Elements),
		})
	}

	// Fields and elements are wired after all instances exist so inverse
	// edges can be recorded for forward references.
	for _, in := range snap.Instances {
		if len(in.Fields) > 0 {
			fields := make([]FieldValue, 0, len(in.Fields))
			for _, f := range in.Fields {
				fields = append(fields, FieldValue{
					Field: Field{Name: f.Name, Type: f.Type, Static: f.Static},
					Value: f.Value.value(),
				})
			}
			h.SetFields(InstanceID(in.ID), fields)
		}
		if len(in.Elements) > 0 {
			values := make([]Value, 0, len(in.Elements))
			for _, e := range in.Elements {
				values = append(values, e.value())
			}
			h.SetArrayValues(InstanceID(in.ID), values)
		}
	}

	for _, root := range snap.Roots {
		kind := GCRootKind(root.Kind)
		if kind == "" {
			kind = RootUnknown
		}
		h.AddGCRoot(GCRoot{ObjectID: InstanceID(root.ID), Kind: kind})
	}

	return h, nil
}

// LoadSnapshot reads a JSON snapshot file.
func LoadSnapshot(path string) (*MemHeap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
