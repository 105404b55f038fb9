package browser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heap-browser/internal/heap"
)

func fieldItem(name string, static bool) Item {
	return Item{
		Kind:  ItemField,
		Field: heap.Field{Name: name, Type: "demo.Value", Static: static},
		Index: -1,
	}
}

func TestFieldUnion_UnionsDistinctNames(t *testing.T) {
	fields := map[heap.InstanceID][]Item{
		1: {fieldItem("a", false), fieldItem("b", false)},
		2: {fieldItem("b", false), fieldItem("c", false)},
	}
	collect := func(inst heap.Instance) []Item { return fields[inst.ID] }

	union, err := FieldUnion(context.Background(), batchOf(1, 2), collect, NewProgress())
	require.NoError(t, err)

	assert.Len(t, union, 3)
	assert.Contains(t, union, "a")
	assert.Contains(t, union, "b")
	assert.Contains(t, union, "c")
}

func TestFieldUnion_QualifiesStaticFields(t *testing.T) {
	collect := func(inst heap.Instance) []Item {
		return []Item{fieldItem("shared", false), fieldItem("shared", true)}
	}

	union, err := FieldUnion(context.Background(), batchOf(1), collect, NewProgress())
	require.NoError(t, err)

	// A static and an instance field of the same name stay distinct.
	assert.Len(t, union, 2)
	assert.Contains(t, union, "shared")
	assert.Contains(t, union, "static shared")
}

func TestFieldUnion_IgnoresNonFieldItems(t *testing.T) {
	collect := func(inst heap.Instance) []Item {
		return []Item{fieldItem("a", false), refItem(10, "b")}
	}

	union, err := FieldUnion(context.Background(), batchOf(1), collect, NewProgress())
	require.NoError(t, err)

	assert.Len(t, union, 1)
	assert.Contains(t, union, "a")
}

func TestFieldUnion_OrderIndependent(t *testing.T) {
	fields := map[heap.InstanceID][]Item{
		1: {fieldItem("x", false)},
		2: {fieldItem("y", true)},
		3: {fieldItem("z", false), fieldItem("x", false)},
	}
	collect := func(inst heap.Instance) []Item { return fields[inst.ID] }

	forward, err := FieldUnion(context.Background(), batchOf(1, 2, 3), collect, NewProgress())
	require.NoError(t, err)
	backward, err := FieldUnion(context.Background(), batchOf(3, 1, 2), collect, NewProgress())
	require.NoError(t, err)

	assert.Equal(t, forward, backward)
}

func TestFieldUnion_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	progress := NewProgress()
	union, err := FieldUnion(ctx, batchOf(1), func(heap.Instance) []Item { return nil }, progress)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, union)
	assert.True(t, progress.Finished())
}

func TestFieldUnion_EmptyBatch(t *testing.T) {
	union, err := FieldUnion(context.Background(), nil, func(heap.Instance) []Item { return nil }, NewProgress())
	require.NoError(t, err)
	assert.Empty(t, union)
}
