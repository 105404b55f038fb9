package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heap-browser/internal/heap"
)

func TestPlaceholderNodes(t *testing.T) {
	cases := []struct {
		name  string
		node  *Node
		match func(*Node) bool
		label LabelKind
	}{
		{"no fields", NewNoFieldsNode(), IsNoFieldsNode, LabelNoFields},
		{"no items", NewNoItemsNode(), IsNoItemsNode, LabelNoItems},
		{"no references", NewNoReferencesNode(), IsNoReferencesNode, LabelNoReferences},
		{"progress", NewProgressNode("fields"), IsProgressNode, LabelComputing},
		{"out of memory", NewOutOfMemoryNode(), IsOutOfMemoryNode, LabelOutOfMemory},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NotNil(t, tc.node)
			assert.Equal(t, KindPlaceholder, tc.node.Kind)
			assert.True(t, tc.match(tc.node))
			assert.True(t, IsMessageNode(tc.node))
			assert.True(t, tc.node.Leaf())
			assert.Equal(t, 0, tc.node.RepresentedCount())
			assert.Equal(t, tc.label, tc.node.Label.Kind)

			// each predicate matches only its own placeholder
			for _, other := range cases {
				if other.name == tc.name {
					continue
				}
				assert.False(t, other.match(tc.node), "matched %s", other.name)
			}
		})
	}
}

func TestPlaceholderPredicates_NilSafe(t *testing.T) {
	assert.False(t, IsNoFieldsNode(nil))
	assert.False(t, IsNoItemsNode(nil))
	assert.False(t, IsNoReferencesNode(nil))
	assert.False(t, IsProgressNode(nil))
	assert.False(t, IsOutOfMemoryNode(nil))
	assert.False(t, IsMessageNode(nil))
}

func TestNodeLeaf(t *testing.T) {
	leaves := []Kind{KindPrimitive, KindMergedField, KindMergedReference, KindPlaceholder, KindMoreItems}
	for _, k := range leaves {
		assert.True(t, (&Node{Kind: k}).Leaf(), "kind %d", k)
	}
	branches := []Kind{KindObject, KindObjectArray, KindPrimitiveArray, KindDomainObject, KindContainer}
	for _, k := range branches {
		assert.False(t, (&Node{Kind: k}).Leaf(), "kind %d", k)
	}
}

func TestNodeRepresentedCount(t *testing.T) {
	assert.Equal(t, 25, (&Node{Kind: KindContainer, Count: 25}).RepresentedCount())
	assert.Equal(t, 990, (&Node{Kind: KindMoreItems, Count: 990}).RepresentedCount())
	assert.Equal(t, 1, (&Node{Kind: KindObject}).RepresentedCount())
	assert.Equal(t, 1, (&Node{Kind: KindPrimitive}).RepresentedCount())
}

type recordingView struct {
	refreshed int
	repainted int
	roots     map[heap.InstanceID]heap.GCRoot
	classes   map[heap.ClassID]heap.Class
}

func (v *recordingView) Refresh() { v.refreshed++ }
func (v *recordingView) Repaint() { v.repainted++ }

func (v *recordingView) LookupRoot(id heap.InstanceID) (heap.GCRoot, bool) {
	root, ok := v.roots[id]
	return root, ok
}

func (v *recordingView) LookupClass(id heap.ClassID) (heap.Class, bool) {
	cls, ok := v.classes[id]
	return cls, ok
}

func TestRootNode_ViewDelegation(t *testing.T) {
	view := &recordingView{
		roots:   map[heap.InstanceID]heap.GCRoot{4: {ObjectID: 4, Kind: heap.RootThreadObject}},
		classes: map[heap.ClassID]heap.Class{2: {ID: 2, Name: "demo.Value"}},
	}
	root := &RootNode{Node: Node{Kind: KindObject, Object: 4}, view: view}

	root.RefreshView()
	root.RepaintView()
	assert.Equal(t, 1, view.refreshed)
	assert.Equal(t, 1, view.repainted)

	gc, ok := root.GCRoot(4)
	require.True(t, ok)
	assert.Equal(t, heap.RootThreadObject, gc.Kind)
	_, ok = root.GCRoot(5)
	assert.False(t, ok)

	cls, ok := root.ClassByID(2)
	require.True(t, ok)
	assert.Equal(t, "demo.Value", cls.Name)
}

func TestRootNode_NilView(t *testing.T) {
	root := &RootNode{Node: Node{Kind: KindObject}}
	root.RefreshView()
	root.RepaintView()
	_, ok := root.GCRoot(1)
	assert.False(t, ok)
	_, ok = root.ClassByID(1)
	assert.False(t, ok)
}
