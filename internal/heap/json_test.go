package heap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSnapshot = `{
  "classes": [
    {"id": 1, "name": "app.Owner"},
    {"id": 2, "name": "app.Child"},
    {"id": 3, "name": "app.Child[]"}
  ],
  "instances": [
    {"id": 1, "class": 1, "size": 48, "fields": [
      {"name": "child", "type": "app.Child", "value": {"ref": 2}},
      {"name": "missing", "type": "app.Child", "value": {"null": true}},
      {"name": "count", "type": "int", "value": {"prim": "1"}},
      {"name": "SHARED", "type": "app.Child", "static": true, "value": {"ref": 2}}
    ]},
    {"id": 2, "class": 2, "size": 16},
    {"id": 3, "class": 3, "kind": "object-array", "elements": [{"ref": 2}, {"null": true}]}
  ],
  "roots": [
    {"id": 1, "kind": "thread object"},
    {"id": 3}
  ]
}`

func TestReadSnapshot(t *testing.T) {
	h, err := ReadSnapshot(strings.NewReader(sampleSnapshot))
	require.NoError(t, err)

	t.Run("classes", func(t *testing.T) {
		cls, ok := h.ClassByID(1)
		require.True(t, ok)
		assert.Equal(t, "app.Owner", cls.Name)
	})

	t.Run("fields", func(t *testing.T) {
		fields := h.FieldsOf(1)
		require.Len(t, fields, 4)
		assert.Equal(t, ValueObject, fields[0].Value.Kind)
		assert.Equal(t, ValueNull, fields[1].Value.Kind)
		assert.Equal(t, "1", fields[2].Value.Primitive)
		assert.True(t, fields[3].Field.Static)
	})

	t.Run("inverse edges wired across instances", func(t *testing.T) {
		refs := h.ReferencesOf(2)
		// field, static field, and one array element
		require.Len(t, refs, 3)
	})

	t.Run("array", func(t *testing.T) {
		inst, ok := h.InstanceByID(3)
		require.True(t, ok)
		assert.Equal(t, KindObjectArray, inst.Kind)
		assert.Equal(t, 2, inst.Length)
	})

	t.Run("roots", func(t *testing.T) {
		root, ok := h.GCRootOf(1)
		require.True(t, ok)
		assert.Equal(t, RootThreadObject, root.Kind)

		root, ok = h.GCRootOf(3)
		require.True(t, ok)
		assert.Equal(t, RootUnknown, root.Kind)
	})
}

func TestReadSnapshot_Invalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"classes": [`},
		{"class without id", `{"classes": [{"name": "app.X"}]}`},
		{"instance without id", `{"instances": [{"class": 1}]}`},
		{"unknown kind", `{"instances": [{"id": 1, "class": 1, "kind": "weird"}]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadSnapshot(strings.NewReader(tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleSnapshot), 0o644))

	h, err := LoadSnapshot(path)
	require.NoError(t, err)
	assert.Equal(t, 3, h.InstanceCount())

	_, err = LoadSnapshot(filepath.Join(dir, "absent.json"))
	assert.Error(t, err)
}
