package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeAppend_ReplacesRegeneratedFiles(t *testing.T) {
	existing := &TagFile{Tags: []Tag{
		{Name: "old", File: "changed.go", Raw: "old\tchanged.go\t1;\"\tf"},
		{Name: "kept", File: "other.go", Raw: "kept\tother.go\t2;\"\tf"},
	}}
	fresh := []Tag{{Name: "new", File: "changed.go", Address: "3", Kind: "f"}}

	out := MergeAppend(existing, []string{"changed.go"}, fresh)
	require.Len(t, out, 2)
	assert.Equal(t, "kept", out[0].Name)
	assert.Equal(t, "kept\tother.go\t2;\"\tf", out[0].Line(), "untouched entry survives byte-identically")
	assert.Equal(t, "new", out[1].Name)
}

func TestMergeAppend_Idempotent(t *testing.T) {
	fresh := []Tag{
		{Name: "a", File: "x.go", Address: "1", Kind: "f"},
		{Name: "b", File: "x.go", Address: "2", Kind: "v"},
	}
	first := MergeAppend(&TagFile{}, []string{"x.go"}, fresh)

	// Re-running the same append against the first result changes nothing.
	second := MergeAppend(&TagFile{Tags: first}, []string{"x.go"}, fresh)
	assert.Equal(t, first, second)
}

func TestMergeAppend_NoRegeneratedFilesKeepsEverything(t *testing.T) {
	existing := &TagFile{Tags: []Tag{{Name: "a", File: "a.go", Raw: "a\ta.go\t1;\""}}}
	out := MergeAppend(existing, nil, nil)
	require.Len(t, out, 1)
	assert.Equal(t, "a", out[0].Name)
}

func TestStore_AccumulatesBatches(t *testing.T) {
	s := &Store{}
	s.Add([]Tag{{Name: "a"}, {Name: "b"}})
	s.Add([]Tag{{Name: "c"}})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "c", s.Tags()[2].Name)
}
