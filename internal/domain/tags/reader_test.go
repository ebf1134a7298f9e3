package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine_MinimalTag(t *testing.T) {
	tag, ok := ParseLine("main\tmain.go\t/^func main() {$/;\"")
	require.True(t, ok)
	assert.Equal(t, "main", tag.Name)
	assert.Equal(t, "main.go", tag.File)
	assert.Equal(t, "/^func main() {$/", tag.Address)
	assert.Empty(t, tag.Kind)
}

func TestParseLine_BareKindField(t *testing.T) {
	tag, ok := ParseLine("main\tmain.go\t10;\"\tf")
	require.True(t, ok)
	assert.Equal(t, "f", tag.Kind)
	assert.Equal(t, "10", tag.Address)
}

func TestParseLine_ExplicitKindField(t *testing.T) {
	tag, ok := ParseLine("main\tmain.go\t10;\"\tkind:f\tline:10")
	require.True(t, ok)
	assert.Equal(t, "f", tag.Kind)
	assert.Equal(t, "10", tag.Field("line"))
}

func TestParseLine_ScopeAndExtensionFields(t *testing.T) {
	tag, ok := ParseLine("bar\tfoo.cpp\t/^    int bar;$/;\"\tm\tclass:Foo\tline:2\taccess:private")
	require.True(t, ok)
	assert.Equal(t, "m", tag.Kind)
	assert.Equal(t, "Foo", tag.Field("class"))
	assert.Equal(t, "2", tag.Field("line"))
	assert.Equal(t, "private", tag.Field("access"))
}

func TestParseLine_TooFewFields(t *testing.T) {
	_, ok := ParseLine("name\tfile")
	assert.False(t, ok)
	_, ok = ParseLine("just a line of text")
	assert.False(t, ok)
}

func TestParseLine_EmptyNameOrFile(t *testing.T) {
	_, ok := ParseLine("\tfile.go\t1;\"")
	assert.False(t, ok)
	_, ok = ParseLine("name\t\t1;\"")
	assert.False(t, ok)
}

func TestParseLine_PreservesRaw(t *testing.T) {
	line := "f\tx.go\t/^func f() {$/;\"\tf\tline:3"
	tag, ok := ParseLine(line)
	require.True(t, ok)
	assert.Equal(t, line, tag.Raw)
	assert.Equal(t, line, tag.Line())
}

func TestParseLine_FirstBareKindWins(t *testing.T) {
	tag, ok := ParseLine("x\tx.go\t1;\"\tf\tv")
	require.True(t, ok)
	assert.Equal(t, "f", tag.Kind)
}

func writeTagFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tags")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFile_ParsesHeaderAndTags(t *testing.T) {
	path := writeTagFile(t, "!_TAG_FILE_FORMAT\t2\t//\n"+
		"!_TAG_FILE_SORTED\t1\t/0=unsorted, 1=sorted/\n"+
		"!_TAG_PROGRAM_NAME\ttreetags\t//\n"+
		"alpha\ta.go\t/^alpha$/;\"\tf\tline:1\n"+
		"beta\tb.go\t7;\"\tv\n")

	tf, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, tf.Format)
	assert.True(t, tf.Sorted)
	require.Len(t, tf.Tags, 2)
	assert.Equal(t, "alpha", tf.Tags[0].Name)
	assert.Equal(t, "7", tf.Tags[1].Address)
}

func TestReadFile_MalformedPseudoTagFailsRead(t *testing.T) {
	path := writeTagFile(t, "!garbage header\nalpha\ta.go\t1;\"\n")

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadFile_BadSortedValueFailsRead(t *testing.T) {
	path := writeTagFile(t, "!_TAG_FILE_SORTED\tmaybe\t//\n")

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrNoHeader)
}

func TestReadFile_SkipsUnparseableRegularLines(t *testing.T) {
	path := writeTagFile(t, "!_TAG_FILE_FORMAT\t2\t//\n"+
		"not a tag line\n"+
		"alpha\ta.go\t1;\"\tf\n")

	tf, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, tf.Tags, 1)
	assert.Equal(t, "alpha", tf.Tags[0].Name)
}

func TestReadFile_MissingFile(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
