package tags

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternAddress_PlainLine(t *testing.T) {
	assert.Equal(t, `/^func main() {$/`, PatternAddress("func main() {"))
}

func TestPatternAddress_EscapesDelimiterAndBackslash(t *testing.T) {
	assert.Equal(t, `/^a\/b$/`, PatternAddress("a/b"))
	assert.Equal(t, `/^a\\b$/`, PatternAddress(`a\b`))
	assert.Equal(t, `/^\\\/$/`, PatternAddress(`\/`))
}

func TestPatternAddress_StripsTrailingCR(t *testing.T) {
	assert.Equal(t, `/^int x;$/`, PatternAddress("int x;\r"))
}

func TestPatternAddress_RoundTrip(t *testing.T) {
	lines := []string{
		"def f(x): return x / 2",
		`path = "C:\\Users\\x"`,
		"// comment with / slash and \\ backslash",
	}
	for _, line := range lines {
		addr := PatternAddress(line)
		body := strings.TrimSuffix(strings.TrimPrefix(addr, "/^"), "$/")
		assert.Equal(t, line, UnescapePattern(body), "round trip of %q", line)
	}
}

func TestPatternAddress_TruncatesLongLines(t *testing.T) {
	long := strings.Repeat("a", 200)
	addr := PatternAddress(long)

	// Truncated patterns lose the $ anchor but keep the delimiter.
	assert.True(t, strings.HasPrefix(addr, "/^"))
	assert.True(t, strings.HasSuffix(addr, "/"))
	assert.False(t, strings.HasSuffix(addr, "$/"))
	assert.Equal(t, "/^"+strings.Repeat("a", MaxPatternLength)+"/", addr)
}

func TestPatternAddress_TruncationCountsEscapedWidth(t *testing.T) {
	// 95 plain bytes, then a slash: the slash escapes to two bytes, which
	// would overflow the budget, so it is dropped entirely.
	line := strings.Repeat("a", MaxPatternLength-1) + "/"
	addr := PatternAddress(line)
	assert.Equal(t, "/^"+strings.Repeat("a", MaxPatternLength-1)+"/", addr)
}

func TestPatternAddress_ExactBudgetKeepsAnchor(t *testing.T) {
	line := strings.Repeat("b", MaxPatternLength)
	assert.Equal(t, "/^"+line+"$/", PatternAddress(line))
}

func TestWriter_SortsByNameThenFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "tags")

	ts := []Tag{
		{Name: "zeta", File: "a.go", Address: "/^zeta$/", Kind: "f"},
		{Name: "alpha", File: "b.go", Address: "/^alpha$/", Kind: "f"},
		{Name: "alpha", File: "a.go", Address: "/^alpha$/", Kind: "f"},
	}
	w := &Writer{Sorted: true, Program: "treetags", Version: "0.0.0"}
	require.NoError(t, w.Write(dest, ts))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")

	require.Len(t, lines, 7)
	assert.Equal(t, "!_TAG_FILE_FORMAT\t2\t/extended format; --format=1 will not append ;\" to lines/", lines[0])
	assert.Contains(t, lines[1], "!_TAG_FILE_SORTED\t1")
	assert.True(t, strings.HasPrefix(lines[4], "alpha\ta.go\t"))
	assert.True(t, strings.HasPrefix(lines[5], "alpha\tb.go\t"))
	assert.True(t, strings.HasPrefix(lines[6], "zeta\ta.go\t"))
}

func TestWriter_UnsortedPreservesOrderAndHeader(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "tags")

	ts := []Tag{
		{Name: "b", File: "x.go", Address: "1", Kind: "f"},
		{Name: "a", File: "x.go", Address: "2", Kind: "f"},
	}
	w := &Writer{Sorted: false}
	require.NoError(t, w.Write(dest, ts))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "!_TAG_FILE_SORTED\t0")
	assert.Less(t, strings.Index(content, "\nb\t"), strings.Index(content, "\na\t"))
}

func TestWriter_ReplacesExistingFileAtomically(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "tags")
	require.NoError(t, os.WriteFile(dest, []byte("stale content\n"), 0o644))

	w := &Writer{Sorted: true}
	require.NoError(t, w.Write(dest, []Tag{{Name: "x", File: "a.go", Address: "1", Kind: "v"}}))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
	assert.Contains(t, string(data), "x\ta.go\t1;\"\tv")

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "tags", entries[0].Name())
}

func TestTagLine_FullRecord(t *testing.T) {
	tag := Tag{
		Name:      "bar",
		File:      "foo.cpp",
		Address:   "/^    int bar;$/",
		Kind:      "m",
		ScopeKind: "class",
		ScopeName: "Foo",
		Fields:    []Field{{Key: "line", Value: "2"}, {Key: "access", Value: "private"}},
	}
	assert.Equal(t, "bar\tfoo.cpp\t/^    int bar;$/;\"\tm\tclass:Foo\tline:2\taccess:private", tag.Line())
}

func TestTagLine_RawWinsVerbatim(t *testing.T) {
	raw := "kept\told.go\t/^kept$/;\"\tf\tline:9"
	tag := Tag{Name: "kept", File: "changed.go", Raw: raw}
	assert.Equal(t, raw, tag.Line())
}

func TestTagLess_ByteWiseOrdering(t *testing.T) {
	// Byte-wise ordering puts uppercase before lowercase.
	a := Tag{Name: "Zebra", File: "a.go"}
	b := Tag{Name: "apple", File: "a.go"}
	assert.True(t, a.Less(&b))
	assert.False(t, b.Less(&a))

	// Same name: file breaks the tie.
	c := Tag{Name: "x", File: "a.go", Address: "1"}
	d := Tag{Name: "x", File: "b.go", Address: "1"}
	assert.True(t, c.Less(&d))
}
