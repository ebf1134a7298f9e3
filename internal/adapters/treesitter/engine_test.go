package treesitter

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/treetags/internal/domain/tags"
)

func profileFor(t *testing.T, r *Registry, path string) *LanguageProfile {
	t.Helper()
	p := r.Resolve(path)
	require.NotNil(t, p, "no profile for %s", path)
	return p
}

func capturesByName(captures []tags.Capture) map[string]tags.Capture {
	out := make(map[string]tags.Capture, len(captures))
	for _, c := range captures {
		out[c.Ident] = c
	}
	return out
}

func TestParseAndQuery_GoDefinitions(t *testing.T) {
	r := NewRegistry(Config{})
	e := NewEngine()
	defer e.Close()

	source := []byte(`package main

type Server struct {
	Addr string
}

func (s *Server) Start() error { return nil }

func main() {
	run()
}
`)
	captures, err := e.ParseAndQuery(source, profileFor(t, r, "main.go"))
	require.NoError(t, err)

	byName := capturesByName(captures)
	assert.Equal(t, "definition.struct", byName["Server"].Name)
	assert.Equal(t, "definition.method", byName["Start"].Name)
	assert.Equal(t, "definition.function", byName["main"].Name)
	assert.Equal(t, "definition.struct.field", byName["Addr"].Name)
	assert.Equal(t, "reference.call", byName["run"].Name)

	assert.Equal(t, "func main() {", byName["main"].SourceLine)
	assert.Equal(t, uint(8), byName["main"].Row)
}

func TestParseAndQuery_PreOrder(t *testing.T) {
	r := NewRegistry(Config{})
	e := NewEngine()
	defer e.Close()

	source := []byte(`package p

type Conn struct {
	fd   int
	addr string
}
`)
	captures, err := e.ParseAndQuery(source, profileFor(t, r, "conn.go"))
	require.NoError(t, err)

	assert.True(t, sort.SliceIsSorted(captures, func(i, j int) bool {
		if captures[i].StartByte != captures[j].StartByte {
			return captures[i].StartByte < captures[j].StartByte
		}
		return captures[i].EndByte > captures[j].EndByte
	}))

	// The struct's capture comes before its fields' captures, and spans them.
	require.GreaterOrEqual(t, len(captures), 3)
	assert.Equal(t, "definition.struct", captures[0].Name)
	for _, c := range captures[1:] {
		assert.GreaterOrEqual(t, c.StartByte, captures[0].StartByte)
		assert.LessOrEqual(t, c.EndByte, captures[0].EndByte)
	}
}

func TestParseAndQuery_InvalidUTF8(t *testing.T) {
	r := NewRegistry(Config{})
	e := NewEngine()
	defer e.Close()

	_, err := e.ParseAndQuery([]byte{0xff, 0xfe, 'p'}, profileFor(t, r, "x.go"))
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseAndQuery_JavaSignatureAndAccess(t *testing.T) {
	r := NewRegistry(Config{})
	e := NewEngine()
	defer e.Close()

	source := []byte(`class Calc {
    private int total;

    public int add(int a, int b) {
        return a + b;
    }
}
`)
	captures, err := e.ParseAndQuery(source, profileFor(t, r, "Calc.java"))
	require.NoError(t, err)

	byName := capturesByName(captures)
	add := byName["add"]
	assert.Equal(t, "definition.class.method", add.Name)
	assert.Equal(t, "(int a, int b)", add.Signature)
	assert.Equal(t, "public", add.Access)
	assert.Equal(t, "private", byName["total"].Access)
}

func TestParseAndQuery_MalformedSourceStillYieldsCaptures(t *testing.T) {
	r := NewRegistry(Config{})
	e := NewEngine()
	defer e.Close()

	// Broken trailing code must not hide the valid definition above it.
	source := []byte("def ok():\n    pass\n\ndef broken(\n")
	captures, err := e.ParseAndQuery(source, profileFor(t, r, "x.py"))
	require.NoError(t, err)
	assert.Equal(t, "ok", capturesByName(captures)["ok"].Ident)
}

func TestSessionExtract_CppMemberScope(t *testing.T) {
	r := NewRegistry(Config{})
	s := r.NewSession()
	defer s.Close()

	source := []byte("class Foo {\n    int bar;\n};\n")
	out, ok, err := s.Extract("foo.cpp", "foo.cpp", source)
	require.NoError(t, err)
	require.True(t, ok)

	var foo, bar *tags.Tag
	for i := range out {
		switch out[i].Name {
		case "Foo":
			foo = &out[i]
		case "bar":
			bar = &out[i]
		}
	}
	require.NotNil(t, foo)
	require.NotNil(t, bar)
	assert.Equal(t, "c", foo.Kind)
	assert.Equal(t, "m", bar.Kind)
	assert.Equal(t, "class", bar.ScopeKind)
	assert.Equal(t, "Foo", bar.ScopeName)
	assert.Equal(t, "/^    int bar;$/", bar.Address)
}

func TestSessionExtract_UnsupportedExtension(t *testing.T) {
	r := NewRegistry(Config{})
	s := r.NewSession()
	defer s.Close()

	out, ok, err := s.Extract("notes.txt", "notes.txt", []byte("hello"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, out)
}
