package tags

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MaxPatternLength bounds the escaped body of a search-pattern address.
// Longer source lines are cut at this many bytes and lose the trailing $
// anchor, so the pattern still forward-matches the line prefix.
const MaxPatternLength = 96

// PatternAddress converts a source line into an anchored, escaped search
// pattern of the form /^line$/. Backslash and the pattern delimiter are
// escaped so a conforming reader un-escapes back to the original line.
func PatternAddress(line string) string {
	// A pattern must stay on one line regardless of the source bytes.
	line = strings.TrimRight(line, "\r\n")

	var b strings.Builder
	b.Grow(len(line) + 8)
	b.WriteString("/^")

	truncated := false
	n := 0
	for i := 0; i < len(line); i++ {
		ch := line[i]
		esc := ch == '\\' || ch == '/'
		w := 1
		if esc {
			w = 2
		}
		if n+w > MaxPatternLength {
			truncated = true
			break
		}
		if esc {
			b.WriteByte('\\')
		}
		b.WriteByte(ch)
		n += w
	}

	if truncated {
		b.WriteByte('/')
	} else {
		b.WriteString("$/")
	}
	return b.String()
}

// UnescapePattern reverses PatternAddress escaping on a pattern body. Used by
// tests and by consumers that want the literal source line back.
func UnescapePattern(body string) string {
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			i++
			b.WriteByte(body[i])
			continue
		}
		b.WriteByte(body[i])
	}
	return b.String()
}

// Writer serializes a tag set to the on-disk format.
type Writer struct {
	// Sorted selects (name, file) byte-wise ordering; when false the input
	// order is preserved and the header declares the file unsorted.
	Sorted bool

	// Program and Version fill the program pseudo-tags.
	Program string
	Version string
}

// Write emits the tag file to dest. "-" writes to stdout. For real paths the
// content is fully materialized in a temp file first and moved into place
// with a rename, so a crash mid-write never leaves a half-written tag file
// where a valid one used to be.
func (w *Writer) Write(dest string, ts []Tag) error {
	if dest == "-" {
		return w.emit(os.Stdout, ts)
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, filepath.Base(dest)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp tag file: %w", err)
	}
	tmpName := tmp.Name()

	if err := w.emit(tmp, ts); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp tag file: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace tag file: %w", err)
	}
	return nil
}

func (w *Writer) emit(out io.Writer, ts []Tag) error {
	if w.Sorted {
		sort.SliceStable(ts, func(i, j int) bool { return ts[i].Less(&ts[j]) })
	}

	bw := bufio.NewWriter(out)
	for _, line := range w.header() {
		bw.WriteString(line)
		bw.WriteByte('\n')
	}
	for i := range ts {
		bw.WriteString(ts[i].Line())
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}

// header builds the pseudo-tag lines. The leading ! sorts them before every
// regular tag, so emitting them first keeps the whole file ordered.
func (w *Writer) header() []string {
	sorted := 0
	if w.Sorted {
		sorted = 1
	}
	program := w.Program
	if program == "" {
		program = "treetags"
	}
	lines := []string{
		"!_TAG_FILE_FORMAT\t2\t/extended format; --format=1 will not append ;\" to lines/",
		fmt.Sprintf("!_TAG_FILE_SORTED\t%d\t/0=unsorted, 1=sorted/", sorted),
		fmt.Sprintf("!_TAG_PROGRAM_NAME\t%s\t//", program),
	}
	if w.Version != "" {
		lines = append(lines, fmt.Sprintf("!_TAG_PROGRAM_VERSION\t%s\t//", w.Version))
	}
	return lines
}
