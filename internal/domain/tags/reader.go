package tags

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ErrNoHeader marks an existing tag file whose pseudo-tag header cannot be
// understood. Append mode treats it as fatal: there is no valid base to
// extend.
var ErrNoHeader = errors.New("tag file header not recognized")

// TagFile is a parsed on-disk tag file: header state plus tags in file order.
type TagFile struct {
	Format int
	Sorted bool
	Tags   []Tag
}

// ReadFile parses an existing tag file. Pseudo-tag lines must be well formed;
// a malformed one fails the whole read with ErrNoHeader. Regular lines that
// do not parse as tags are skipped, matching what tag-file consumers do.
//
// Every parsed tag keeps its verbatim line in Raw, so entries carried across
// an append run are re-emitted byte-identically.
func ReadFile(path string) (*TagFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tf := &TagFile{Format: 1}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "!") {
			if err := tf.readPseudoTag(line); err != nil {
				return nil, err
			}
			continue
		}
		if tag, ok := ParseLine(line); ok {
			tf.Tags = append(tf.Tags, tag)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read tag file: %w", err)
	}
	return tf, nil
}

func (tf *TagFile) readPseudoTag(line string) error {
	parts := strings.Split(line, "\t")
	if len(parts) < 2 || !strings.HasPrefix(parts[0], "!_TAG_") {
		return fmt.Errorf("%w: %q", ErrNoHeader, line)
	}
	switch parts[0] {
	case "!_TAG_FILE_FORMAT":
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			return fmt.Errorf("%w: bad format value %q", ErrNoHeader, parts[1])
		}
		tf.Format = v
	case "!_TAG_FILE_SORTED":
		switch parts[1] {
		case "0":
			tf.Sorted = false
		case "1":
			tf.Sorted = true
		default:
			return fmt.Errorf("%w: bad sorted value %q", ErrNoHeader, parts[1])
		}
	}
	// Other pseudo-tags (program name, version, ...) carry no state we need.
	return nil
}

// ParseLine parses one tag line. Returns false for lines with fewer than
// three fields. The kind is recognized either as a bare single field or as
// an explicit kind: field; everything else becomes a key:value extension
// field in encounter order.
func ParseLine(line string) (Tag, bool) {
	parts := strings.Split(line, "\t")
	if len(parts) < 3 {
		return Tag{}, false
	}

	tag := Tag{
		Name: parts[0],
		File: parts[1],
		Raw:  line,
	}
	if tag.Name == "" || tag.File == "" {
		return Tag{}, false
	}

	// The address field may span tabs only through the `;"` terminator;
	// in practice it is the third field with the terminator attached.
	tag.Address = strings.TrimSuffix(parts[2], `;"`)

	for _, field := range parts[3:] {
		if field == "" {
			continue
		}
		colon := strings.IndexByte(field, ':')
		if colon < 0 {
			// A bare field is the kind, first one wins.
			if tag.Kind == "" {
				tag.Kind = field
			}
			continue
		}
		key, value := field[:colon], field[colon+1:]
		if key == "kind" {
			tag.Kind = value
			continue
		}
		tag.Fields = append(tag.Fields, Field{Key: key, Value: value})
	}
	return tag, true
}
