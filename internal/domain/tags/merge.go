package tags

// Store accumulates the tags produced during one run. Workers hand their
// per-file batches to the dispatcher, which adds them here after the pool
// has joined; the store itself is only ever touched from one goroutine.
type Store struct {
	tags []Tag
}

// Add appends a batch of tags.
func (s *Store) Add(batch []Tag) {
	s.tags = append(s.tags, batch...)
}

// Tags returns everything accumulated so far.
func (s *Store) Tags() []Tag {
	return s.tags
}

// Len returns the number of stored tags.
func (s *Store) Len() int {
	return len(s.tags)
}

// MergeAppend reconciles freshly generated tags with an existing tag file.
//
// Existing entries are partitioned by file: entries for files that were
// regenerated this run are discarded and replaced by the fresh set, entries
// for untouched files are kept verbatim (their Raw line survives, so they
// re-serialize byte-identically). Running the same append twice therefore
// yields the same tag set as running it once.
func MergeAppend(existing *TagFile, regenerated []string, fresh []Tag) []Tag {
	regen := make(map[string]bool, len(regenerated))
	for _, file := range regenerated {
		regen[file] = true
	}

	merged := make([]Tag, 0, len(existing.Tags)+len(fresh))
	for _, tag := range existing.Tags {
		if !regen[tag.File] {
			merged = append(merged, tag)
		}
	}
	return append(merged, fresh...)
}
