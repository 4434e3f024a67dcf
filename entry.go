package protopatch

// Entry is one patch instruction: set Path on the record named Target to
// Value.
type Entry struct {
	Enabled     bool
	Target      string
	Path        string
	Description string
	Value       Value

	// Parts is Path split once at construction.
	Parts PathParts

	// Batch is the id of the load that produced the entry, Source the file
	// it came from and Index its position in that file.
	Batch  string
	Source string
	Index  int

	applied bool
}

// NewEntry builds an entry and splits its path. Properties entries count as
// applied from the start: they materialize on demand and are never walked.
func NewEntry(enabled bool, target, path, description string, v Value) *Entry {
	e := &Entry{
		Enabled:     enabled,
		Target:      target,
		Path:        path,
		Description: description,
		Value:       v,
		Parts:       SplitPath(path),
	}
	if v != nil && v.Kind() == KindProperties {
		e.applied = true
	}
	return e
}

// Applied reports whether the entry's effect is in place.
func (e *Entry) Applied() bool { return e.applied }

// Properties returns the deferred value of a Properties entry.
func (e *Entry) Properties() (*DeferredProperties, bool) {
	d, ok := e.Value.(*DeferredProperties)
	return d, ok
}

func (e *Entry) ref() PathRef { return EntryRef(e.Index) }
