package protopatch

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/property"
)

// RegistryOpt configures a Registry.
type RegistryOpt struct {
	Logger hclog.Logger
}

// Registry indexes patch entries by target record, applies them to the
// record graph and answers diagnostic queries.
//
// ApplyAll runs during startup before the graph is shared. The property
// queries may be called concurrently afterwards.
type Registry struct {
	env Env
	log hclog.Logger

	byTarget map[content.PrototypeID][]*Entry

	mu     sync.Mutex
	merged map[content.PrototypeID]*property.Collection
}

// NewRegistry returns an empty registry over env.
func NewRegistry(env Env, opts ...RegistryOpt) *Registry {
	var opt RegistryOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Logger == nil {
		opt.Logger = hclog.NewNullLogger()
	}
	return &Registry{
		env:      env,
		log:      opt.Logger,
		byTarget: make(map[content.PrototypeID][]*Entry),
		merged:   make(map[content.PrototypeID]*property.Collection),
	}
}

// ApplyAll indexes the enabled entries by target and applies them in order.
// Disabled entries are skipped. A failing entry is reported in the returned
// Issues and never stops the batch.
func (r *Registry) ApplyAll(entries []*Entry) error {
	var issues Issues
	for _, e := range entries {
		log := r.log.With("target", e.Target, "path", e.Path)
		if !e.Enabled {
			log.Debug("skipping disabled entry")
			continue
		}
		if e.Value == nil {
			issues = AppendIssues(issues, r.issue(e, fmt.Errorf("%w: entry has no value", ErrInvalidShape)))
			continue
		}
		id, ok := r.env.Graph.Lookup(e.Target)
		if !ok {
			issues = AppendIssues(issues, r.issue(e, fmt.Errorf("%w: %s", ErrUnknownTarget, e.Target)))
			log.Warn("unknown target")
			continue
		}
		r.byTarget[id] = append(r.byTarget[id], e)
		if e.Value.Kind() == KindProperties {
			r.forget(id)
			continue
		}
		rec, ok := r.env.Graph.Record(id)
		if !ok {
			issues = AppendIssues(issues, r.issue(e, fmt.Errorf("%w: %s", ErrUnknownTarget, e.Target)))
			continue
		}
		applied, err := r.apply(rec, e)
		switch {
		case err != nil:
			issues = AppendIssues(issues, r.issue(e, err))
			log.Error("cannot apply entry", "error", err)
		case !applied:
			log.Warn("field not declared on target, skipping", "field", e.Parts.FieldName)
		default:
			e.applied = true
			log.Debug("applied entry", "description", e.Description)
		}
	}
	return issues.Err()
}

func (r *Registry) issue(e *Entry, err error) Issue {
	it := issueFromError(e.ref(), err)
	it.Source = e.Source
	it.Target = e.Target
	return it
}

// EntryCount returns the number of enabled entries indexed for id.
func (r *Registry) EntryCount(id content.PrototypeID) int { return len(r.byTarget[id]) }

// Entries returns the entries indexed for id in apply order.
func (r *Registry) Entries(id content.PrototypeID) []*Entry {
	return append([]*Entry(nil), r.byTarget[id]...)
}

// Targets returns every patched record id in ascending order.
func (r *Registry) Targets() []content.PrototypeID {
	ids := make([]content.PrototypeID, 0, len(r.byTarget))
	for id := range r.byTarget {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasPropertyPatch reports whether id has Properties entries and returns
// their merged collection, later entries winning. ErrNotReady means the
// patch exists but cannot be materialized yet; it is never cached.
func (r *Registry) HasPropertyPatch(id content.PrototypeID) (bool, *property.Collection, error) {
	var parts []*DeferredProperties
	for _, e := range r.byTarget[id] {
		if d, ok := e.Properties(); ok {
			parts = append(parts, d)
		}
	}
	if len(parts) == 0 {
		return false, nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.merged[id]; ok {
		return true, c, nil
	}
	rc := r.env.resolveContext(r.log.With("target", id))
	merged := property.NewCollection()
	for _, d := range parts {
		c, err := d.Resolve(rc)
		if err != nil {
			return true, nil, err
		}
		merged.Merge(c)
	}
	r.merged[id] = merged
	return true, merged, nil
}

// PreviewPropertyPatch is HasPropertyPatch for diagnostics: it never fails
// and describes the outcome in text instead.
func (r *Registry) PreviewPropertyPatch(id content.PrototypeID) (bool, *property.Collection, string) {
	ok, c, err := r.HasPropertyPatch(id)
	switch {
	case errors.Is(err, ErrNotReady):
		return false, nil, "not ready: property metadata is not initialized"
	case err != nil:
		return false, nil, "error: " + err.Error()
	case !ok:
		return false, nil, "no property patch"
	}
	namer, _ := r.env.Curves.(property.CurveNamer)
	text := fmt.Sprintf("resolved %d properties\n%s", c.Len(), c.Format(r.env.Properties, namer))
	return true, c, text
}

func (r *Registry) forget(id content.PrototypeID) {
	r.mu.Lock()
	delete(r.merged, id)
	r.mu.Unlock()
}
