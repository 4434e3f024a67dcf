package protopatch

import (
	"sync"

	"github.com/reoring/protopatch/property"
)

// DeferredProperties is a Properties value. It keeps the raw text of the
// property object until the metadata table is initialized, then decodes it
// once. The transition to resolved is one-way.
type DeferredProperties struct {
	mu       sync.Mutex
	raw      string
	node     map[string]any
	resolved *property.Collection
}

// NewDeferredProperties wraps the text of a property object. node, when
// non-nil, is the already-parsed form of raw.
func NewDeferredProperties(raw string, node map[string]any) *DeferredProperties {
	return &DeferredProperties{raw: raw, node: node}
}

// Resolve decodes the property object on first success and returns the same
// collection on every later call. Before the metadata table is initialized
// it returns ErrNotReady and changes nothing. Decode failures are returned
// and the next call tries again.
func (d *DeferredProperties) Resolve(rc *ResolveContext) (*property.Collection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.resolved != nil {
		return d.resolved, nil
	}
	if !rc.Ready() {
		return nil, ErrNotReady
	}
	node, err := ParseNode([]byte(d.raw))
	if err != nil {
		return nil, err
	}
	c, err := DecodeProperties(node, rc)
	if err != nil {
		return nil, err
	}
	d.resolved = c
	return c, nil
}

// Resolved reports whether Resolve has succeeded.
func (d *DeferredProperties) Resolved() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resolved != nil
}

// RawText returns the undecoded property object.
func (d *DeferredProperties) RawText() string { return d.raw }

func (*DeferredProperties) Kind() Kind { return KindProperties }

func (d *DeferredProperties) Raw() any {
	if d.node != nil {
		return d.node
	}
	n, err := ParseNode([]byte(d.raw))
	if err != nil {
		return d.raw
	}
	return n
}

// Get returns the value itself; properties are never assigned to a field.
func (d *DeferredProperties) Get() any { return d }

func (*DeferredProperties) isValue() {}
