package protopatch

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/reoring/protopatch/content"
)

// ParentDataRefField names the mandatory parent reference of a prototype node.
const ParentDataRefField = "ParentDataRef"

// Builder builds records from prototype nodes.
type Builder struct {
	Catalog Catalog
	Logger  hclog.Logger
}

// Build allocates a record of the parent's class, copies the parent's
// fields into it and overlays the fields present in node.
//
// Only a missing or unusable ParentDataRef fails the build. Fields the class
// does not declare are skipped, and a field whose value cannot be converted
// is logged and left at its inherited value.
func (b *Builder) Build(node any) (*content.Record, error) {
	obj, ok := nodeObject(node)
	if !ok {
		return nil, fmt.Errorf("%w: prototype must be an object, got %s", ErrInvalidType, describeNode(node))
	}
	if b.Catalog == nil {
		return nil, errNoCatalog
	}
	raw, ok := obj[ParentDataRefField]
	if !ok {
		return nil, fmt.Errorf("%w: %s is required", ErrInvalidShape, ParentDataRefField)
	}
	pid, ok := nodeIdentifier(raw)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a reference, got %s", ErrInvalidShape, ParentDataRefField, describeNode(raw))
	}
	parent := content.PrototypeID(pid)
	class, err := b.Catalog.ClassOf(parent)
	if err != nil {
		return nil, fmt.Errorf("%s %d: %w", ParentDataRefField, parent, err)
	}
	rec := b.Catalog.Allocate(class)
	if err := b.Catalog.CopyInheritedFields(rec, parent); err != nil {
		return nil, fmt.Errorf("%s %d: %w", ParentDataRefField, parent, err)
	}
	rec.Parent = parent

	log := b.logger().With("class", class.Name, "parent", parent)
	names := make([]string, 0, len(obj))
	for name := range obj {
		if name != ParentDataRefField {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		f, ok := class.Field(name)
		if !ok {
			log.Debug("skipping undeclared field", "field", name)
			continue
		}
		v, err := b.ConvertField(f, obj[name])
		if err == nil {
			err = rec.Set(name, v)
		}
		if err != nil {
			log.Error("cannot convert field", "field", name, "type", f.Type, "value", nodeText(obj[name]), "error", err)
		}
	}
	return rec, nil
}

// ConvertField converts node to the storage form of field f. Nested
// prototypes are built recursively.
func (b *Builder) ConvertField(f *content.Field, node any) (any, error) {
	switch f.Type {
	case content.FieldPrototype:
		return b.Build(node)
	case content.FieldPrototypeArray:
		arr, ok := nodeArray(node)
		if !ok {
			return nil, fmt.Errorf("%w: expected sequence, got %s", ErrInvalidType, describeNode(node))
		}
		out := make([]*content.Record, len(arr))
		for i, el := range arr {
			rec, err := b.Build(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = rec
		}
		return out, nil
	case content.FieldPrototypeRefArray:
		arr, ok := nodeArray(node)
		if !ok {
			return nil, fmt.Errorf("%w: expected sequence, got %s", ErrInvalidType, describeNode(node))
		}
		out := make([]content.PrototypeID, len(arr))
		for i, el := range arr {
			id, ok := Coerce(el, content.FieldPrototypeRef).(content.PrototypeID)
			if !ok {
				return nil, fmt.Errorf("%w: element %d is %s", ErrInvalidType, i, describeNode(el))
			}
			out[i] = id
		}
		return out, nil
	case content.FieldVector3:
		v, err := decodeVector3(node)
		if err != nil {
			return nil, err
		}
		return v.Get(), nil
	}
	return Coerce(node, f.Type), nil
}

func (b *Builder) logger() hclog.Logger {
	if b.Logger == nil {
		return hclog.NewNullLogger()
	}
	return b.Logger
}
