package content

import (
	"fmt"
	"strings"
)

// Record is a typed record instance. Field values are only reachable through
// the class accessor table, so a record never holds a field its class does
// not declare and a field's type never changes.
type Record struct {
	ID     PrototypeID
	Name   string
	Class  *Class
	Parent PrototypeID
	values map[string]any
}

// NewRecord allocates an empty record of the given class.
func NewRecord(class *Class) *Record {
	return &Record{Class: class, values: make(map[string]any)}
}

// Get returns the value of the named field, or the zero value of its type
// when the field was never set. ok is false when the class has no such field.
func (r *Record) Get(name string) (any, bool) {
	f, ok := r.Class.Field(name)
	if !ok {
		return nil, false
	}
	if v, ok := r.values[name]; ok {
		return v, true
	}
	return f.zero(), true
}

// IsSet reports whether the field has an explicit value on this record.
func (r *Record) IsSet(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Set assigns the named field, converting v to the declared field type.
func (r *Record) Set(name string, v any) error {
	f, ok := r.Class.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.Class.Name, name)
	}
	cv, err := f.Convert(v)
	if err != nil {
		return err
	}
	r.values[name] = cv
	return nil
}

// SetIndex replaces one element of an array field.
func (r *Record) SetIndex(name string, index int, v any) error {
	f, ok := r.Class.Field(name)
	if !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownField, r.Class.Name, name)
	}
	ev, err := f.convertElement(v)
	if err != nil {
		return err
	}
	cur, _ := r.Get(name)
	switch arr := cur.(type) {
	case []PrototypeID:
		if index < 0 || index >= len(arr) {
			return fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, name, index, len(arr))
		}
		out := append([]PrototypeID(nil), arr...)
		out[index] = ev.(PrototypeID)
		r.values[name] = out
	case []*Record:
		if index < 0 || index >= len(arr) {
			return fmt.Errorf("%w: %s[%d] (len %d)", ErrIndexOutOfRange, name, index, len(arr))
		}
		out := append([]*Record(nil), arr...)
		out[index] = ev.(*Record)
		r.values[name] = out
	}
	return nil
}

// CopyFrom deep-copies every explicitly set field of src that this record's
// class also declares with the same type.
func (r *Record) CopyFrom(src *Record) {
	for name, v := range src.values {
		f, ok := r.Class.Field(name)
		if !ok {
			continue
		}
		sf, _ := src.Class.Field(name)
		if sf == nil || sf.Type != f.Type {
			continue
		}
		r.values[name] = cloneValue(v)
	}
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	c := &Record{ID: r.ID, Name: r.Name, Class: r.Class, Parent: r.Parent, values: make(map[string]any, len(r.values))}
	for k, v := range r.values {
		c.values[k] = cloneValue(v)
	}
	return c
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []PrototypeID:
		return append([]PrototypeID(nil), t...)
	case *Record:
		if t == nil {
			return t
		}
		return t.Clone()
	case []*Record:
		out := make([]*Record, len(t))
		for i, e := range t {
			if e != nil {
				out[i] = e.Clone()
			}
		}
		return out
	}
	return v
}

// Dump renders the record's explicitly set fields one per line, sorted by
// field name. Nested records are indented.
func (r *Record) Dump() string {
	var b strings.Builder
	r.dump(&b, "")
	return b.String()
}

func (r *Record) dump(b *strings.Builder, indent string) {
	fmt.Fprintf(b, "%s<%s parent=%d>\n", indent, r.Class.Name, r.Parent)
	for _, f := range r.Class.Fields() {
		v, ok := r.values[f.Name]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case *Record:
			fmt.Fprintf(b, "%s%s =\n", indent, f.Name)
			if t != nil {
				t.dump(b, indent+"  ")
			}
		case []*Record:
			fmt.Fprintf(b, "%s%s = [%d]\n", indent, f.Name, len(t))
			for i, e := range t {
				fmt.Fprintf(b, "%s  [%d]\n", indent, i)
				if e != nil {
					e.dump(b, indent+"    ")
				}
			}
		case string:
			fmt.Fprintf(b, "%s%s = %q\n", indent, f.Name, t)
		default:
			fmt.Fprintf(b, "%s%s = %v\n", indent, f.Name, t)
		}
	}
}
