package protopatch

import (
	"fmt"

	"github.com/reoring/protopatch/content"
)

// apply walks e's container path from rec and assigns e's value to the
// addressed field. It reports false without error when the last field is not
// declared on the class it lands in.
//
// An array-addressed field with an index replaces that element. Without a
// usable index the whole array is replaced, so the value must be an array.
func (r *Registry) apply(rec *content.Record, e *Entry) (bool, error) {
	cur, err := walk(rec, SplitSegments(e.Parts.ClearPath))
	if err != nil {
		return false, err
	}
	name := e.Parts.FieldName
	if _, ok := cur.Class.Field(name); !ok {
		return false, nil
	}
	if e.Parts.IsArray && e.Parts.Index != NoIndex {
		return true, cur.SetIndex(name, e.Parts.Index, e.Value.Get())
	}
	if e.Parts.IsArray && !e.Value.Kind().IsArray() {
		return false, fmt.Errorf("%w: %s[] replaces the whole array and needs an array value, got %s", ErrInvalidType, name, e.Value.Kind())
	}
	return true, cur.Set(name, e.Value.Get())
}

// walk follows sub-prototype fields. An indexed segment selects one record of
// a prototype array.
func walk(rec *content.Record, segs []Segment) (*content.Record, error) {
	cur := rec
	for _, s := range segs {
		f, ok := cur.Class.Field(s.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no field %s", ErrInvalidPath, cur.Class.Name, s.Name)
		}
		v, _ := cur.Get(s.Name)
		switch {
		case s.IsArray:
			if f.Type != content.FieldPrototypeArray {
				return nil, fmt.Errorf("%w: %s is %s, not a prototype array", ErrInvalidPath, s, f.Type)
			}
			arr := v.([]*content.Record)
			if s.Index == NoIndex || s.Index >= len(arr) {
				return nil, fmt.Errorf("%w: %s (len %d)", content.ErrIndexOutOfRange, s, len(arr))
			}
			cur = arr[s.Index]
		default:
			if f.Type != content.FieldPrototype {
				return nil, fmt.Errorf("%w: %s is %s, not a prototype", ErrInvalidPath, s, f.Type)
			}
			cur = v.(*content.Record)
		}
		if cur == nil {
			return nil, fmt.Errorf("%w: %s is not set", ErrInvalidPath, s)
		}
	}
	return cur, nil
}
