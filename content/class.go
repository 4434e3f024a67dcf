package content

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var (
	// ErrUnknownField is returned when a class has no field with the given name.
	ErrUnknownField = errors.New("content: unknown field")
	// ErrFieldType is returned when a value cannot be converted to a field's type.
	ErrFieldType = errors.New("content: value does not match field type")
	// ErrIndexOutOfRange is returned by indexed assignment past the array end.
	ErrIndexOutOfRange = errors.New("content: index out of range")
	// ErrNotArray is returned by indexed assignment into a non-array field.
	ErrNotArray = errors.New("content: field is not an array")
)

// FieldType is the declared type of a record field.
type FieldType uint8

const (
	FieldString FieldType = iota
	FieldBool
	FieldInt
	FieldFloat
	FieldEnum
	FieldPrototypeRef
	FieldPrototypeGUID
	FieldAsset
	FieldLocaleString
	FieldPrototypeRefArray
	FieldPrototype
	FieldPrototypeArray
	FieldVector3
)

var fieldTypeNames = [...]string{
	FieldString:            "String",
	FieldBool:              "Bool",
	FieldInt:               "Int",
	FieldFloat:             "Float",
	FieldEnum:              "Enum",
	FieldPrototypeRef:      "PrototypeRef",
	FieldPrototypeGUID:     "PrototypeGuid",
	FieldAsset:             "Asset",
	FieldLocaleString:      "LocaleString",
	FieldPrototypeRefArray: "PrototypeRef[]",
	FieldPrototype:         "Prototype",
	FieldPrototypeArray:    "Prototype[]",
	FieldVector3:           "Vector3",
}

func (t FieldType) String() string {
	if int(t) < len(fieldTypeNames) {
		return fieldTypeNames[t]
	}
	return "FieldType(" + strconv.Itoa(int(t)) + ")"
}

// ParseFieldType maps a type name (as printed by String) back to a FieldType.
func ParseFieldType(s string) (FieldType, bool) {
	for i, n := range fieldTypeNames {
		if n == s {
			return FieldType(i), true
		}
	}
	return 0, false
}

// IsIdentifier reports whether the field stores an opaque 64-bit handle.
func (t FieldType) IsIdentifier() bool {
	switch t {
	case FieldPrototypeRef, FieldPrototypeGUID, FieldAsset, FieldLocaleString:
		return true
	}
	return false
}

// IsArray reports whether the field holds a sequence.
func (t FieldType) IsArray() bool {
	return t == FieldPrototypeRefArray || t == FieldPrototypeArray
}

// Field is one entry of a class accessor table.
type Field struct {
	Name string
	Type FieldType
	// Enum optionally restricts FieldEnum values.
	Enum []string
}

// Convert turns v into the field's storage type. Accepted inputs are the
// outputs of generic coercion and the typed payloads of patch values.
func (f *Field) Convert(v any) (any, error) {
	switch f.Type {
	case FieldString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case FieldEnum:
		if s, ok := v.(string); ok {
			if len(f.Enum) == 0 {
				return s, nil
			}
			for _, e := range f.Enum {
				if e == s {
					return s, nil
				}
			}
			return nil, fmt.Errorf("%w: %q is not a %s value", ErrFieldType, s, f.Name)
		}
	case FieldBool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	case FieldInt:
		if i, ok := toInt64(v); ok {
			return i, nil
		}
	case FieldFloat:
		if x, ok := toFloat32(v); ok {
			return x, nil
		}
	case FieldPrototypeRef:
		if id, ok := v.(PrototypeID); ok {
			return id, nil
		}
	case FieldPrototypeGUID:
		if g, ok := v.(PrototypeGUID); ok {
			return g, nil
		}
	case FieldAsset:
		if a, ok := v.(AssetID); ok {
			return a, nil
		}
	case FieldLocaleString:
		if l, ok := v.(LocaleStringID); ok {
			return l, nil
		}
	case FieldPrototypeRefArray:
		if ids, ok := v.([]PrototypeID); ok {
			return append([]PrototypeID(nil), ids...), nil
		}
	case FieldPrototype:
		if r, ok := v.(*Record); ok {
			return r, nil
		}
	case FieldPrototypeArray:
		if rs, ok := v.([]*Record); ok {
			return append([]*Record(nil), rs...), nil
		}
	case FieldVector3:
		if vec, ok := v.(Vector3); ok {
			return vec, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot assign %T to %s (%s)", ErrFieldType, v, f.Name, f.Type)
}

// convertElement converts v into a single element of an array field.
func (f *Field) convertElement(v any) (any, error) {
	switch f.Type {
	case FieldPrototypeRefArray:
		if id, ok := v.(PrototypeID); ok {
			return id, nil
		}
	case FieldPrototypeArray:
		if r, ok := v.(*Record); ok {
			return r, nil
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotArray, f.Name)
	}
	return nil, fmt.Errorf("%w: cannot assign %T to element of %s (%s)", ErrFieldType, v, f.Name, f.Type)
}

func (f *Field) zero() any {
	switch f.Type {
	case FieldString, FieldEnum:
		return ""
	case FieldBool:
		return false
	case FieldInt:
		return int64(0)
	case FieldFloat:
		return float32(0)
	case FieldPrototypeRef:
		return InvalidPrototype
	case FieldPrototypeGUID:
		return PrototypeGUID(0)
	case FieldAsset:
		return AssetID(0)
	case FieldLocaleString:
		return LocaleStringID(0)
	case FieldPrototypeRefArray:
		return []PrototypeID(nil)
	case FieldPrototype:
		return (*Record)(nil)
	case FieldPrototypeArray:
		return []*Record(nil)
	case FieldVector3:
		return Vector3{}
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n > math.MaxInt64 || n < math.MinInt64 {
			return 0, false
		}
		return int64(n), true
	case string:
		i, err := strconv.ParseInt(n, 10, 64)
		return i, err == nil
	}
	return 0, false
}

func toFloat32(v any) (float32, bool) {
	switch n := v.(type) {
	case float32:
		return n, true
	case float64:
		f := float32(n)
		return f, !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
	case int:
		return float32(n), true
	case int32:
		return float32(n), true
	case int64:
		return float32(n), true
	case uint64:
		return float32(n), true
	case string:
		f, err := strconv.ParseFloat(n, 32)
		return float32(f), err == nil && !math.IsInf(f, 0) && !math.IsNaN(f)
	}
	return 0, false
}

// Class is a record type: a name plus the accessor table of its fields.
type Class struct {
	Name   string
	fields map[string]*Field
	order  []string
}

// NewClass builds a class from its field declarations. Later declarations of
// the same name replace earlier ones.
func NewClass(name string, fields ...Field) *Class {
	c := &Class{Name: name, fields: make(map[string]*Field, len(fields))}
	for i := range fields {
		f := fields[i]
		if _, dup := c.fields[f.Name]; !dup {
			c.order = append(c.order, f.Name)
		}
		c.fields[f.Name] = &f
	}
	sort.Strings(c.order)
	return c
}

// Field returns the declared field with the given name.
func (c *Class) Field(name string) (*Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Fields returns the declared fields sorted by name.
func (c *Class) Fields() []*Field {
	out := make([]*Field, 0, len(c.order))
	for _, n := range c.order {
		out = append(out, c.fields[n])
	}
	return out
}
