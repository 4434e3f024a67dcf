package protopatch

import (
	"encoding/json"
	"strconv"

	"github.com/reoring/protopatch/content"
)

// Value is a decoded patch value. The set of implementations is closed: the
// payload type of every Value is fixed by its Kind.
type Value interface {
	Kind() Kind
	// Raw returns the node-equivalent form of the value. Decoding Raw with
	// the same kind yields an equal value.
	Raw() any
	// Get returns the payload in the form content.Record.Set accepts.
	Get() any

	isValue()
}

type (
	StringValue       string
	BoolValue         bool
	FloatValue        float32
	IntegerValue      int32
	EnumValue         string
	GUIDValue         content.PrototypeGUID
	LocaleStringValue content.LocaleStringID
	Vector3Value      content.Vector3
)

// PrototypeIDValue holds a single reference. It backs both PrototypeId and
// PrototypeDataRef.
type PrototypeIDValue struct {
	K  Kind
	ID content.PrototypeID
}

// PrototypeIDArrayValue backs PrototypeIdArray and PrototypeDataRefArray.
type PrototypeIDArrayValue struct {
	K   Kind
	IDs []content.PrototypeID
}

// PrototypeValue is a record built from an object node. The node is kept so
// the value can be rendered back.
type PrototypeValue struct {
	Record *content.Record
	node   map[string]any
}

// PrototypeArrayValue is a sequence of built records.
type PrototypeArrayValue struct {
	Records []*content.Record
	nodes   []any
}

func (StringValue) Kind() Kind       { return KindString }
func (BoolValue) Kind() Kind         { return KindBoolean }
func (FloatValue) Kind() Kind        { return KindFloat }
func (IntegerValue) Kind() Kind      { return KindInteger }
func (EnumValue) Kind() Kind         { return KindEnum }
func (GUIDValue) Kind() Kind         { return KindPrototypeGuid }
func (LocaleStringValue) Kind() Kind { return KindLocaleStringId }
func (Vector3Value) Kind() Kind      { return KindVector3 }
func (v PrototypeIDValue) Kind() Kind {
	return v.K
}
func (v PrototypeIDArrayValue) Kind() Kind { return v.K }
func (PrototypeValue) Kind() Kind          { return KindPrototype }
func (PrototypeArrayValue) Kind() Kind     { return KindPrototypeArray }

func (v StringValue) Raw() any  { return string(v) }
func (v BoolValue) Raw() any    { return bool(v) }
func (v FloatValue) Raw() any   { return float32Number(float32(v)) }
func (v IntegerValue) Raw() any { return json.Number(strconv.FormatInt(int64(v), 10)) }
func (v EnumValue) Raw() any    { return string(v) }
func (v GUIDValue) Raw() any    { return uintNumber(uint64(v)) }
func (v LocaleStringValue) Raw() any {
	return uintNumber(uint64(v))
}
func (v Vector3Value) Raw() any {
	return []any{float32Number(v.X), float32Number(v.Y), float32Number(v.Z)}
}
func (v PrototypeIDValue) Raw() any { return uintNumber(uint64(v.ID)) }
func (v PrototypeIDArrayValue) Raw() any {
	out := make([]any, len(v.IDs))
	for i, id := range v.IDs {
		out[i] = uintNumber(uint64(id))
	}
	return out
}
func (v PrototypeValue) Raw() any { return v.node }
func (v PrototypeArrayValue) Raw() any {
	if v.nodes == nil {
		return []any{}
	}
	return v.nodes
}

func (v StringValue) Get() any       { return string(v) }
func (v BoolValue) Get() any         { return bool(v) }
func (v FloatValue) Get() any        { return float32(v) }
func (v IntegerValue) Get() any      { return int32(v) }
func (v EnumValue) Get() any         { return string(v) }
func (v GUIDValue) Get() any         { return content.PrototypeGUID(v) }
func (v LocaleStringValue) Get() any { return content.LocaleStringID(v) }
func (v Vector3Value) Get() any      { return content.Vector3(v) }
func (v PrototypeIDValue) Get() any  { return v.ID }
func (v PrototypeIDArrayValue) Get() any {
	return append([]content.PrototypeID{}, v.IDs...)
}

// Prototype payloads are cloned so an applied value never aliases the entry.
func (v PrototypeValue) Get() any { return v.Record.Clone() }
func (v PrototypeArrayValue) Get() any {
	out := make([]*content.Record, len(v.Records))
	for i, r := range v.Records {
		out[i] = r.Clone()
	}
	return out
}

func (StringValue) isValue()           {}
func (BoolValue) isValue()             {}
func (FloatValue) isValue()            {}
func (IntegerValue) isValue()          {}
func (EnumValue) isValue()             {}
func (GUIDValue) isValue()             {}
func (LocaleStringValue) isValue()     {}
func (Vector3Value) isValue()          {}
func (PrototypeIDValue) isValue()      {}
func (PrototypeIDArrayValue) isValue() {}
func (PrototypeValue) isValue()        {}
func (PrototypeArrayValue) isValue()   {}
