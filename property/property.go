// Package property implements parameterized property keys, scalar property
// values, property metadata and the collections patches produce.
package property

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/reoring/protopatch/content"
)

// MaxParamCount is the number of positional parameters a key can carry.
const MaxParamCount = 4

// Enum identifies a property kind.
type Enum uint32

// Param is one encoded key parameter.
type Param int64

// ParamType is the declared type of a key parameter.
type ParamType uint8

const (
	ParamInvalid ParamType = iota
	ParamInteger
	ParamAsset
	ParamPrototype
)

func (t ParamType) String() string {
	switch t {
	case ParamInteger:
		return "Integer"
	case ParamAsset:
		return "Asset"
	case ParamPrototype:
		return "Prototype"
	}
	return "Invalid"
}

// DataType is the declared type of a property value.
type DataType uint8

const (
	DataInvalid DataType = iota
	DataInteger
	DataReal
	DataBoolean
	DataPrototype
	DataAsset
	DataCurve
)

func (t DataType) String() string {
	switch t {
	case DataInteger:
		return "Integer"
	case DataReal:
		return "Real"
	case DataBoolean:
		return "Boolean"
	case DataPrototype:
		return "Prototype"
	case DataAsset:
		return "Asset"
	case DataCurve:
		return "Curve"
	}
	return "Invalid"
}

// ParseDataType maps a name printed by String back to a DataType.
func ParseDataType(s string) (DataType, bool) {
	for t := DataInteger; t <= DataCurve; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return DataInvalid, false
}

// ParseParamType maps a name printed by String back to a ParamType.
func ParseParamType(s string) (ParamType, bool) {
	for t := ParamInteger; t <= ParamPrototype; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return ParamInvalid, false
}

// Id is a property key: a kind plus its positional parameters.
// Ids are comparable and can be used as map keys.
type Id struct {
	Enum   Enum
	Params [MaxParamCount]Param
}

// NewId builds a key; missing trailing params are zero.
func NewId(e Enum, params ...Param) Id {
	id := Id{Enum: e}
	copy(id.Params[:], params)
	return id
}

func (id Id) String() string {
	var b strings.Builder
	b.WriteString(strconv.FormatUint(uint64(id.Enum), 10))
	b.WriteByte('[')
	for i, p := range id.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(int64(p), 10))
	}
	b.WriteByte(']')
	return b.String()
}

func (id Id) less(o Id) bool {
	if id.Enum != o.Enum {
		return id.Enum < o.Enum
	}
	for i := range id.Params {
		if id.Params[i] != o.Params[i] {
			return id.Params[i] < o.Params[i]
		}
	}
	return false
}

// CurveID references an indexed lookup function.
type CurveID uint64

// InvalidCurve is the zero curve reference.
const InvalidCurve CurveID = 0

// Value is a scalar property value tagged by its data type.
type Value struct {
	t    DataType
	bits uint64
}

func IntValue(v int64) Value                    { return Value{t: DataInteger, bits: uint64(v)} }
func RealValue(v float32) Value                 { return Value{t: DataReal, bits: uint64(math.Float32bits(v))} }
func PrototypeValue(v content.PrototypeID) Value { return Value{t: DataPrototype, bits: uint64(v)} }
func AssetValue(v content.AssetID) Value         { return Value{t: DataAsset, bits: uint64(v)} }
func CurveValue(v CurveID) Value                 { return Value{t: DataCurve, bits: uint64(v)} }

func BoolValue(v bool) Value {
	if v {
		return Value{t: DataBoolean, bits: 1}
	}
	return Value{t: DataBoolean}
}

func (v Value) Type() DataType                  { return v.t }
func (v Value) Int() int64                      { return int64(v.bits) }
func (v Value) Real() float32                   { return math.Float32frombits(uint32(v.bits)) }
func (v Value) Bool() bool                      { return v.bits != 0 }
func (v Value) Prototype() content.PrototypeID { return content.PrototypeID(v.bits) }
func (v Value) Asset() content.AssetID         { return content.AssetID(v.bits) }
func (v Value) Curve() CurveID                  { return CurveID(v.bits) }

func (v Value) String() string {
	switch v.t {
	case DataInteger:
		return strconv.FormatInt(v.Int(), 10)
	case DataReal:
		return strconv.FormatFloat(float64(v.Real()), 'g', -1, 32)
	case DataBoolean:
		return strconv.FormatBool(v.Bool())
	case DataPrototype, DataAsset, DataCurve:
		return fmt.Sprintf("%s(%d)", v.t, v.bits)
	}
	return "<invalid>"
}
