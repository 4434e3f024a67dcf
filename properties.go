package protopatch

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/reoring/protopatch/content"
	"github.com/reoring/protopatch/property"
)

// DecodeProperties decodes a property object such as
//
//	{"Damage": 2.5, "EnduranceCost": [1, "Curves/Cost.curve"]}
//
// into a collection. Property names are resolved through rc.Properties.
// Params of a parameterized property come first in its array and its value
// last.
//
// A property with no metadata, or whose node does not fit the metadata, is
// logged and skipped. ErrNotReady is returned when the metadata table is not
// initialized, and ErrContractViolation aborts the whole decode.
func DecodeProperties(node any, rc *ResolveContext) (*property.Collection, error) {
	if !rc.Ready() {
		return nil, ErrNotReady
	}
	obj, ok := nodeObject(node)
	if !ok {
		return nil, fmt.Errorf("%w: properties must be an object, got %s", ErrInvalidType, describeNode(node))
	}
	log := rc.logger()
	enc := rc.Properties.Encoder()

	names := make([]string, 0, len(obj))
	for name := range obj {
		names = append(names, name)
	}
	sort.Strings(names)

	out := property.NewCollection()
	for _, name := range names {
		raw := obj[name]
		info, ok := rc.Properties.LookupName(name)
		if !ok {
			log.Warn("property info not found, skipping", "property", name)
			continue
		}
		id, err := PropertyID(raw, info, enc)
		if err != nil {
			if isContractViolation(err) {
				return nil, err
			}
			log.Warn("invalid property key, skipping", "property", name, "error", err)
			continue
		}
		if info.CurveProperty {
			curve := CurveRef(raw, info, rc.Curves)
			if curve == property.InvalidCurve {
				curve = info.DefaultValue.Curve()
			}
			out.SetCurve(id, curve, info.DefaultCurveIndex)
			continue
		}
		v, err := PropertyValue(raw, info)
		if err != nil {
			if isContractViolation(err) {
				return nil, err
			}
			log.Warn("invalid property value, skipping", "property", name, "error", err)
			continue
		}
		out.Set(id, v)
	}
	return out, nil
}

// PropertyID builds the key of a property from its node. Only the first
// info.ParamCount elements of the node's array are read; missing or
// unparseable slots keep the declared default params.
//
// Asset params accept a bare enumerant: a number (or numeric string) up to
// math.MaxInt32 is stored as is, a larger one is encoded as an asset handle.
func PropertyID(node any, info *property.Info, enc property.ParamEncoder) (property.Id, error) {
	id := property.Id{Enum: info.Enum}
	if info.ParamCount == 0 {
		return id, nil
	}
	arr, ok := nodeArray(node)
	if !ok {
		return id, fmt.Errorf("%w: %s takes %d params, got %s", ErrInvalidShape, info.Name, info.ParamCount, describeNode(node))
	}
	if enc == nil {
		enc = property.RawEncoder{}
	}
	id.Params = info.DefaultParams
	for i := 0; i < info.ParamCount && i < property.MaxParamCount; i++ {
		if i >= len(arr) {
			continue
		}
		el := arr[i]
		switch info.ParamType(i) {
		case property.ParamAsset:
			if p, ok := assetParam(el, enc); ok {
				id.Params[i] = p
			}
		case property.ParamPrototype:
			ref, ok := Coerce(el, content.FieldPrototypeRef).(content.PrototypeID)
			if !ok {
				return id, fmt.Errorf("%w: param %d of %s must be a prototype reference, got %s", ErrInvalidType, i, info.Name, describeNode(el))
			}
			id.Params[i] = enc.PrototypeParam(info.Enum, i, ref)
		case property.ParamInteger:
			if n, ok := nodeInt64(el); ok {
				id.Params[i] = property.Param(n)
			}
		default:
			return id, fmt.Errorf("%w: %s param %d has type %s", ErrContractViolation, info.Name, i, info.ParamType(i))
		}
	}
	return id, nil
}

func assetParam(node any, enc property.ParamEncoder) (property.Param, bool) {
	if u, ok := nodeUint64(node); ok {
		return smallOrAsset(u, enc), true
	}
	s, ok := nodeString(node)
	if !ok {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return property.Param(n), true
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return smallOrAsset(u, enc), true
	}
	return 0, false
}

func smallOrAsset(u uint64, enc property.ParamEncoder) property.Param {
	if u <= math.MaxInt32 {
		return property.Param(u)
	}
	return enc.AssetParam(content.AssetID(u))
}

// PropertyValue decodes the scalar value of a non-curve property. A number
// that does not fit an Integer or Real property yields the declared default.
func PropertyValue(node any, info *property.Info) (property.Value, error) {
	if info.ParamCount > 0 {
		arr, ok := nodeArray(node)
		if !ok || len(arr) == 0 {
			return info.DefaultValue, fmt.Errorf("%w: %s needs [params..., value], got %s", ErrInvalidShape, info.Name, describeNode(node))
		}
		node = arr[len(arr)-1]
	}
	switch info.DataType {
	case property.DataInteger:
		if n, ok := nodeInt64(node); ok {
			return property.IntValue(n), nil
		}
	case property.DataReal:
		if f, ok := nodeFloat64(node); ok {
			if f32, ok := finiteFloat32(f); ok {
				return property.RealValue(f32), nil
			}
		}
	case property.DataBoolean:
		b, ok := nodeBool(node)
		if !ok {
			return info.DefaultValue, fmt.Errorf("%w: %s must be a boolean, got %s", ErrInvalidType, info.Name, describeNode(node))
		}
		return property.BoolValue(b), nil
	case property.DataPrototype:
		ref, ok := Coerce(node, content.FieldPrototypeRef).(content.PrototypeID)
		if !ok {
			return info.DefaultValue, fmt.Errorf("%w: %s must be a prototype reference, got %s", ErrInvalidType, info.Name, describeNode(node))
		}
		return property.PrototypeValue(ref), nil
	case property.DataAsset:
		a, ok := Coerce(node, content.FieldAsset).(content.AssetID)
		if !ok {
			return info.DefaultValue, fmt.Errorf("%w: %s must be an asset reference, got %s", ErrInvalidType, info.Name, describeNode(node))
		}
		return property.AssetValue(a), nil
	case property.DataCurve:
		return info.DefaultValue, fmt.Errorf("%w: curve property %s reached scalar decoding", ErrContractViolation, info.Name)
	default:
		return info.DefaultValue, fmt.Errorf("%w: %s has data type %s", ErrContractViolation, info.Name, info.DataType)
	}
	return info.DefaultValue, nil
}

// CurveRef resolves the curve of a curve property: a number, a numeral
// string, or a curve name looked up in dir. It returns property.InvalidCurve
// when nothing matches.
func CurveRef(node any, info *property.Info, dir property.CurveDirectory) property.CurveID {
	if info.ParamCount > 0 {
		if arr, ok := nodeArray(node); ok && len(arr) > 0 {
			node = arr[len(arr)-1]
		}
	}
	if u, ok := nodeUint64(node); ok {
		return property.CurveID(u)
	}
	s, ok := nodeString(node)
	if !ok || strings.TrimSpace(s) == "" {
		return property.InvalidCurve
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return property.CurveID(u)
	}
	if dir == nil {
		return property.InvalidCurve
	}
	return dir.CurveByName(s)
}

func isContractViolation(err error) bool { return codeOf(err) == CodeContractViolation }
