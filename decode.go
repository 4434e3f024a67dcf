package protopatch

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/reoring/protopatch/content"
)

var errNoCatalog = errors.New("protopatch: prototype values need a catalog")

// Decoder turns a node plus a declared kind into a Value.
type Decoder struct {
	// Catalog is required for Prototype and PrototypeArray values only.
	Catalog Catalog
	Logger  hclog.Logger
}

// Decode converts node according to kind. A node whose type does not match
// the kind fails with ErrInvalidType, a malformed structure with
// ErrInvalidShape, and an unknown kind with ErrUnsupportedKind.
func (d *Decoder) Decode(node any, kind Kind) (Value, error) {
	switch kind {
	case KindString:
		s, ok := nodeString(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return StringValue(s), nil
	case KindEnum:
		s, ok := nodeString(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return EnumValue(s), nil
	case KindBoolean:
		b, ok := nodeBool(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return BoolValue(b), nil
	case KindFloat:
		f, err := nodeFloat32(node)
		if err != nil {
			return nil, err
		}
		return FloatValue(f), nil
	case KindInteger:
		i, err := nodeInt32(node)
		if err != nil {
			return nil, err
		}
		return IntegerValue(i), nil
	case KindPrototypeGuid:
		u, ok := nodeUint64(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return GUIDValue(u), nil
	case KindLocaleStringId:
		u, ok := nodeUint64(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return LocaleStringValue(u), nil
	case KindPrototypeId, KindPrototypeDataRef:
		u, ok := nodeUint64(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return PrototypeIDValue{K: kind, ID: content.PrototypeID(u)}, nil
	case KindPrototypeIdArray, KindPrototypeDataRefArray:
		arr, ok := nodeArray(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		ids := make([]content.PrototypeID, len(arr))
		for i, el := range arr {
			u, ok := nodeUint64(el)
			if !ok {
				return nil, fmt.Errorf("%w: element %d of %s is %s", ErrInvalidType, i, kind, describeNode(el))
			}
			ids[i] = content.PrototypeID(u)
		}
		return PrototypeIDArrayValue{K: kind, IDs: ids}, nil
	case KindVector3:
		return decodeVector3(node)
	case KindPrototype:
		obj, ok := nodeObject(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		b, err := d.builder()
		if err != nil {
			return nil, err
		}
		rec, err := b.Build(obj)
		if err != nil {
			return nil, err
		}
		return PrototypeValue{Record: rec, node: obj}, nil
	case KindPrototypeArray:
		arr, ok := nodeArray(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		b, err := d.builder()
		if err != nil {
			return nil, err
		}
		recs := make([]*content.Record, len(arr))
		for i, el := range arr {
			if _, ok := nodeObject(el); !ok {
				return nil, fmt.Errorf("%w: element %d of %s is %s", ErrInvalidType, i, kind, describeNode(el))
			}
			rec, err := b.Build(el)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			recs[i] = rec
		}
		return PrototypeArrayValue{Records: recs, nodes: arr}, nil
	case KindProperties:
		obj, ok := nodeObject(node)
		if !ok {
			return nil, mismatch(node, kind)
		}
		return NewDeferredProperties(nodeText(obj), obj), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, kind)
}

func (d *Decoder) builder() (*Builder, error) {
	if d.Catalog == nil {
		return nil, errNoCatalog
	}
	return &Builder{Catalog: d.Catalog, Logger: d.Logger}, nil
}

func decodeVector3(node any) (Value, error) {
	arr, ok := nodeArray(node)
	if !ok {
		return nil, fmt.Errorf("%w: Vector3 needs a sequence, got %s", ErrInvalidShape, describeNode(node))
	}
	if len(arr) != 3 {
		return nil, fmt.Errorf("%w: Vector3 needs 3 elements, got %d", ErrInvalidShape, len(arr))
	}
	var xyz [3]float32
	for i, el := range arr {
		f, err := nodeFloat32(el)
		if err != nil {
			return nil, fmt.Errorf("%w: Vector3 element %d is %s", ErrInvalidShape, i, describeNode(el))
		}
		xyz[i] = f
	}
	return Vector3Value{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func mismatch(node any, kind Kind) error {
	return fmt.Errorf("%w: %s value cannot be %s", ErrInvalidType, kind, describeNode(node))
}
