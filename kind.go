package protopatch

import (
	"fmt"
	"strings"
)

// Kind is the declared type of a patch value.
type Kind uint8

const (
	KindString Kind = iota
	KindBoolean
	KindFloat
	KindInteger
	KindEnum
	KindPrototypeGuid
	KindPrototypeId
	KindPrototypeIdArray
	KindLocaleStringId
	KindPrototypeDataRef
	KindPrototypeDataRefArray
	KindPrototype
	KindPrototypeArray
	KindVector3
	KindProperties

	kindCount
)

var kindNames = [kindCount]string{
	KindString:                "String",
	KindBoolean:               "Boolean",
	KindFloat:                 "Float",
	KindInteger:               "Integer",
	KindEnum:                  "Enum",
	KindPrototypeGuid:         "PrototypeGuid",
	KindPrototypeId:           "PrototypeId",
	KindPrototypeIdArray:      "PrototypeIdArray",
	KindLocaleStringId:        "LocaleStringId",
	KindPrototypeDataRef:      "PrototypeDataRef",
	KindPrototypeDataRefArray: "PrototypeDataRefArray",
	KindPrototype:             "Prototype",
	KindPrototypeArray:        "PrototypeArray",
	KindVector3:               "Vector3",
	KindProperties:            "Properties",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, kindCount)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

// ParseKind maps a ValueType name to a Kind. The array marker "[]" is
// accepted as a spelling of the "Array" suffix.
func ParseKind(s string) (Kind, error) {
	name := strings.TrimSpace(s)
	if strings.HasSuffix(name, "[]") {
		name = strings.TrimSuffix(name, "[]") + "Array"
	}
	for i, n := range kindNames {
		if n == name {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// IsArray reports whether values of the kind are sequences.
func (k Kind) IsArray() bool {
	switch k {
	case KindPrototypeIdArray, KindPrototypeDataRefArray, KindPrototypeArray:
		return true
	}
	return false
}
