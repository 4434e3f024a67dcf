package protopatch

import (
	"encoding/json"
	"strconv"

	"github.com/reoring/protopatch/content"
)

// Coerce converts a node for assignment into a field of type ft.
//
// Identifier fields take a number and return the typed handle. Everything
// else falls back to the node's own type: string, the narrowest of uint64,
// int64 and float64 that holds the number exactly (else its text), bool, ""
// for null, or the JSON text of the node.
func Coerce(node any, ft content.FieldType) any {
	if ft.IsIdentifier() {
		if u, ok := nodeUint64(node); ok {
			switch ft {
			case content.FieldPrototypeRef:
				return content.PrototypeID(u)
			case content.FieldAsset:
				return content.AssetID(u)
			case content.FieldPrototypeGUID:
				return content.PrototypeGUID(u)
			case content.FieldLocaleString:
				return content.LocaleStringID(u)
			}
		}
	}
	switch n := node.(type) {
	case string:
		return n
	case json.Number:
		return coerceNumber(n)
	case bool:
		return n
	case nil:
		return ""
	}
	return nodeText(node)
}

func coerceNumber(n json.Number) any {
	s := string(n)
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return u
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
