package protopatch

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	j "github.com/goccy/go-json"
)

// Nodes are the decoded form of structured text: map[string]any, []any,
// json.Number, string, bool or nil.

func nodeUint64(n any) (uint64, bool) {
	num, ok := n.(json.Number)
	if !ok {
		return 0, false
	}
	u, err := strconv.ParseUint(string(num), 10, 64)
	return u, err == nil
}

func nodeInt64(n any) (int64, bool) {
	num, ok := n.(json.Number)
	if !ok {
		return 0, false
	}
	i, err := strconv.ParseInt(string(num), 10, 64)
	return i, err == nil
}

func nodeFloat64(n any) (float64, bool) {
	num, ok := n.(json.Number)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(num), 64)
	return f, err == nil
}

func nodeString(n any) (string, bool) {
	s, ok := n.(string)
	return s, ok
}

func nodeBool(n any) (bool, bool) {
	b, ok := n.(bool)
	return b, ok
}

func nodeArray(n any) ([]any, bool) {
	a, ok := n.([]any)
	return a, ok
}

func nodeObject(n any) (map[string]any, bool) {
	m, ok := n.(map[string]any)
	return m, ok
}

// nodeIdentifier reads a 64-bit handle from a number, or from a string that
// holds a plain decimal number.
func nodeIdentifier(n any) (uint64, bool) {
	if u, ok := nodeUint64(n); ok {
		return u, true
	}
	if s, ok := nodeString(n); ok {
		u, err := strconv.ParseUint(s, 10, 64)
		return u, err == nil
	}
	return 0, false
}

func nodeInt32(n any) (int32, error) {
	i, ok := nodeInt64(n)
	if !ok {
		return 0, fmt.Errorf("%w: expected integer, got %s", ErrInvalidType, describeNode(n))
	}
	if i < math.MinInt32 || i > math.MaxInt32 {
		return 0, fmt.Errorf("%w: %d overflows a 32-bit integer", ErrInvalidType, i)
	}
	return int32(i), nil
}

func nodeFloat32(n any) (float32, error) {
	f, ok := nodeFloat64(n)
	if !ok {
		return 0, fmt.Errorf("%w: expected number, got %s", ErrInvalidType, describeNode(n))
	}
	f32, ok := finiteFloat32(f)
	if !ok {
		return 0, fmt.Errorf("%w: %s is outside the 32-bit float range", ErrInvalidType, n)
	}
	return f32, nil
}

func finiteFloat32(f float64) (float32, bool) {
	f32 := float32(f)
	return f32, !math.IsInf(float64(f32), 0) && !math.IsNaN(float64(f32))
}

// nodeText renders a node back to compact JSON.
func nodeText(n any) string {
	if s, ok := n.(string); ok {
		return s
	}
	b, err := j.Marshal(n)
	if err != nil {
		return fmt.Sprint(n)
	}
	return string(b)
}

func describeNode(n any) string {
	switch n.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case json.Number:
		return "number"
	case string:
		return "string"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", n)
}

func uintNumber(u uint64) json.Number { return json.Number(strconv.FormatUint(u, 10)) }

func float32Number(f float32) json.Number {
	return json.Number(strconv.FormatFloat(float64(f), 'g', -1, 32))
}
