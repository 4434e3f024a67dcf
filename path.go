package protopatch

import (
	"strconv"
	"strings"
)

// NoIndex marks an array-addressed field whose index did not parse.
const NoIndex = -1

// PathParts is the decomposition of a field path such as "A.B.C[2]".
type PathParts struct {
	ClearPath string // Container path before the last '.', or "".
	FieldName string // Field name without any bracketed suffix.
	IsArray   bool   // The field was addressed with brackets.
	Index     int    // Parsed index, or NoIndex.
}

// SplitPath splits a field path at its last '.' and strips a trailing
// "[n]" from the field name. When the brackets are present but n is not a
// non-negative integer, IsArray is still set and Index is NoIndex.
func SplitPath(path string) PathParts {
	p := PathParts{FieldName: path, Index: NoIndex}
	if dot := strings.LastIndexByte(path, '.'); dot >= 0 {
		p.ClearPath = path[:dot]
		p.FieldName = path[dot+1:]
	}
	name, index, isArray := splitIndex(p.FieldName)
	p.FieldName, p.Index, p.IsArray = name, index, isArray
	return p
}

func splitIndex(field string) (name string, index int, isArray bool) {
	open := strings.LastIndexByte(field, '[')
	if open < 0 {
		return field, NoIndex, false
	}
	index = NoIndex
	if end := strings.LastIndexByte(field, ']'); end > open {
		if n, err := strconv.Atoi(field[open+1 : end]); err == nil && n >= 0 {
			index = n
		}
	}
	return field[:open], index, true
}

// Segment is one hop of a container path.
type Segment struct {
	Name    string
	IsArray bool
	Index   int
}

// SplitSegments splits a container path into its hops. An empty path has no
// segments.
func SplitSegments(clearPath string) []Segment {
	if clearPath == "" {
		return nil
	}
	parts := strings.Split(clearPath, ".")
	out := make([]Segment, 0, len(parts))
	for _, part := range parts {
		name, index, isArray := splitIndex(part)
		out = append(out, Segment{Name: name, IsArray: isArray, Index: index})
	}
	return out
}

func (s Segment) String() string {
	if !s.IsArray {
		return s.Name
	}
	if s.Index == NoIndex {
		return s.Name + "[]"
	}
	return s.Name + "[" + strconv.Itoa(s.Index) + "]"
}
