package protopatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/protopatch/content"
)

// Issue codes.
const (
	CodeUnsupportedKind    = "unsupported_kind"
	CodeInvalidType        = "invalid_type"
	CodeInvalidShape       = "invalid_shape"
	CodeRequired           = "required"
	CodeParseError         = "parse_error"
	CodeDuplicateKey       = "duplicate_key"
	CodeTruncated          = "truncated"
	CodeUnknownTarget      = "unknown_target"
	CodeUnknownField       = "unknown_field"
	CodeUnknownProperty    = "unknown_property"
	CodeFieldConversion    = "field_conversion"
	CodeIndexOutOfRange    = "index_out_of_range"
	CodeNotReady           = "not_ready"
	CodeContractViolation  = "contract_violation"
	CodeInvalidPath        = "invalid_path"
	CodeDependencyNotFound = "dependency_not_found"
)

var (
	// ErrUnsupportedKind is returned for a ValueType outside the known kinds.
	ErrUnsupportedKind = errors.New("protopatch: unsupported value kind")
	// ErrInvalidShape is returned when a node has the wrong structure, such as
	// a vector that is not a three element sequence.
	ErrInvalidShape = errors.New("protopatch: invalid node shape")
	// ErrInvalidType is returned when a node's type does not match its kind.
	ErrInvalidType = errors.New("protopatch: node type does not match kind")
	// ErrNotReady is returned when property values are resolved before the
	// property metadata table has been initialized. It never means "no patch".
	ErrNotReady = errors.New("protopatch: property metadata not initialized")
	// ErrContractViolation marks states the property system rules out, such
	// as a curve property reaching scalar decoding.
	ErrContractViolation = errors.New("protopatch: property contract violation")
	// ErrUnknownTarget is returned when a patch names a record that does not exist.
	ErrUnknownTarget = errors.New("protopatch: unknown target record")
	// ErrInvalidPath is returned when a field path cannot be walked.
	ErrInvalidPath = errors.New("protopatch: invalid field path")
)

// Issue describes one rejected entry, field or property.
type Issue struct {
	Source  string // File or stream name, when known.
	Path    string // JSON Pointer into the patch document (for example: /3/Value).
	Code    string
	Message string
	Target  string // Record the entry addresses, when known.
	Cause   error
	Params  map[string]any
}

func (it Issue) Error() string {
	var b strings.Builder
	b.WriteString(it.Code)
	if it.Source != "" || it.Path != "" {
		b.WriteString(" at ")
		b.WriteString(it.Source)
		if it.Source != "" && it.Path != "" {
			b.WriteByte('#')
		}
		b.WriteString(it.Path)
	}
	if it.Message != "" {
		b.WriteString(": ")
		b.WriteString(it.Message)
	}
	return b.String()
}

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes every issue so errors.Is finds sentinel causes.
func (iss Issues) Unwrap() []error {
	out := make([]error, len(iss))
	for i, it := range iss {
		out[i] = it
	}
	return out
}

// Err returns iss as an error, or nil when empty.
func (iss Issues) Err() error {
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// codeOf maps a sentinel cause to its issue code.
func codeOf(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedKind):
		return CodeUnsupportedKind
	case errors.Is(err, ErrInvalidShape):
		return CodeInvalidShape
	case errors.Is(err, ErrInvalidType):
		return CodeInvalidType
	case errors.Is(err, ErrNotReady):
		return CodeNotReady
	case errors.Is(err, ErrContractViolation):
		return CodeContractViolation
	case errors.Is(err, ErrUnknownTarget):
		return CodeUnknownTarget
	case errors.Is(err, ErrInvalidPath):
		return CodeInvalidPath
	case errors.Is(err, content.ErrIndexOutOfRange):
		return CodeIndexOutOfRange
	case errors.Is(err, content.ErrFieldType), errors.Is(err, content.ErrNotArray):
		return CodeFieldConversion
	case errors.Is(err, content.ErrUnknownField):
		return CodeUnknownField
	case errors.Is(err, content.ErrUnknownRecord):
		return CodeDependencyNotFound
	}
	return CodeParseError
}
