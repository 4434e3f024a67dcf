package engine

import "strings"

// Issue codes produced while decoding.
const (
	CodeParseError   = "parse_error"
	CodeDuplicateKey = "duplicate_key"
	CodeTruncated    = "truncated"
)

// DupPolicy says what a repeated object key does.
type DupPolicy int

const (
	DupIgnore DupPolicy = iota
	DupWarn
	DupError
)

// Options bounds a decode. Zero values disable the limit.
type Options struct {
	OnDuplicate DupPolicy
	MaxDepth    int
	MaxBytes    int64
	// OnIssue sees every issue, fatal or not.
	OnIssue func(Issue)
}

// Issue is a problem found at a JSON pointer. Entry is the index of the
// element of a top-level array the problem sits in, -1 outside one.
type Issue struct {
	Code    string
	Path    string
	Entry   int
	Message string
}

// Error is an Issue that stopped the decode.
type Error struct{ Issue }

func (e *Error) Error() string { return e.Message }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func pointer(segs []string) string {
	if len(segs) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteByte('/')
		b.WriteString(pointerEscaper.Replace(s))
	}
	return b.String()
}
