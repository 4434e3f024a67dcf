package protopatch

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// Strictness configures enforcement for duplicate keys in patch documents.
type Strictness struct {
	// OnDuplicateKey: Warn logs and keeps the entry (last key wins), Error
	// rejects the entry that contains the duplicate.
	OnDuplicateKey Severity
}

// LoadOpt bundles patch loading options.
type LoadOpt struct {
	Strictness Strictness
	MaxDepth   int   // Maximum nesting depth of a document; 0 disables the check.
	MaxBytes   int64 // Maximum document size; 0 disables the check.
	// FailFast stops a load at the first rejected entry.
	FailFast bool
}

func lastLoadOpt(opts []LoadOpt) LoadOpt {
	var opt LoadOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	return opt
}
