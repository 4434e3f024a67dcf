package protopatch

import (
	"errors"
	"io"

	eng "github.com/reoring/protopatch/internal/engine"
)

// ParseNode decodes a JSON document into a node tree (map[string]any,
// []any, json.Number, string, bool, nil) using the current JSON driver.
func ParseNode(data []byte, opts ...LoadOpt) (any, error) {
	opt := lastLoadOpt(opts)
	if opt.MaxBytes > 0 && int64(len(data)) > opt.MaxBytes {
		return nil, singleIssue(CodeTruncated, "max bytes exceeded")
	}
	return parseNode(JSONBytes(data), opt, nil)
}

// ParseNodeReader is ParseNode over a reader.
func ParseNodeReader(r io.Reader, opts ...LoadOpt) (any, error) {
	opt := lastLoadOpt(opts)
	if opt.MaxBytes > 0 {
		data, err := io.ReadAll(io.LimitReader(r, opt.MaxBytes+1))
		if err != nil {
			return nil, singleIssue(CodeParseError, err.Error())
		}
		return ParseNode(data, opt)
	}
	return parseNode(JSONReader(r), opt, nil)
}

func parseNode(src Source, opt LoadOpt, sink func(eng.Issue)) (any, error) {
	n, err := eng.Decode(src.tokens, eng.Options{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
		OnIssue:     sink,
	})
	if err != nil {
		return nil, toIssues(err)
	}
	return n, nil
}

func toIssues(err error) Issues {
	if err == nil {
		return nil
	}
	if ii, ok := AsIssues(err); ok {
		return ii
	}
	var ee *eng.Error
	if errors.As(err, &ee) {
		return AppendIssues(nil, Issue{Code: ee.Code, Path: ee.Path, Message: ee.Message})
	}
	return AppendIssues(nil, Issue{Code: CodeParseError, Message: err.Error(), Cause: err})
}

func singleIssue(code, msg string) Issues { return AppendIssues(nil, Issue{Code: code, Message: msg}) }
