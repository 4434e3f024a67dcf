package protopatch

import (
	eng "github.com/reoring/protopatch/internal/engine"
)

// DetectDuplicateKeys scans a JSON document for objects that repeat a key and
// returns one issue per duplicate. Ignore disables the scan.
func DetectDuplicateKeys(data []byte, strict Strictness) (Issues, error) {
	if strict.OnDuplicateKey == Ignore {
		return nil, nil
	}
	var found []eng.Issue
	_, err := parseNode(JSONBytes(data), LoadOpt{Strictness: Strictness{OnDuplicateKey: Warn}}, func(is eng.Issue) {
		found = append(found, is)
	})
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(found), nil
}

func toEngineDup(s Severity) eng.DupPolicy {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

func fromEngineIssues(si []eng.Issue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Message: s.Message})
	}
	return iss
}
