package protopatch

import (
	"github.com/reoring/protopatch/i18n"
)

// issueFromError turns a decode or apply error into an Issue at p. The code
// comes from the sentinel the error wraps and the message is the localized
// text for that code followed by the error detail.
func issueFromError(p PathRef, err error) Issue {
	code := codeOf(err)
	return Issue{
		Path:    p.Pointer(),
		Code:    code,
		Message: i18n.T(code, map[string]string{"detail": err.Error()}),
		Cause:   err,
	}
}
