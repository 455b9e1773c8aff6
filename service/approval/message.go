package approval

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// HintRetry is attached to every dispatch failure.
const HintRetry = "failed, please try again"

// UserMessage renders the hints carried by err for display. Errors without
// hints fall back to HintRetry.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	hints := errors.GetAllHints(err)
	if len(hints) == 0 {
		return HintRetry
	}
	return strings.Join(hints, "; ")
}
