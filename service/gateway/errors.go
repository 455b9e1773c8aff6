package gateway

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

// StatusError is returned for a non-2xx response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	source := strings.TrimSpace(e.Method + " " + e.URL)
	if source == "" {
		source = "proxy response"
	}
	msg := fmt.Sprintf("%s: %d %s", source, e.StatusCode, http.StatusText(e.StatusCode))
	if body := strings.TrimSpace(e.Body); body != "" {
		if len(body) > 200 {
			body = body[:200]
		}
		msg += ": " + body
	}
	return msg
}

// IsStatus returns true when err carries a StatusError with code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode == code
	}
	return false
}
