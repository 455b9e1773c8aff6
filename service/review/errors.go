package review

import "github.com/cockroachdb/errors"

// HintNotFound is shown when a referenced job or application is missing.
const HintNotFound = "not found or no permission"

var (
	// ErrNotFound is returned when the referenced record is missing or not visible to the admin.
	ErrNotFound = errors.New("review: not found")
	// ErrNotEditable is returned when submitting a view that has no edit path.
	ErrNotEditable = errors.New("review: not editable")
)

func notFound(format string, args ...interface{}) error {
	return errors.WithHint(errors.Wrapf(ErrNotFound, format, args...), HintNotFound)
}
