package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier. Tests may replace it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new identifier.
func New() string { return NewFunc() }

// NewRequestID returns an identifier for the X-Request-ID header of outbound
// gateway calls.
func NewRequestID() string { return "jobdesk-" + NewFunc() }
