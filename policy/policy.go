package policy

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
)

// Modes recognised by the dispatcher.
const (
	ModeAsk  = "ask"  // confirm every operation
	ModeAuto = "auto" // dispatch without confirmation (default)
	ModeDeny = "deny" // block every operation
)

var (
	// ErrBlocked is returned when the operation is excluded by the lists or
	// the policy denies everything.
	ErrBlocked = errors.New("operation blocked by policy")
	// ErrDeclined is returned when the admin declines a confirmation.
	ErrDeclined = errors.New("operation declined")
)

// AskFunc is invoked when Mode==ask. Returning true confirms the operation.
// Ask mode without an AskFunc declines every operation.
// Implementations may mutate the policy, for example switching to ModeAuto
// after an "approve all" answer.
type AskFunc func(ctx context.Context, operation, subject string, p *Policy) bool

// Policy represents the confirmation settings of the current session.
//
//   - Mode controls the high-level behaviour (ask / auto / deny).
//   - AllowList and BlockList filter operations regardless of Mode.
//   - Ask is only used when Mode==ask.
//
// A nil *Policy dispatches everything.
type Policy struct {
	Mode      string
	AllowList []string
	BlockList []string
	Ask       AskFunc
}

// Config is the serialisable part of a Policy.
type Config struct {
	Mode      string   `json:"mode,omitempty" yaml:"mode,omitempty"`
	AllowList []string `json:"allow,omitempty" yaml:"allow,omitempty"`
	BlockList []string `json:"block,omitempty" yaml:"block,omitempty"`
}

// Validate checks the mode.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	switch strings.ToLower(c.Mode) {
	case "", ModeAsk, ModeAuto, ModeDeny:
		return nil
	}
	return errors.Newf("unsupported policy mode: %q", c.Mode)
}

// ToConfig converts a runtime Policy into a persistable Config.
func ToConfig(p *Policy) *Config {
	if p == nil {
		return nil
	}
	return &Config{
		Mode:      p.Mode,
		AllowList: append([]string(nil), p.AllowList...),
		BlockList: append([]string(nil), p.BlockList...),
	}
}

// FromConfig converts a stored Config to a runtime Policy without AskFunc.
func FromConfig(c *Config) *Policy {
	if c == nil {
		return nil
	}
	return &Policy{
		Mode:      strings.ToLower(c.Mode),
		AllowList: append([]string(nil), c.AllowList...),
		BlockList: append([]string(nil), c.BlockList...),
	}
}

// IsAllowed evaluates AllowList and BlockList by case-insensitive
// comparison of the operation name.
func (p *Policy) IsAllowed(operation string) bool {
	if p == nil {
		return true
	}
	normalized := strings.ToLower(operation)

	// BlockList has priority.
	for _, b := range p.BlockList {
		if normalized == strings.ToLower(b) {
			return false
		}
	}
	if len(p.AllowList) == 0 {
		return true
	}
	for _, a := range p.AllowList {
		if normalized == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// Check returns nil when operation on subject may be dispatched.
func (p *Policy) Check(ctx context.Context, operation, subject string) error {
	if p == nil {
		return nil
	}
	if p.Mode == ModeDeny || !p.IsAllowed(operation) {
		return errors.WithHint(errors.Wrapf(ErrBlocked, "%s %s", operation, subject), "this operation is disabled for your profile")
	}
	if p.Mode != ModeAsk {
		return nil
	}
	if p.Ask == nil {
		return errors.WithHint(errors.Wrapf(ErrDeclined, "%s %s: no confirmation prompt", operation, subject), "confirmation is required for this operation")
	}
	if !p.Ask(ctx, operation, subject, p) {
		return errors.Wrapf(ErrDeclined, "%s %s", operation, subject)
	}
	return nil
}

type ctxKeyT struct{}

var ctxKey ctxKeyT

// WithPolicy embeds policy in ctx.
func WithPolicy(ctx context.Context, p *Policy) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey, p)
}

// FromContext extracts the policy, or nil.
func FromContext(ctx context.Context) *Policy {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxKey).(*Policy); ok {
		return v
	}
	return nil
}
