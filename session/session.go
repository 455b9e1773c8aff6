// Package session carries the acting admin's identity and display
// preferences. Both are passed explicitly to the components that need them.
package session

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// Session identifies the acting admin. Token is sent as a bearer token on
// every gateway call; obtaining or refreshing it is left to the caller.
type Session struct {
	AdminID string `json:"adminId,omitempty" yaml:"adminId,omitempty"`
	Token   string `json:"token,omitempty" yaml:"token,omitempty"`
}

// New creates a session.
func New(adminID, token string) *Session {
	return &Session{AdminID: strings.TrimSpace(adminID), Token: strings.TrimSpace(token)}
}

// Anonymous returns true when no admin is set.
func (s *Session) Anonymous() bool {
	return s == nil || s.AdminID == ""
}

// Theme selects how the CLI renders output.
type Theme string

const (
	ThemePlain Theme = "plain"
	ThemeColor Theme = "color"
)

// ParseTheme returns the theme for value; empty selects ThemeColor.
func ParseTheme(value string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(value))) {
	case "", ThemeColor:
		return ThemeColor, nil
	case ThemePlain:
		return ThemePlain, nil
	}
	return "", errors.Newf("unknown theme %q, expected plain or color", value)
}
