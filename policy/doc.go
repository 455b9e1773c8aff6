// Package policy provides optional rules applied before a decision reaches
// the backend, for example to confirm every approval or to block selected
// operations for an admin profile.
package policy
