// Package idgen wraps the UUID generator so that it can be stubbed in tests.
// Decision ids and outbound request ids are opaque strings; callers must not
// parse them.
package idgen
