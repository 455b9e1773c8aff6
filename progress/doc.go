// Package progress keeps counters for a batch of admin decisions. The
// tracker travels in the context so the dispatcher can update it without a
// global registry.
package progress
