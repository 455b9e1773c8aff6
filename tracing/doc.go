// Package tracing wraps OpenTelemetry so that gateway calls and approval
// dispatches can be traced without callers importing the SDK directly.
// Applications that never call Init get no-op spans.
package tracing
