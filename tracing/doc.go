// Package tracing provides a thin wrapper around OpenTelemetry tracing so
// that the rest of the code-base can use a couple of small helpers
// (StartSpan, Span.SetStatus, ...) without being concerned with the
// underlying implementation. Everything is delegated to OpenTelemetry.
package tracing
