// Package tracing provides a thin wrapper around OpenTelemetry so that the
// lifecycle engine can emit spans without coupling callers to the upstream
// API. Applications that do not require tracing simply skip Init – spans
// become no-ops.
package tracing
