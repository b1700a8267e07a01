// Package observe provides observability primitives for contract calls.
//
// It is a pure instrumentation library: tracing, metrics and structured
// logging around calls the caller package dispatches to a node, plus
// counters for how the call cache served each request. Exporters are
// selected by name (otlp, prometheus, stdout, none).
package observe
