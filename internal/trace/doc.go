// Package trace records compiler phases as nested spans.
//
// Tracing is off unless --trace is given. A stream tracer writes events as
// they happen (text or NDJSON), a ring tracer keeps the last events in memory
// so that an internal compiler error can dump them.
//
//	idlc check --trace=- --trace-level=detail shop.idl
//
// Levels: off, error (ring dump on crash only), phase (driver and passes),
// detail (per file), debug (per definition).
//
// The tracer travels through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "resolve", 0)
//	defer span.End("")
package trace
