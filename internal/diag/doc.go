// Package diag defines the diagnostic model shared by all compiler phases.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     the lexer, parser, resolver and encoding validator.
//   - Offer light-weight utilities (Reporter, Bag, Deferred) that let producers
//     emit diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform IO or CLI integration. Rich rendering lives in
// internal/diagfmt; FormatShortDiagnostics is kept here because tests and the
// disk cache both rely on a stable one-line form.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Note < Warning < Error (severity.go).
//   - Code – compact numeric identifier with a stable string ID (codes.go).
//     Ranges: LEX 1xxx, SYN 2xxx, SEM 3xxx, IO 4xxx, PRJ 5xxx, ENC 6xxx.
//   - Message – short, actionable text.
//   - Primary – the source.Span pointing at the issue.
//   - Notes – secondary spans, e.g. "previous definition is here".
//
// # Emitting diagnostics
//
// Phases report through a Reporter. ReportError / ReportWarning / ReportNote
// return a builder; chain WithNote and finish with Emit.
//
// A Bag never reorders or deduplicates. Its severity counters are the single
// source of truth for whether a compilation succeeded: see Bag.HasErrors.
//
// Passes that discover problems out of order (the resolver walks a graph) buffer
// them in a Deferred keyed by arena index and flush once at the end of the pass.
package diag
