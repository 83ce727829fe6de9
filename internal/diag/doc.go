// Package diag defines the diagnostic log shared by every compilation phase.
//
// # Data model
//
// Diagnostic is the central record: a severity, a compact numeric Code with a
// stable string form, the unit being compiled, the originating method
// signature (or empty), the IL byte offset (or 0) and a formatted message.
//
// # Emitting diagnostics
//
// Phases report through a Reporter so emission stays decoupled from storage.
// BagReporter appends into a Bag, which is the append-only log of one run.
// ReportBuilder helps to attach unit/method/offset before calling Emit.
//
// Rendering lives in internal/diagfmt; this package performs no IO.
package diag
