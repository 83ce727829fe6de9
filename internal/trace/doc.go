// Package trace records structured spans for a compilation session.
//
// Enable tracing via command-line flags:
//
//	kilc scan --trace=- --trace-level=detail program.toml
//
// Implementations: the nop tracer (disabled), StreamTracer (immediate write),
// RingTracer (last N events, dumped on failure) and MultiTracer (fan-out).
//
// Scopes, coarse to fine: driver, pass, unit, block. LevelPhase shows driver
// and pass spans, LevelDetail adds units, LevelDebug adds every block.
//
//	span := trace.Begin(t, trace.ScopeUnit, "unit:"+u.ID, parent)
//	defer span.End("")
package trace
