// Package api contains the contract types shared by the canopy behavior tree
// engine and its supporting packages: evaluation outcomes, node kinds, the
// error catalogue, and the observability seam.
//
// Most users interact with the higher-level canopy package, which re-exports
// selected types and helpers from this package. The api package is intended
// for custom integrations such as bespoke observers or trace stores.
//
// # Outcomes
//
// Every evaluation of a node yields exactly one Status:
//
//   - StatusSuccess: the node achieved its goal.
//   - StatusFailure: the node could not achieve its goal. This is ordinary
//     data, never an error.
//   - StatusRunning: the outcome is not decided yet; evaluate again later and
//     the engine resumes where it left off.
//
// # Observability
//
// The Observer interface receives tick and node lifecycle callbacks. Ready
// made implementations cover structured logging (LoggingObserver, backed by
// log/slog), in-memory counters (BasicMetrics), fan-out (CompositeObserver)
// and append-only tracing into a TraceStore (TraceObserver).
//
// Observers are called synchronously from the evaluating goroutine and may be
// shared by many concurrent runs, so implementations must be fast and safe for
// concurrent use.
package api
