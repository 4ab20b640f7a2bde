//go:build linux && amd64

// Package tscwall is the public surface of the TSC reliability library: it
// orchestrates the process/system probe, the two sampling engines
// (carousel and CAS-ordered), the delta-range and enclosing-range
// analyzers, the monotonicity evaluator, the rate estimator and the
// conversion-parameter builder into five operations a caller can use
// without touching any internal package directly.
//
// EvaluateCarousel, EvaluateCAS and BuildConversionParams each capture the
// calling thread's CPU affinity on entry and restore it on every exit path,
// including error paths (TicksToNS and ReadTSC leave affinity alone); a failed
// restoration is always reported even when the measurement itself
// succeeded (spec.md §7).
package tscwall
