// Package monotonic implements spec.md §4.6's Monotonicity Evaluator (C8).
// The carousel path walks a carousel sample in round-major, CPU-minor order
// (including the trailing bracket sample) and reports monotonic iff every
// subsequent TSC is at least the previous one. The CAS-ordered path walks
// the globally Seq-ordered probe stream once, simultaneously checking each
// CPU's own TSC for non-decrease and counting "full loops" — the
// statistical weight a CAS-ordered finding is trusted against.
package monotonic
