// Package deltarange implements spec.md §4.4's Delta-Range Analyzer (C6): it
// derives a closed interval bounding the TSC offset (TSC_other − TSC_base)
// between two CPUs, from either a carousel sample pair or a merged
// CAS-ordered probe pair, and intersects bounds across every round or
// enclosing pair it finds. An intersection that goes empty, or a pair that
// violates per-CPU monotonicity, is an inconsistency; too few usable pairs
// in the CAS-ordered variant is reported separately as poor statistics.
package deltarange
