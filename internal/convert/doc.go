// Package convert implements spec.md §4.8's Conversion-Parameter Builder
// (C10): given a cleaned ticks-per-second rate and a configured modulus, it
// derives the multiply-shift constants that let the hot conversion path
// turn a raw TSC value into nanoseconds using only shifts, masks,
// multiplications and additions — no division, and (by construction) no
// uint64 overflow for any representable TSC value. It also computes the
// seconds remaining before a TSC wraps.
package convert
