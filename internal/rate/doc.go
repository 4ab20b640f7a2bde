// Package rate implements spec.md §4.7's Rate Estimator (C9): it takes a
// configured number of timed (wall-clock, TSC) sample pairs, computes a
// ticks-per-second estimate from each, discards outliers via Welford's
// incremental mean/standard-deviation, and averages the survivors using an
// offset-from-minimum sum to avoid overflowing a uint64 accumulator.
package rate
