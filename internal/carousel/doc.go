//go:build linux && amd64

// Package carousel implements spec.md §4.2's Carousel Sampler (C3): a
// single thread migrated round-robin across a fixed CPU list, reading the
// TSC once per stop. It is the simpler of the two sampling engines (see
// internal/casprobe for the CAS-ordered alternative) and is used both for
// per-CPU-pair offset bounding (k=2) and for a whole-set monotonicity pass
// (k=N_allowed).
package carousel
