// Package enclosing implements spec.md §4.5's Enclosing-Range Computer (C7):
// for a fixed base CPU and each other allowed CPU, it samples the pair (via
// carousel or CAS-ordered probing), runs the Delta-Range Analyzer, and
// combines every peer's [lo, hi] into one enclosing range whose length is
// the library's maximum-shift estimate. The triangulation is sound because
// a pairwise bound relative to the base implies a factor-of-two bound
// between any two peers.
package enclosing
