// Package wtmtypes holds the small, dependency-free data types shared by the
// TSC reliability pipeline: probes, probe arrays, delta ranges and the
// conversion parameters. None of these types carry behavior beyond trivial
// accessors — the algorithms that produce and consume them live in the
// sibling internal packages (carousel, casprobe, deltarange, enclosing,
// monotonic, rate, convert).
//
// All mutable values here are created fresh for one public operation and
// discarded when it returns; nothing in this package is safe to keep alive
// across calls.
package wtmtypes
