//go:build linux && amd64

// Package casprobe implements spec.md §4.3's CAS-Ordered Prober (C4) and its
// Probe-Thread Supervisor (C5): one goroutine per allowed CPU, each pinned
// and locked to its own OS thread, racing a shared sequence counter via
// compare-and-swap to produce a densely, globally numbered probe stream.
//
// "Thread creation" in spec.md's pthread-flavored design becomes, in Go, a
// goroutine that always starts but can fail at its pinning step; the
// supervisor treats that pin failure exactly like spec.md's creation
// failure (cancel predecessors, proceed to the join wait). The shared abort
// flag spec.md's design notes call for asynchronous-cancellation-averse
// runtimes to use is a context.Context, checked before every probe and
// inside the startup barrier's spin (not between the CAS retries of a
// single probe).
package casprobe
