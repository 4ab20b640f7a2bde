//go:build linux && amd64

// Package tsc wraps the one-instruction RDTSC primitive spec.md §1 calls out
// as external to the core. Everything else in the library is pure Go built
// on top of the single Read call here.
package tsc

// readTSCAsm is defined in tsc_amd64.s.
//
//go:noescape
func readTSCAsm() uint64

// fenceAsm is defined in tsc_amd64.s.
//
//go:noescape
func fenceAsm()

// Read reads the Time-Stamp Counter of the CPU the calling goroutine is
// currently running on. Callers that need a specific CPU's TSC must pin the
// calling thread first (see internal/pin).
func Read() uint64 {
	return readTSCAsm()
}

// Fence emits a full memory fence (MFENCE). RDTSC is not a serializing
// instruction and does not participate in the coherency protocol the Go
// atomic package's acquire/release ordering relies on, so code that must
// order a TSC read against a preceding atomic load needs an explicit fence
// between the two — acquire/release alone does not constrain it.
func Fence() {
	fenceAsm()
}
