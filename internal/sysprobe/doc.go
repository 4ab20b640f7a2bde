//go:build linux && amd64

// Package sysprobe implements spec.md §4.1's Process/System Probe (C1): it
// captures the calling thread's CPU affinity and the machine's cache-line
// size once at the start of a public operation, and restores affinity on
// every exit path that mutated it.
//
// Callers must have already called runtime.LockOSThread before calling
// CaptureState, and must keep that lock held until after RestoreState
// returns — affinity is a per-OS-thread resource, and if the Go scheduler
// moved the calling goroutine to a different thread mid-sequence the
// captured state would describe the wrong thread.
package sysprobe
