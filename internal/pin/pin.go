//go:build linux && amd64

// Package pin implements spec.md §4.1's CPU Pinning (C2): scoped migration
// of the calling OS thread to a single named CPU. Restoration to the
// thread's original affinity is the caller's responsibility via
// sysprobe.RestoreState — this package only ever narrows affinity.
package pin

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/tscwall/tscwall/internal/wtmerr"
)

// To pins the calling OS thread to the single given CPU. The caller must
// already hold runtime.LockOSThread; To does not call it, since the
// carousel sampler re-pins many times per goroutine and LockOSThread must
// only be acquired (and later released) once per goroutine lifetime.
func To(cpu int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return fmt.Errorf("pin: cpu %d: %w: %w", cpu, err, wtmerr.ErrEnvironment)
	}
	return nil
}
