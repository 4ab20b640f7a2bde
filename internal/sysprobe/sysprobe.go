//go:build linux && amd64

package sysprobe

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/tscwall/tscwall/internal/wtmerr"
)

// defaultCacheLineSize is used only if the sysfs coherency_line_size file is
// unreadable; it equals golang.org/x/sys/cpu.CacheLinePadSize on amd64.
const defaultCacheLineSize = 64

// State is the affinity + machine snapshot CaptureState produces. It is
// treated as read-only after construction (spec.md §3).
type State struct {
	NCPUs         int
	InitialCPU    int
	InitialMask   unix.CPUSet
	CacheLineSize int
}

// AllowedCPUs returns the CPU indices the calling thread may run on, in
// ascending order. This is the AllowedCpuSet entity from spec.md §3.
func (s State) AllowedCPUs() []int {
	cpus := make([]int, 0, s.NCPUs)
	for i := 0; i < len(s.InitialMask)*64; i++ {
		if s.InitialMask.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	return cpus
}

// CaptureState reads the current thread's CPU affinity mask and the
// machine's cache-line size. It fails if affinity cannot be queried or the
// cache-line size cannot be determined.
func CaptureState() (State, error) {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return State{}, fmt.Errorf("sysprobe: query affinity: %w: %w", err, wtmerr.ErrEnvironment)
	}

	cpus := make([]int, 0, mask.Count())
	for i := 0; i < len(mask)*64; i++ {
		if mask.IsSet(i) {
			cpus = append(cpus, i)
		}
	}
	if len(cpus) == 0 {
		return State{}, fmt.Errorf("sysprobe: empty affinity mask: %w", wtmerr.ErrEnvironment)
	}

	lineSize, err := cacheLineSize()
	if err != nil {
		return State{}, fmt.Errorf("sysprobe: cache-line size: %w: %w", err, wtmerr.ErrEnvironment)
	}

	return State{
		NCPUs: mask.Count(),
		// The current CPU cannot be read without a getcpu(2) wrapper; the
		// lowest allowed CPU is used instead, which is sufficient because
		// RestoreState only needs to re-pin to *a* CPU the thread was
		// already permitted on (see SPEC_FULL.md, C1/C2 notes).
		InitialCPU:    cpus[0],
		InitialMask:   mask,
		CacheLineSize: lineSize,
	}, nil
}

// RestoreState restores the affinity captured by CaptureState: it first pins
// to InitialCPU alone (maximizing the chance of returning to warm caches on
// that physical CPU), then widens back to InitialMask. Both steps must
// succeed; failure is fatal to the enclosing operation per spec.md §7.
func RestoreState(s State) error {
	var single unix.CPUSet
	single.Zero()
	single.Set(s.InitialCPU)
	if err := unix.SchedSetaffinity(0, &single); err != nil {
		return fmt.Errorf("sysprobe: restore to cpu %d: %w: %w", s.InitialCPU, err, wtmerr.ErrRestoreFailed)
	}
	if err := unix.SchedSetaffinity(0, &s.InitialMask); err != nil {
		return fmt.Errorf("sysprobe: widen to initial mask: %w: %w", err, wtmerr.ErrRestoreFailed)
	}
	return nil
}

// cacheLineSize reads the machine-wide cache-line size from sysfs. The
// library documents that it is intended for homogeneous CPUs (spec.md
// §4.1), so cpu0's L1 line size is treated as authoritative for the whole
// machine.
func cacheLineSize() (int, error) {
	const path = "/sys/devices/system/cpu/cpu0/cache/index0/coherency_line_size"
	b, err := os.ReadFile(path)
	if err != nil {
		if defaultCacheLineSize > 0 {
			return defaultCacheLineSize, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil || n <= 0 {
		return defaultCacheLineSize, nil
	}
	return n, nil
}
