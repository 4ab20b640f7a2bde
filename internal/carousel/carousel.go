//go:build linux && amd64

package carousel

import (
	"fmt"
	"runtime"

	"github.com/tscwall/tscwall/internal/pin"
	"github.com/tscwall/tscwall/internal/tsc"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// Sample round-robins the calling thread across cpus for rounds rounds,
// reading the TSC at every stop. cpus[0] (the base) receives one extra
// trailing sample after the final round, so the returned matrix has
// len(M[0]) == rounds+1 and len(M[i]) == rounds for i > 0 (spec.md §4.2,
// §9 "carousel extra sample").
//
// Sample locks the calling goroutine to its OS thread for its duration and
// unlocks it before returning; callers must still restore the thread's
// original affinity afterwards (see internal/sysprobe.RestoreState) since
// Sample only ever narrows it.
func Sample(cpus []int, rounds int) (wtmtypes.CarouselMatrix, error) {
	if len(cpus) == 0 {
		return nil, fmt.Errorf("carousel: empty cpu list")
	}
	if rounds <= 0 {
		return nil, fmt.Errorf("carousel: rounds must be > 0, got %d", rounds)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	m := make(wtmtypes.CarouselMatrix, len(cpus))
	m[0] = make([]uint64, 0, rounds+1)
	for i := 1; i < len(cpus); i++ {
		m[i] = make([]uint64, 0, rounds)
	}

	for r := 0; r < rounds; r++ {
		for i, c := range cpus {
			if err := pin.To(c); err != nil {
				return nil, fmt.Errorf("carousel: round %d, cpu %d: %w", r, c, err)
			}
			m[i] = append(m[i], tsc.Read())
		}
	}

	// Trailing sample on the base CPU, closing the bracket the
	// monotonicity and offset analyzers rely on.
	if err := pin.To(cpus[0]); err != nil {
		return nil, fmt.Errorf("carousel: trailing sample, cpu %d: %w", cpus[0], err)
	}
	m[0] = append(m[0], tsc.Read())

	return m, nil
}
