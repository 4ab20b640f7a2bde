//go:build linux && amd64

package convert

import (
	"fmt"
	"runtime"

	"github.com/tscwall/tscwall/internal/pin"
	"github.com/tscwall/tscwall/internal/tsc"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// SecsBeforeWrap pin-visits every allowed CPU, reads its TSC, and returns
// the seconds remaining until the largest observed value wraps a uint64
// (spec.md §4.8).
func SecsBeforeWrap(cpus []int, p wtmtypes.ConversionParams) (uint64, error) {
	if len(cpus) == 0 {
		return 0, fmt.Errorf("convert: empty cpu list")
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var maxTSC uint64
	for i, c := range cpus {
		if err := pin.To(c); err != nil {
			return 0, fmt.Errorf("convert: cpu %d: %w", c, err)
		}
		v := tsc.Read()
		if i == 0 || v > maxTSC {
			maxTSC = v
		}
	}

	remaining := ^uint64(0) - maxTSC
	return TicksToNS(remaining, p) / 1_000_000_000, nil
}
