//go:build linux && amd64

package tscwall

import (
	"runtime"

	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/convert"
	"github.com/tscwall/tscwall/internal/rate"
	"github.com/tscwall/tscwall/internal/sysprobe"
	"github.com/tscwall/tscwall/internal/tsc"
)

// BuildConversionParams runs the conversion pipeline (spec.md §4.7-§4.8):
// it estimates the TSC tick rate (C9), derives the multiply-shift
// conversion constants for the configured modulus (C10), and computes the
// seconds remaining before a TSC wraps.
func BuildConversionParams(cfg config.Config) (report ConversionReport, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, serr := sysprobe.CaptureState()
	if serr != nil {
		return errReport(serr), serr
	}
	defer func() {
		if rerr := sysprobe.RestoreState(state); rerr != nil {
			report, err = errReport(rerr), rerr
		}
	}()

	allowed := state.AllowedCPUs()

	ticksPerSec, rateErr := rate.Measure(cfg)
	if rateErr != nil {
		return errReport(rateErr), rateErr
	}

	params, buildErr := convert.BuildConversionParams(ticksPerSec, cfg.ModulusSecs)
	if buildErr != nil {
		return errReport(buildErr), buildErr
	}

	secs, wrapErr := convert.SecsBeforeWrap(allowed, params)
	if wrapErr != nil {
		return errReport(wrapErr), wrapErr
	}

	return ConversionReport{Params: params, SecsBeforeWrap: secs, Status: StatusOK}, nil
}

// TicksToNS converts a raw TSC value to nanoseconds using the constants in
// p (spec.md §4.8's hot path).
func TicksToNS(t uint64, p ConversionParams) uint64 {
	return convert.TicksToNS(t, p)
}

// ReadTSC reads the Time-Stamp Counter of the CPU the calling goroutine is
// currently running on. Callers that need a specific CPU's TSC must pin the
// calling thread first.
func ReadTSC() uint64 {
	return tsc.Read()
}
