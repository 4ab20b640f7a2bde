//go:build linux && amd64

package tscwall

import (
	"fmt"
	"runtime"

	"github.com/tscwall/tscwall/internal/casprobe"
	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/enclosing"
	"github.com/tscwall/tscwall/internal/monotonic"
	"github.com/tscwall/tscwall/internal/sysprobe"
)

// EvaluateCAS runs the CAS-ordered reliability pipeline (spec.md §4.3-§4.6):
// one pinned goroutine per allowed CPU races a shared sequence counter to
// bound the inter-CPU TSC offset against a fixed base CPU (C4/C5 → C6 →
// C7), then a second CAS-ordered run over the whole allowed set checks
// monotonicity and counts full loops (C4/C5 → C8).
//
// Per spec.md §8's boundary test, a single allowed CPU short-circuits to
// MaxShift 0, Monotonic true, with no probe goroutine spawned at all.
func EvaluateCAS(cfg config.Config) (result Result, err error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, serr := sysprobe.CaptureState()
	if serr != nil {
		return errResult(serr), serr
	}
	defer func() {
		if rerr := sysprobe.RestoreState(state); rerr != nil {
			result, err = errResult(rerr), rerr
		}
	}()

	allowed := state.AllowedCPUs()
	if len(allowed) == 0 {
		e := fmt.Errorf("tscwall: no allowed cpus")
		return errResult(e), e
	}
	if len(allowed) == 1 {
		return Result{MaxShift: 0, Monotonic: true, Status: StatusOK}, nil
	}

	base, peers := allowed[0], allowed[1:]

	dr, drErr := enclosing.Compute(base, peers, enclosing.CASSampler(cfg.CASProbesRange, cfg, cfg.DeltaRangeCountThreshold))
	if drErr != nil {
		return errResult(drErr), drErr
	}

	arrays, runErr := casprobe.Run(allowed, cfg.CASProbesMono, cfg)
	if runErr != nil {
		return errResult(runErr), runErr
	}

	mono, _, monoErr := monotonic.EvaluateCAS(arrays, cfg.FullLoopCountThreshold)
	if monoErr != nil {
		return errResult(monoErr), monoErr
	}

	return Result{MaxShift: dr.Len(), Monotonic: mono, Status: StatusOK}, nil
}
