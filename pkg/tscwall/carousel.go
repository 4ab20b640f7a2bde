//go:build linux && amd64

package tscwall

import (
	"fmt"
	"runtime"

	"github.com/tscwall/tscwall/internal/carousel"
	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/enclosing"
	"github.com/tscwall/tscwall/internal/monotonic"
	"github.com/tscwall/tscwall/internal/sysprobe"
)

// EvaluateCarousel runs the carousel-sampling reliability pipeline
// (spec.md §4.2, §4.4-§4.6): a single migrated thread bounds the inter-CPU
// TSC offset against a fixed base CPU (C3 → C6 → C7), then a second
// carousel pass over the whole allowed set checks monotonicity (C3 → C8).
//
// Per spec.md §8's boundary test, a single allowed CPU short-circuits to
// MaxShift 0, Monotonic true, with neither sampling pass run.
func EvaluateCarousel(cfg config.Config) (result Result, err error) {
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

	dr, drErr := enclosing.Compute(base, peers, enclosing.CarouselSampler(cfg.CarouselRoundsRange))
	if drErr != nil {
		return errResult(drErr), drErr
	}

	m, sampleErr := carousel.Sample(allowed, cfg.CarouselRoundsMono)
	if sampleErr != nil {
		return errResult(sampleErr), sampleErr
	}

	mono, monoErr := monotonic.EvaluateCarousel(m)
	if monoErr != nil {
		return errResult(monoErr), monoErr
	}

	return Result{MaxShift: dr.Len(), Monotonic: mono, Status: StatusOK}, nil
}
