//go:build linux && amd64

package rate

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/tsc"
	"github.com/tscwall/tscwall/internal/wtmerr"
)

// ErrClockRead wraps wtmerr.ErrEnvironment when CLOCK_MONOTONIC_RAW cannot
// be read.
var ErrClockRead = fmt.Errorf("rate: clock_gettime failed: %w", wtmerr.ErrEnvironment)

// ErrNonMonotonicSample wraps wtmerr.ErrInconsistent when a sample's ending
// TSC did not exceed its starting TSC.
var ErrNonMonotonicSample = fmt.Errorf("rate: tsc did not advance during sample window: %w", wtmerr.ErrInconsistent)

// ErrSampleOverflow wraps wtmerr.ErrInconsistent when a sample's tick
// difference would overflow the subsequent scale-to-seconds multiplication.
var ErrSampleOverflow = fmt.Errorf("rate: tick difference too large to scale to seconds: %w", wtmerr.ErrInconsistent)

// ErrNoSamplesSurvived wraps wtmerr.ErrPoorStatistics when the mean±σ filter
// discards every sample.
var ErrNoSamplesSurvived = fmt.Errorf("rate: no samples survived outlier filter: %w", wtmerr.ErrPoorStatistics)

const nsPerSec = 1_000_000_000

// sampleOnce measures one ticks-per-second estimate by reading a matched
// (wall-clock, TSC) pair at the start of the window and again once the
// window has elapsed at least matchPeriod (spec.md §4.7, step 1-3). Reading
// the wall clock immediately before the TSC, in the same order at both
// ends, cancels the near-constant syscall-overhead bias between the two.
func sampleOnce(matchPeriod time.Duration) (uint64, error) {
	var tsStart unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &tsStart); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrClockRead, err)
	}
	sStart := tsc.Read()

	for {
		var tsEnd unix.Timespec
		if err := unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &tsEnd); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrClockRead, err)
		}
		sEnd := tsc.Read()

		elapsedNs := tsEnd.Nano() - tsStart.Nano()
		if elapsedNs < matchPeriod.Nanoseconds() {
			continue
		}

		if sEnd <= sStart {
			return 0, ErrNonMonotonicSample
		}
		diffTicks := sEnd - sStart
		if diffTicks > math.MaxUint64/nsPerSec {
			return 0, ErrSampleOverflow
		}

		return diffTicks * nsPerSec / uint64(elapsedNs), nil
	}
}

// Measure takes cfg.RateSamples timed samples, filters outliers via
// mean±σ, and averages the survivors using an offset-from-minimum sum so
// the accumulation never overflows uint64 (spec.md §4.7).
func Measure(cfg config.Config) (uint64, error) {
	if cfg.RateSamples <= 0 {
		return 0, fmt.Errorf("rate: rate_samples must be > 0, got %d", cfg.RateSamples)
	}

	samples := make([]uint64, 0, cfg.RateSamples)
	for i := 0; i < cfg.RateSamples; i++ {
		s, err := sampleOnce(cfg.MatchPeriod)
		if err != nil {
			return 0, fmt.Errorf("rate: sample %d: %w", i, err)
		}
		samples = append(samples, s)
	}

	return filterAndAverage(samples)
}

// filterAndAverage computes the running mean and corrected-sample standard
// deviation over samples (Welford's incremental formulas), keeps samples
// within one σ of the mean, and averages the survivors via the
// offset-from-minimum technique.
func filterAndAverage(samples []uint64) (uint64, error) {
	mean, stddev := welford(samples)

	min := samples[0]
	for _, s := range samples {
		if s < min {
			min = s
		}
	}

	var sumOffsets uint64
	var kept int
	for _, s := range samples {
		if math.Abs(float64(s)-mean) > stddev {
			continue
		}
		sumOffsets += s - min
		kept++
	}

	if kept == 0 {
		return 0, ErrNoSamplesSurvived
	}

	return min + sumOffsets/uint64(kept), nil
}

// welford computes the mean and corrected-sample (n-1 denominator) standard
// deviation of samples using Welford's incremental algorithm.
func welford(samples []uint64) (mean, stddev float64) {
	var m2 float64
	var n float64
	for _, s := range samples {
		n++
		x := float64(s)
		delta := x - mean
		mean += delta / n
		delta2 := x - mean
		m2 += delta * delta2
	}
	if n < 2 {
		return mean, 0
	}
	variance := m2 / (n - 1)
	return mean, math.Sqrt(variance)
}
