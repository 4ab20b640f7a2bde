package deltarange

import (
	"errors"
	"fmt"
	"math"

	"github.com/tscwall/tscwall/internal/wtmerr"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// ErrNonMonotonic wraps wtmerr.ErrInconsistent when a TSC sequence the
// analyzer walks decreases where it must not.
var ErrNonMonotonic = fmt.Errorf("deltarange: tsc decreased: %w", wtmerr.ErrInconsistent)

// ErrOutOfRange wraps wtmerr.ErrInconsistent when an inter-CPU TSC
// difference does not fit in an int64 (spec.md §4.4's I64_MAX check).
var ErrOutOfRange = fmt.Errorf("deltarange: inter-cpu diff exceeds int64 range: %w", wtmerr.ErrInconsistent)

// ErrEmptyIntersection wraps wtmerr.ErrInconsistent when the running
// intersection of bounds goes empty.
var ErrEmptyIntersection = fmt.Errorf("deltarange: bound intersection empty: %w", wtmerr.ErrInconsistent)

// ErrFasterPeer wraps wtmerr.ErrInconsistent when a CAS-ordered bracket shows
// the other CPU's window wider than the enclosing base window — the other
// clock would have to run faster than the base between two fixed points.
var ErrFasterPeer = fmt.Errorf("deltarange: peer window wider than enclosing base window: %w", wtmerr.ErrInconsistent)

// ErrPoorStatistics wraps wtmerr.ErrPoorStatistics when a CAS-ordered run
// found fewer enclosing pairs than the configured threshold.
var ErrPoorStatistics = fmt.Errorf("deltarange: too few enclosing pairs: %w", wtmerr.ErrPoorStatistics)

// diffInt64 computes a-b as a signed difference, reporting false if the
// magnitude does not fit in an int64 (spec.md §4.4's I64_MAX bound).
func diffInt64(a, b uint64) (int64, bool) {
	if a >= b {
		d := a - b
		if d > math.MaxInt64 {
			return 0, false
		}
		return int64(d), true
	}
	d := b - a
	if d > math.MaxInt64 {
		return 0, false
	}
	return -int64(d), true
}

// FromCarousel bounds the TSC offset (other − base) from one carousel round
// pair: base has R+1 samples (the trailing bracket sample), other has R.
// It intersects the per-round bound across all R rounds and returns the
// final range, or an error if any round is inconsistent.
func FromCarousel(base, other []uint64) (wtmtypes.DeltaRange, error) {
	r := len(other)
	if len(base) != r+1 {
		return wtmtypes.DeltaRange{}, fmt.Errorf("deltarange: carousel arrays mismatched: len(base)=%d, len(other)=%d", len(base), r)
	}
	if r == 0 {
		return wtmtypes.DeltaRange{}, fmt.Errorf("deltarange: no rounds to analyze")
	}

	running := wtmtypes.DeltaRange{Lo: math.MinInt64, Hi: math.MaxInt64}

	for i := 0; i < r; i++ {
		if base[i+1] < base[i] {
			return wtmtypes.DeltaRange{}, ErrNonMonotonic
		}
		if i > 0 && other[i] < other[i-1] {
			return wtmtypes.DeltaRange{}, ErrNonMonotonic
		}

		boundHi, ok := diffInt64(other[i], base[i])
		if !ok {
			return wtmtypes.DeltaRange{}, ErrOutOfRange
		}
		boundLo, ok := diffInt64(other[i], base[i+1])
		if !ok {
			return wtmtypes.DeltaRange{}, ErrOutOfRange
		}

		running = running.Intersect(wtmtypes.DeltaRange{Lo: boundLo, Hi: boundHi})
		if running.Empty() {
			return wtmtypes.DeltaRange{}, ErrEmptyIntersection
		}
	}

	return running, nil
}

// taggedProbe tags a probe with which CPU (base or other) produced it, for
// the merge-by-sequence walk FromCAS performs.
type taggedProbe struct {
	probe  wtmtypes.Probe
	isBase bool
}

// mergeBySeq interleaves two Seq-ordered probe arrays into one Seq-ordered
// stream, the same merge step any two sorted runs get combined with.
func mergeBySeq(base, other wtmtypes.ProbeArray) []taggedProbe {
	out := make([]taggedProbe, 0, len(base)+len(other))
	i, j := 0, 0
	for i < len(base) && j < len(other) {
		if base[i].Seq <= other[j].Seq {
			out = append(out, taggedProbe{probe: base[i], isBase: true})
			i++
		} else {
			out = append(out, taggedProbe{probe: other[j], isBase: false})
			j++
		}
	}
	for ; i < len(base); i++ {
		out = append(out, taggedProbe{probe: base[i], isBase: true})
	}
	for ; j < len(other); j++ {
		out = append(out, taggedProbe{probe: other[j], isBase: false})
	}
	return out
}

// FromCAS bounds the TSC offset (other − base) from a CAS-ordered probe run
// over exactly two CPUs. It walks the merged, Seq-ordered stream for pairs
// of successive base probes that enclose one or more other-CPU probes,
// intersecting a bound from each such pair, and requires at least threshold
// enclosing pairs before trusting the result (spec.md §4.4).
func FromCAS(base, other wtmtypes.ProbeArray, threshold int) (wtmtypes.DeltaRange, error) {
	if err := base.Validate(); err != nil && !errors.Is(err, wtmtypes.ErrConstantTSC) {
		return wtmtypes.DeltaRange{}, fmt.Errorf("deltarange: base probes: %w", ErrNonMonotonic)
	}
	if err := other.Validate(); err != nil && !errors.Is(err, wtmtypes.ErrConstantTSC) {
		return wtmtypes.DeltaRange{}, fmt.Errorf("deltarange: other probes: %w", ErrNonMonotonic)
	}

	stream := mergeBySeq(base, other)

	running := wtmtypes.DeltaRange{Lo: math.MinInt64, Hi: math.MaxInt64}
	pairs := 0

	var haveLastBase bool
	var lastBaseTSC uint64
	var windowLo, windowHi uint64
	var haveWindow bool

	for _, tp := range stream {
		if tp.isBase {
			if haveLastBase && haveWindow {
				t1, t2 := lastBaseTSC, tp.probe.TSC
				if t2 < t1 {
					return wtmtypes.DeltaRange{}, ErrNonMonotonic
				}
				if windowHi < windowLo {
					return wtmtypes.DeltaRange{}, ErrNonMonotonic
				}
				if (t2 - t1) < (windowHi - windowLo) {
					return wtmtypes.DeltaRange{}, ErrFasterPeer
				}

				boundLo, ok := diffInt64(windowHi, t2)
				if !ok {
					return wtmtypes.DeltaRange{}, ErrOutOfRange
				}
				boundHi, ok := diffInt64(windowLo, t1)
				if !ok {
					return wtmtypes.DeltaRange{}, ErrOutOfRange
				}

				running = running.Intersect(wtmtypes.DeltaRange{Lo: boundLo, Hi: boundHi})
				if running.Empty() {
					return wtmtypes.DeltaRange{}, ErrEmptyIntersection
				}
				pairs++
			}
			lastBaseTSC = tp.probe.TSC
			haveLastBase = true
			haveWindow = false
			continue
		}

		if !haveLastBase {
			continue
		}
		if !haveWindow {
			windowLo, windowHi = tp.probe.TSC, tp.probe.TSC
			haveWindow = true
			continue
		}
		if tp.probe.TSC < windowLo {
			windowLo = tp.probe.TSC
		}
		if tp.probe.TSC > windowHi {
			windowHi = tp.probe.TSC
		}
	}

	if pairs < threshold {
		return wtmtypes.DeltaRange{}, ErrPoorStatistics
	}

	return running, nil
}
