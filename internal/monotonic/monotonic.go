package monotonic

import (
	"fmt"

	"github.com/tscwall/tscwall/internal/wtmerr"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// ErrPoorStatistics wraps wtmerr.ErrPoorStatistics when a CAS-ordered scan
// found fewer full loops than the configured threshold. It is only
// returned alongside monotonic == true: a non-monotonic finding is reported
// regardless of loop count (spec.md §4.6).
var ErrPoorStatistics = fmt.Errorf("monotonic: too few full loops: %w", wtmerr.ErrPoorStatistics)

// EvaluateCarousel walks m in round-major, CPU-minor order, including the
// trailing bracket sample on CPU 0, and reports whether every subsequent
// TSC was at least the previous one.
func EvaluateCarousel(m wtmtypes.CarouselMatrix) (monotonic bool, err error) {
	n := len(m)
	if n == 0 {
		return false, fmt.Errorf("monotonic: empty carousel matrix")
	}
	rounds := len(m[0]) - 1
	if rounds < 1 {
		return false, fmt.Errorf("monotonic: carousel base row too short: %d", len(m[0]))
	}
	for i := 1; i < n; i++ {
		if len(m[i]) != rounds {
			return false, fmt.Errorf("monotonic: carousel row %d has %d samples, want %d", i, len(m[i]), rounds)
		}
	}

	var prev uint64
	have := false
	for r := 0; r < rounds; r++ {
		for i := 0; i < n; i++ {
			v := m[i][r]
			if have && v < prev {
				return false, nil
			}
			prev, have = v, true
		}
	}

	tail := m[0][rounds]
	if have && tail < prev {
		return false, nil
	}

	return true, nil
}

// cursor is one CPU's read position in its ProbeArray, used by the k-way
// merge below.
type cursor struct {
	arr wtmtypes.ProbeArray
	pos int
}

// EvaluateCAS walks the probes in arrays (one ProbeArray per allowed CPU) in
// ascending global Seq order via a k-way merge, checking each CPU's own TSC
// for non-decrease and counting full loops — the shortest run of probes
// that starts and ends on the first CPU in the sequence and touches every
// allowed CPU at least once. A non-monotonic finding returns immediately
// regardless of loop count; otherwise the result is only trusted (nil err)
// once loops reaches threshold.
func EvaluateCAS(arrays []wtmtypes.ProbeArray, threshold int) (monotonic bool, loops int, err error) {
	n := len(arrays)
	if n == 0 {
		return false, 0, fmt.Errorf("monotonic: no probe arrays to evaluate")
	}

	cursors := make([]cursor, n)
	for i, a := range arrays {
		cursors[i] = cursor{arr: a, pos: 0}
	}

	lastTSC := make([]uint64, n)
	haveLast := make([]bool, n)
	marks := make([]int, n)
	loop := 1
	seenCount := 0
	firstCPU := -1

	for {
		// Find the cursor with the smallest unconsumed Seq.
		best := -1
		for i := range cursors {
			if cursors[i].pos >= len(cursors[i].arr) {
				continue
			}
			if best == -1 || cursors[i].arr[cursors[i].pos].Seq < cursors[best].arr[cursors[best].pos].Seq {
				best = i
			}
		}
		if best == -1 {
			break
		}

		probe := cursors[best].arr[cursors[best].pos]
		cursors[best].pos++

		if firstCPU == -1 {
			firstCPU = best
		}

		if haveLast[best] && probe.TSC < lastTSC[best] {
			return false, loops, nil
		}
		lastTSC[best], haveLast[best] = probe.TSC, true

		if seenCount == n && best == firstCPU {
			loops++
			seenCount = 0
			loop++
		}
		if marks[best] != loop {
			marks[best] = loop
			seenCount++
		}
	}

	if loops < threshold {
		return true, loops, ErrPoorStatistics
	}
	return true, loops, nil
}
