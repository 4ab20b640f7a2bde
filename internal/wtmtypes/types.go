package wtmtypes

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// ErrNotMonotonic is returned by Validate when Seq or TSC decreases within
// an array.
var ErrNotMonotonic = errors.New("wtmtypes: probe array not monotonic")

// ErrConstantTSC is returned by Validate when every TSC in the array is
// identical (the "first==last" consistency gate from spec.md §8 — a TSC
// that never advances across the whole array means the reads aren't
// sampling a running counter).
var ErrConstantTSC = errors.New("wtmtypes: tsc did not advance across array")

// Probe is a single TSC reading tagged with the dense, globally ordered
// sequence number it won from the shared SequenceCounter. The carousel path
// does not produce Probes; it records plain values in a CarouselMatrix. A
// Probe is immutable once produced.
type Probe struct {
	TSC uint64
	Seq uint64
}

// ProbeArray is the ordered sequence of probes collected on one CPU. Seq must
// strictly increase and TSC must not decrease within one array; TSC may repeat but the
// first and last entries must differ (the "first==last" consistency gate
// from spec.md §8).
type ProbeArray []Probe

// First reports the first probe and whether the array is non-empty.
func (a ProbeArray) First() (Probe, bool) {
	if len(a) == 0 {
		return Probe{}, false
	}
	return a[0], true
}

// Last reports the last probe and whether the array is non-empty.
func (a ProbeArray) Last() (Probe, bool) {
	if len(a) == 0 {
		return Probe{}, false
	}
	return a[len(a)-1], true
}

// Validate checks the per-array invariants from spec.md §3/§8: Seq strictly
// increases, TSC never decreases, and (for arrays of 2+ probes) the first
// and last TSC values differ.
func (a ProbeArray) Validate() error {
	for i := 1; i < len(a); i++ {
		if a[i].Seq <= a[i-1].Seq {
			return ErrNotMonotonic
		}
		if a[i].TSC < a[i-1].TSC {
			return ErrNotMonotonic
		}
	}
	if len(a) >= 2 && a[0].TSC == a[len(a)-1].TSC {
		return ErrConstantTSC
	}
	return nil
}

// CarouselMatrix holds the per-CPU TSC samples gathered by the carousel
// sampler. CPU 0 (the base) carries one extra trailing sample taken after
// the final round, so len(M[0]) == rounds+1 while len(M[i]) == rounds for
// i > 0; this asymmetry must be preserved even by callers that otherwise
// treat the matrix as rectangular (spec.md §9, "carousel extra sample").
type CarouselMatrix [][]uint64

// DeltaRange is a closed integer interval [Lo, Hi] bounding the offset
// TSC_other - TSC_base between two CPUs' counters. A range with Lo > Hi is
// never produced by a correct analyzer; callers should treat it as an
// inconsistency if it ever happens.
type DeltaRange struct {
	Lo int64
	Hi int64
}

// Empty reports whether the range is unrepresentable (Lo > Hi).
func (d DeltaRange) Empty() bool { return d.Lo > d.Hi }

// Intersect returns the intersection of d and other. The result may be
// Empty(); callers must check.
func (d DeltaRange) Intersect(other DeltaRange) DeltaRange {
	r := DeltaRange{Lo: d.Lo, Hi: d.Hi}
	if other.Lo > r.Lo {
		r.Lo = other.Lo
	}
	if other.Hi < r.Hi {
		r.Hi = other.Hi
	}
	return r
}

// Len returns the width of the range (Hi - Lo). Only meaningful when the
// range is non-Empty.
func (d DeltaRange) Len() int64 { return d.Hi - d.Lo }

// ConversionParams is the division-free multiply-shift conversion built by
// the conversion-parameter builder (C10). It is built once per call to
// BuildConversionParams and is read-only thereafter, small enough to sit in
// a cache line on the hot path.
type ConversionParams struct {
	Mult               uint64
	Shift              uint8
	NsPerTSCModulus    uint64
	TSCRemainderBits   uint8
	TSCRemainderMask   uint64
}

// ReadinessBarrier is the startup barrier every CAS-ordered probe thread
// increments once before entering its probe loop, spinning until Count
// reaches Target. It is padded so the hot counter does not share a cache
// line with anything else a probe thread touches.
type ReadinessBarrier struct {
	Count atomic.Uint32
	_     cpu.CacheLinePad
	Target uint32
}

// Inc increments the readiness counter and spins until every expected
// thread has also incremented it, or abort is closed. abort lets a
// supervisor that cancelled the run before every thread reached the barrier
// (e.g. a later thread failed to pin) unstick the ones already spinning,
// instead of hanging them forever on a Target that will never be reached.
func (b *ReadinessBarrier) Inc(abort <-chan struct{}) {
	b.Count.Add(1)
	for b.Count.Load() < b.Target {
		select {
		case <-abort:
			return
		default:
		}
	}
}

// SequenceCounter is the shared, monotonically-increasing counter probe
// threads race to increment via compare-and-swap. It is padded to its own
// cache line (spec.md §3, §9) so CAS traffic from one probe thread never
// false-shares with another thread's probe-array writes.
type SequenceCounter struct {
	Value atomic.Uint64
	_     cpu.CacheLinePad
}

// PaddedProbeArray wraps a ProbeArray so each per-CPU slice lives behind its
// own cache-line pad, preventing false sharing between the single-writer
// slots during the CAS-ordered probe run (spec.md §5, §9). The
// casprobe supervisor's result slice is built from this type rather than
// plain ProbeArray for exactly this reason: one joiner goroutine writes
// each slot concurrently with every other joiner.
type PaddedProbeArray struct {
	Probes ProbeArray
	_      cpu.CacheLinePad
}
