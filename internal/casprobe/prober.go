//go:build linux && amd64

package casprobe

import (
	"context"

	"github.com/tscwall/tscwall/internal/tsc"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// probeOne spins until it wins the CAS on seq, then returns the probe it
// recorded. This is spec.md §4.3's inner loop:
//
//	loop:
//	    s := atomic-load-acquire(seq_counter)
//	    full-fence
//	    t := read_tsc()
//	    if CAS-acq-rel(seq_counter, expected=s, new=s+1): break
//	    record (t, s)
//
// The TSC read has no data dependency on s, so a full fence is required
// between the load and the read: RDTSC is not a serializing instruction and
// does not participate in the coherency protocol atomic.Uint64's
// acquire/release ordering relies on, so a plain MOV-compiled Load gives no
// guarantee the CPU won't issue RDTSC ahead of it. spec.md §4.3/§5/§9 is
// explicit that this fence must be emitted, not inferred from
// acquire-release — tsc.Fence() emits MFENCE for exactly this purpose.
func probeOne(seq *wtmtypes.SequenceCounter) wtmtypes.Probe {
	for {
		s := seq.Value.Load()
		tsc.Fence()
		t := tsc.Read()
		if seq.Value.CompareAndSwap(s, s+1) {
			return wtmtypes.Probe{TSC: t, Seq: s}
		}
	}
}

// probeLoop collects `want` probes, checking ctx at the top of each
// per-probe attempt — the idiomatic stand-in for the asynchronous
// cancellation spec.md's design notes say doesn't fit runtimes like Go's
// (see package doc). It returns whatever it collected if ctx is cancelled
// first; the supervisor discards partial arrays from a cancelled run.
func probeLoop(ctx context.Context, seq *wtmtypes.SequenceCounter, barrier *wtmtypes.ReadinessBarrier, want int) wtmtypes.ProbeArray {
	barrier.Inc(ctx.Done())

	arr := make(wtmtypes.ProbeArray, 0, want)
	for len(arr) < want {
		select {
		case <-ctx.Done():
			return arr
		default:
		}
		arr = append(arr, probeOne(seq))
	}
	return arr
}
