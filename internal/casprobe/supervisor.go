//go:build linux && amd64

package casprobe

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/pin"
	"github.com/tscwall/tscwall/internal/tsc"
	"github.com/tscwall/tscwall/internal/wtmerr"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// Report aggregates the supervisor-level outcome of one Run, mirroring
// spec.md §4.3's error-aggregation list. FailedCancels stays 0 in this
// rendering: a context cancellation can't itself fail the way an OS-level
// thread-cancel call can, so there's nothing to count there.
type Report struct {
	FailedCreations int
	FailedCancels   int
	ExitedNonZero   int
	Detached        int
	TimedOut        bool
}

func (r Report) empty() bool {
	return r.FailedCreations == 0 && r.FailedCancels == 0 && r.ExitedNonZero == 0 && r.Detached == 0 && !r.TimedOut
}

func (r Report) Error() string {
	return fmt.Sprintf(
		"casprobe: failed_creations=%d failed_cancels=%d exited_non_zero=%d detached=%d timed_out=%v",
		r.FailedCreations, r.FailedCancels, r.ExitedNonZero, r.Detached, r.TimedOut,
	)
}

// Run starts one goroutine per CPU in cpus, each pinned to its own CPU and
// racing a shared sequence counter, and returns one ProbeArray of exactly
// `want` probes per CPU whose union of Seq values is {0, ..., len(cpus)*want
// - 1}. On any failure — a pin failure, a timeout, or a thread that joins
// with fewer probes than requested — results are discarded and a non-nil
// error wrapping wtmerr.ErrSupervisor (or wtmerr.ErrEnvironment for a bare
// pin failure) is returned; spec.md §7 forbids returning partial results.
//
// Per spec.md §8's boundary test, a single CPU short-circuits without
// spawning any probe thread at all.
func Run(cpus []int, want int, cfg config.Config) ([]wtmtypes.ProbeArray, error) {
	if len(cpus) == 0 {
		return nil, fmt.Errorf("casprobe: empty cpu list")
	}
	if len(cpus) == 1 {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		if err := pin.To(cpus[0]); err != nil {
			return nil, fmt.Errorf("casprobe: single-cpu pin: %w", err)
		}
		arr := make(wtmtypes.ProbeArray, want)
		for i := 0; i < want; i++ {
			arr[i] = wtmtypes.Probe{TSC: tsc.Read(), Seq: uint64(i)}
		}
		return []wtmtypes.ProbeArray{arr}, nil
	}

	seq := &wtmtypes.SequenceCounter{}
	barrier := &wtmtypes.ReadinessBarrier{Target: uint32(len(cpus))}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// results is padded per-slot (spec.md §3/§9): each joiner goroutine below
	// writes its own CPU's slot concurrently with every other joiner, and a
	// plain []wtmtypes.ProbeArray would let adjacent slice headers share a
	// cache line, defeating the per-CPU isolation the rest of the pipeline
	// assumes while probes are in flight.
	results := make([]wtmtypes.PaddedProbeArray, len(cpus))
	joined := make([]bool, len(cpus))
	var joinedCount atomic.Int32
	allJoined := make(chan struct{})

	pinResult := make([]chan error, len(cpus))
	workerDone := make([]chan wtmtypes.ProbeArray, len(cpus))

	launched := 0
	var report Report

	for i, c := range cpus {
		pinResult[i] = make(chan error, 1)
		workerDone[i] = make(chan wtmtypes.ProbeArray, 1)
		go worker(ctx, c, seq, barrier, want, pinResult[i], workerDone[i])

		if err := <-pinResult[i]; err != nil {
			report.FailedCreations++
			cancel() // cancel the i already-launched threads, indices 0..i-1 (spec.md §9 open question, resolved)
			launched = i
			break
		}
		launched = i + 1
	}

	for i := 0; i < launched; i++ {
		go func(i int) {
			arr := <-workerDone[i]
			results[i].Probes = arr
			joined[i] = true
			if joinedCount.Add(1) == int32(launched) {
				close(allJoined)
			}
		}(i)
	}
	if launched == 0 {
		close(allJoined)
	}

	if !waitFor(allJoined, cfg.RunBudget, cfg.JoinPoll) {
		report.TimedOut = true
		cancel()
		if !waitFor(allJoined, cfg.CancelBudget, cfg.JoinPoll) {
			report.Detached = launched - int(joinedCount.Load())
		}
	}

	for i := 0; i < launched; i++ {
		if joined[i] && len(results[i].Probes) != want {
			report.ExitedNonZero++
		}
	}

	if !report.empty() {
		if report.FailedCreations > 0 && report.Detached == 0 && report.ExitedNonZero == 0 && !report.TimedOut {
			return nil, fmt.Errorf("%s: %w", report.Error(), wtmerr.ErrEnvironment)
		}
		return nil, fmt.Errorf("%s: %w", report.Error(), wtmerr.ErrSupervisor)
	}

	out := make([]wtmtypes.ProbeArray, len(results))
	for i, r := range results {
		out[i] = r.Probes
	}
	return out, nil
}

// worker is one probe thread: it locks and pins its OS thread, reports the
// pin outcome, then (on success) runs the probe loop until it has `want`
// probes or ctx is cancelled.
func worker(ctx context.Context, cpu int, seq *wtmtypes.SequenceCounter, barrier *wtmtypes.ReadinessBarrier, want int, pinResult chan<- error, done chan<- wtmtypes.ProbeArray) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := pin.To(cpu); err != nil {
		pinResult <- err
		done <- nil
		return
	}
	pinResult <- nil
	done <- probeLoop(ctx, seq, barrier, want)
}

// waitFor blocks until done closes or budget elapses, polling at pollEvery
// intervals (spec.md §4.3's JOIN_POLL_S). It returns true iff done closed
// before the budget ran out.
func waitFor(done <-chan struct{}, budget, pollEvery time.Duration) bool {
	if pollEvery <= 0 || pollEvery > budget {
		pollEvery = budget
	}
	deadline := time.Now().Add(budget)
	ticker := time.NewTicker(pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return true
		case <-ticker.C:
			if time.Now().After(deadline) {
				return false
			}
		}
	}
}
