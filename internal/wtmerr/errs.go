// Package wtmerr defines the status/error vocabulary shared by the TSC
// reliability pipeline (spec.md §7): environment, inconsistency, statistical,
// supervisor and restoration failures all eventually surface as one of the
// four Status values below, alongside the underlying wrapped error.
package wtmerr

import "errors"

// Status is the outer result code every public tscwall operation returns.
// Results are populated only when Status is StatusOK; the message is
// populated only when it isn't (spec.md §6).
type Status int

const (
	// StatusOK means the operation's results are valid and complete.
	StatusOK Status = iota
	// StatusGenericError covers environment failures (affinity/clock
	// queries, allocation) and supervisor failures (timeout, detach).
	StatusGenericError
	// StatusInconsistency means a TSC invariant was violated: a counter
	// decreased within a CPU, an inter-CPU diff was implausible, a delta
	// range's intersection went empty, or a peer clocked faster than the
	// enclosing base interval allows.
	StatusInconsistency
	// StatusPoorStatistics means the computation was internally
	// consistent but didn't gather enough evidence (too few enclosing
	// pairs, too few full loops) to trust the result.
	StatusPoorStatistics
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusGenericError:
		return "generic-error"
	case StatusInconsistency:
		return "tsc-inconsistency"
	case StatusPoorStatistics:
		return "poor-statistics"
	default:
		return "unknown-status"
	}
}

// Sentinel errors. Each internal package that can fail defines its own
// narrower sentinels and wraps them with fmt.Errorf("...: %w", ...); these
// top-level ones are what pkg/tscwall maps a wrapped error onto via
// errors.Is to pick a Status.
var (
	// ErrInconsistent is the umbrella sentinel for any StatusInconsistency
	// failure; package-specific errors (deltarange.ErrFasterPeer,
	// deltarange.ErrNonMonotonic, ...) wrap it so callers can test with a
	// single errors.Is(err, wtmerr.ErrInconsistent).
	ErrInconsistent = errors.New("tsc: inconsistency detected")

	// ErrPoorStatistics is the umbrella sentinel for StatusPoorStatistics.
	ErrPoorStatistics = errors.New("tsc: insufficient statistical evidence")

	// ErrEnvironment is the umbrella sentinel for environment failures:
	// affinity could not be queried or set, the cache-line size is
	// unknown, or the monotonic clock could not be read.
	ErrEnvironment = errors.New("tsc: environment failure")

	// ErrSupervisor is the umbrella sentinel for probe-thread supervisor
	// failures: a thread failed to pin, failed to cancel, exited with an
	// error, or had to be detached after a timeout.
	ErrSupervisor = errors.New("tsc: probe supervisor failure")

	// ErrRestoreFailed means affinity could not be restored after a
	// measurement; per spec.md §7 this is fatal even if the measurement
	// itself succeeded.
	ErrRestoreFailed = errors.New("tsc: affinity restoration failed")
)

// Classify maps a wrapped error to the Status a public operation should
// report. It walks the error chain with errors.Is against the umbrella
// sentinels above, defaulting to StatusGenericError for anything else
// (including nil turning into StatusOK).
func Classify(err error) Status {
	switch {
	case err == nil:
		return StatusOK
	case errors.Is(err, ErrPoorStatistics):
		return StatusPoorStatistics
	case errors.Is(err, ErrInconsistent):
		return StatusInconsistency
	default:
		return StatusGenericError
	}
}
