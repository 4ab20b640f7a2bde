//go:build linux && amd64

package tscwall

import (
	"github.com/tscwall/tscwall/internal/wtmerr"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// Status is the outer result code every operation in this package returns
// (spec.md §7): StatusOK, StatusGenericError, StatusInconsistency or
// StatusPoorStatistics.
type Status = wtmerr.Status

const (
	StatusOK             = wtmerr.StatusOK
	StatusGenericError   = wtmerr.StatusGenericError
	StatusInconsistency  = wtmerr.StatusInconsistency
	StatusPoorStatistics = wtmerr.StatusPoorStatistics
)

// ConversionParams is the multiply-shift conversion built by
// BuildConversionParams and consumed by TicksToNS.
type ConversionParams = wtmtypes.ConversionParams

// Result is the outcome of EvaluateCarousel or EvaluateCAS. Message is
// populated only when Status != StatusOK; MaxShift and Monotonic are set
// only when Status == StatusOK and are left zero on any failure.
type Result struct {
	MaxShift  int64
	Monotonic bool
	Status    Status
	Message   string
}

// ConversionReport is the outcome of BuildConversionParams.
type ConversionReport struct {
	Params         ConversionParams
	SecsBeforeWrap uint64
	Status         Status
	Message        string
}

// errResult builds a Result carrying the Status that wtmerr.Classify
// derives from err, and err.Error() as the message.
func errResult(err error) Result {
	return Result{Status: wtmerr.Classify(err), Message: err.Error()}
}

// errReport builds a ConversionReport carrying the Status that
// wtmerr.Classify derives from err, and err.Error() as the message.
func errReport(err error) ConversionReport {
	return ConversionReport{Status: wtmerr.Classify(err), Message: err.Error()}
}
