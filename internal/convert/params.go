package convert

import (
	"fmt"
	"math/bits"

	"github.com/tscwall/tscwall/internal/wtmerr"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// ErrOverflow wraps wtmerr.ErrEnvironment when the constants implied by a
// (ticksPerSec, modulusSecs) pair would not fit in a uint64. This is a
// configuration/environment problem (an unreasonable modulus for the
// measured rate), not a TSC inconsistency, so it shares the environment
// umbrella rather than the inconsistency one.
var ErrOverflow = fmt.Errorf("convert: conversion constants overflow uint64: %w", wtmerr.ErrEnvironment)

// mulOverflow computes a*b, reporting false if the product does not fit in
// a uint64.
func mulOverflow(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	return lo, hi == 0
}

// mulDiv computes (a*b)/divisor without overflowing the intermediate
// product, reporting false if the quotient does not fit in a uint64.
func mulDiv(a, b, divisor uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi >= divisor {
		return 0, false
	}
	q, _ := bits.Div64(hi, lo, divisor)
	return q, true
}

// mulShiftRight computes (a*b)>>shift without overflowing the intermediate
// product, reporting false if the result does not fit in a uint64.
func mulShiftRight(a, b uint64, shift uint) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if shift == 0 {
		return lo, hi == 0
	}
	result := (hi << (64 - shift)) | (lo >> shift)
	return result, hi>>shift == 0
}

// BuildConversionParams derives the multiply-shift conversion constants for
// a measured ticksPerSec rate and a modulus of modulusSecs seconds, per
// spec.md §4.8's expression list.
func BuildConversionParams(ticksPerSec, modulusSecs uint64) (wtmtypes.ConversionParams, error) {
	if ticksPerSec == 0 {
		return wtmtypes.ConversionParams{}, fmt.Errorf("convert: ticks_per_sec must be > 0")
	}
	if modulusSecs == 0 {
		return wtmtypes.ConversionParams{}, fmt.Errorf("convert: modulus_secs must be > 0")
	}

	ticksPerModulus, ok := mulOverflow(modulusSecs, ticksPerSec)
	if !ok || ticksPerModulus == 0 {
		return wtmtypes.ConversionParams{}, ErrOverflow
	}

	multBound := ^uint64(0) / ticksPerModulus

	factorBound, ok := mulDiv(multBound, ticksPerSec, 1_000_000_000)
	if !ok || factorBound == 0 {
		return wtmtypes.ConversionParams{}, ErrOverflow
	}
	shift := uint8(bits.Len64(factorBound) - 1)
	factor := uint64(1) << shift

	mult, ok := mulDiv(factor, 1_000_000_000, ticksPerSec)
	if !ok {
		return wtmtypes.ConversionParams{}, ErrOverflow
	}

	tscRemainderBits := uint8(bits.Len64(ticksPerModulus) - 1)
	tscModulus := uint64(1) << tscRemainderBits
	tscRemainderMask := tscModulus - 1

	nsPerTSCModulus, ok := mulShiftRight(tscModulus, mult, uint(shift))
	if !ok {
		return wtmtypes.ConversionParams{}, ErrOverflow
	}

	return wtmtypes.ConversionParams{
		Mult:             mult,
		Shift:            shift,
		NsPerTSCModulus:  nsPerTSCModulus,
		TSCRemainderBits: tscRemainderBits,
		TSCRemainderMask: tscRemainderMask,
	}, nil
}

// TicksToNS converts a raw TSC value to nanoseconds using only shifts,
// masks, multiplications and additions (spec.md §4.8's hot path). By the
// choice of factor in BuildConversionParams, neither multiplication here
// can overflow a uint64 for any tsc value representable in one.
func TicksToNS(tsc uint64, p wtmtypes.ConversionParams) uint64 {
	whole := (tsc >> p.TSCRemainderBits) * p.NsPerTSCModulus
	frac := ((tsc & p.TSCRemainderMask) * p.Mult) >> p.Shift
	return whole + frac
}
