package wtmtypes

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProbeArray_ValidateAcceptsIncreasing(t *testing.T) {
	arr := ProbeArray{{TSC: 100, Seq: 0}, {TSC: 150, Seq: 1}, {TSC: 200, Seq: 2}}
	assert.NoError(t, arr.Validate())
}

func TestProbeArray_ValidateAcceptsRepeatedTSC(t *testing.T) {
	arr := ProbeArray{{TSC: 100, Seq: 0}, {TSC: 100, Seq: 1}, {TSC: 200, Seq: 2}}
	assert.NoError(t, arr.Validate())
}

func TestProbeArray_ValidateRejectsSeqNonIncreasing(t *testing.T) {
	arr := ProbeArray{{TSC: 100, Seq: 0}, {TSC: 150, Seq: 0}}
	err := arr.Validate()
	assert.True(t, errors.Is(err, ErrNotMonotonic))
}

func TestProbeArray_ValidateRejectsTSCDecrease(t *testing.T) {
	arr := ProbeArray{{TSC: 200, Seq: 0}, {TSC: 100, Seq: 1}}
	err := arr.Validate()
	assert.True(t, errors.Is(err, ErrNotMonotonic))
}

func TestProbeArray_ValidateRejectsConstantTSC(t *testing.T) {
	arr := ProbeArray{{TSC: 100, Seq: 0}, {TSC: 100, Seq: 1}, {TSC: 100, Seq: 2}}
	err := arr.Validate()
	assert.True(t, errors.Is(err, ErrConstantTSC))
}

func TestProbeArray_ValidateAllowsSingleProbe(t *testing.T) {
	arr := ProbeArray{{TSC: 100, Seq: 0}}
	assert.NoError(t, arr.Validate())
}

func TestProbeArray_FirstLast(t *testing.T) {
	var empty ProbeArray
	_, ok := empty.First()
	assert.False(t, ok)
	_, ok = empty.Last()
	assert.False(t, ok)

	arr := ProbeArray{{TSC: 1, Seq: 0}, {TSC: 2, Seq: 1}}
	first, ok := arr.First()
	assert.True(t, ok)
	assert.Equal(t, uint64(1), first.TSC)
	last, ok := arr.Last()
	assert.True(t, ok)
	assert.Equal(t, uint64(2), last.TSC)
}

func TestDeltaRange_Empty(t *testing.T) {
	assert.True(t, DeltaRange{Lo: 5, Hi: 4}.Empty())
	assert.False(t, DeltaRange{Lo: 4, Hi: 5}.Empty())
	assert.False(t, DeltaRange{Lo: 4, Hi: 4}.Empty())
}

func TestDeltaRange_Intersect(t *testing.T) {
	a := DeltaRange{Lo: 0, Hi: 10}
	b := DeltaRange{Lo: 5, Hi: 15}
	got := a.Intersect(b)
	assert.Equal(t, DeltaRange{Lo: 5, Hi: 10}, got)
	assert.False(t, got.Empty())

	c := DeltaRange{Lo: 20, Hi: 30}
	got2 := a.Intersect(c)
	assert.True(t, got2.Empty())
}

func TestDeltaRange_Len(t *testing.T) {
	assert.Equal(t, int64(10), DeltaRange{Lo: 0, Hi: 10}.Len())
}

func TestReadinessBarrier_UnblocksOnTarget(t *testing.T) {
	b := &ReadinessBarrier{Target: 3}
	abort := make(chan struct{})
	done := make(chan struct{}, 3)
	for i := 0; i < 3; i++ {
		go func() {
			b.Inc(abort)
			done <- struct{}{}
		}()
	}
	for i := 0; i < 3; i++ {
		<-done
	}
}

func TestPaddedProbeArray_HoldsProbes(t *testing.T) {
	var p PaddedProbeArray
	assert.Nil(t, p.Probes)
	p.Probes = ProbeArray{{TSC: 1, Seq: 0}}
	assert.Len(t, p.Probes, 1)
}

func TestReadinessBarrier_UnsticksOnAbort(t *testing.T) {
	b := &ReadinessBarrier{Target: 5}
	abort := make(chan struct{})
	done := make(chan struct{})
	go func() {
		b.Inc(abort)
		close(done)
	}()
	close(abort)
	<-done
}
