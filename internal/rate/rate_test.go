//go:build linux && amd64

package rate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelford_ConstantSamples(t *testing.T) {
	mean, stddev := welford([]uint64{1000, 1000, 1000, 1000})
	assert.Equal(t, float64(1000), mean)
	assert.Equal(t, float64(0), stddev)
}

func TestWelford_SingleSample(t *testing.T) {
	mean, stddev := welford([]uint64{42})
	assert.Equal(t, float64(42), mean)
	assert.Equal(t, float64(0), stddev)
}

func TestWelford_KnownVariance(t *testing.T) {
	// 2, 4, 4, 4, 5, 5, 7, 9: mean 5, sum of squared deviations 32, corrected
	// (n-1) sample variance 32/7, stddev sqrt(32/7) ~= 2.1381.
	mean, stddev := welford([]uint64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, float64(5), mean)
	assert.InDelta(t, 2.1381, stddev, 1e-4)
}

func TestFilterAndAverage_AllSamplesAgree(t *testing.T) {
	samples := []uint64{1_000_000_000, 1_000_000_001, 999_999_999, 1_000_000_002}
	got, err := filterAndAverage(samples)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000_000, got, 2)
}

func TestFilterAndAverage_DropsOutlier(t *testing.T) {
	// One wild outlier, far more than one sigma away from the tight cluster.
	samples := []uint64{1_000_000_000, 1_000_000_001, 999_999_999, 1_000_000_002, 5_000_000_000}
	got, err := filterAndAverage(samples)
	require.NoError(t, err)
	assert.InDelta(t, 1_000_000_000, got, 2)
}

func TestFilterAndAverage_NoOverflowOnLargeSamples(t *testing.T) {
	big := uint64(1) << 62
	samples := []uint64{big, big + 1, big - 1, big + 2}
	got, err := filterAndAverage(samples)
	require.NoError(t, err)
	assert.InDelta(t, float64(big), float64(got), 2)
}
