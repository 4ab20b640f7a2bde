//go:build linux && amd64

package enclosing

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tscwall/tscwall/internal/wtmtypes"
)

func fakeSampler(ranges map[int]wtmtypes.DeltaRange) PairSampler {
	return func(base, peer int) (wtmtypes.DeltaRange, error) {
		r, ok := ranges[peer]
		if !ok {
			return wtmtypes.DeltaRange{}, fmt.Errorf("no fixture for peer %d", peer)
		}
		return r, nil
	}
}

func TestCompute_SinglePeer(t *testing.T) {
	sample := fakeSampler(map[int]wtmtypes.DeltaRange{
		1: {Lo: -100, Hi: 50},
	})
	r, err := Compute(0, []int{1}, sample)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), r.Lo)
	assert.Equal(t, int64(50), r.Hi)
}

func TestCompute_UnionsAcrossPeers(t *testing.T) {
	sample := fakeSampler(map[int]wtmtypes.DeltaRange{
		1: {Lo: -100, Hi: 50},
		2: {Lo: -20, Hi: 200},
		3: {Lo: -30, Hi: 30},
	})
	r, err := Compute(0, []int{1, 2, 3}, sample)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), r.Lo) // widest lower bound, from peer 1
	assert.Equal(t, int64(200), r.Hi)  // widest upper bound, from peer 2
}

func TestCompute_RejectsNoPeers(t *testing.T) {
	_, err := Compute(0, nil, fakeSampler(nil))
	assert.Error(t, err)
}

func TestCompute_PropagatesSamplerError(t *testing.T) {
	sample := fakeSampler(map[int]wtmtypes.DeltaRange{})
	_, err := Compute(0, []int{1}, sample)
	assert.Error(t, err)
}
