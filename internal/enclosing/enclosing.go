//go:build linux && amd64

package enclosing

import (
	"fmt"

	"github.com/tscwall/tscwall/internal/carousel"
	"github.com/tscwall/tscwall/internal/casprobe"
	"github.com/tscwall/tscwall/internal/config"
	"github.com/tscwall/tscwall/internal/deltarange"
	"github.com/tscwall/tscwall/internal/wtmtypes"
)

// PairSampler bounds the TSC offset between base and peer using whichever
// sampling engine and analyzer it wraps.
type PairSampler func(base, peer int) (wtmtypes.DeltaRange, error)

// CarouselSampler returns a PairSampler backed by the carousel engine (C3):
// each pair is sampled fresh, restricted to {base, peer}, for rounds rounds.
func CarouselSampler(rounds int) PairSampler {
	return func(base, peer int) (wtmtypes.DeltaRange, error) {
		m, err := carousel.Sample([]int{base, peer}, rounds)
		if err != nil {
			return wtmtypes.DeltaRange{}, err
		}
		return deltarange.FromCarousel(m[0], m[1])
	}
}

// CASSampler returns a PairSampler backed by the CAS-ordered engine (C4/C5):
// each pair is sampled fresh, restricted to {base, peer}, collecting probes
// probes per CPU and requiring at least threshold enclosing pairs.
func CASSampler(probes int, cfg config.Config, threshold int) PairSampler {
	return func(base, peer int) (wtmtypes.DeltaRange, error) {
		arrays, err := casprobe.Run([]int{base, peer}, probes, cfg)
		if err != nil {
			return wtmtypes.DeltaRange{}, err
		}
		return deltarange.FromCAS(arrays[0], arrays[1], threshold)
	}
}

// Compute runs sample against base and every peer, combining each pairwise
// [lo_c, hi_c] into the enclosing range [min lo_c, max hi_c]. Its length is
// the caller's maximum-shift estimate (see Len on the returned range).
func Compute(base int, peers []int, sample PairSampler) (wtmtypes.DeltaRange, error) {
	if len(peers) == 0 {
		return wtmtypes.DeltaRange{}, fmt.Errorf("enclosing: no peer cpus to triangulate against base %d", base)
	}

	var result wtmtypes.DeltaRange
	for i, peer := range peers {
		r, err := sample(base, peer)
		if err != nil {
			return wtmtypes.DeltaRange{}, fmt.Errorf("enclosing: base %d, peer %d: %w", base, peer, err)
		}
		if i == 0 {
			result = r
			continue
		}
		if r.Lo < result.Lo {
			result.Lo = r.Lo
		}
		if r.Hi > result.Hi {
			result.Hi = r.Hi
		}
	}

	return result, nil
}
