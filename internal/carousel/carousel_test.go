//go:build linux && amd64

package carousel

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tscwall/tscwall/internal/sysprobe"
)

func TestSample_SingleCPUShape(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := sysprobe.CaptureState()
	require.NoError(t, err)
	defer sysprobe.RestoreState(state)

	cpus := state.AllowedCPUs()
	require.NotEmpty(t, cpus)

	m, err := Sample(cpus[:1], 4)
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Len(t, m[0], 5) // 4 rounds + trailing sample
}

func TestSample_MultiCPUShape(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := sysprobe.CaptureState()
	require.NoError(t, err)
	defer sysprobe.RestoreState(state)

	cpus := state.AllowedCPUs()
	if len(cpus) < 2 {
		t.Skip("test requires 2+ allowed CPUs")
	}

	m, err := Sample(cpus[:2], 3)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.Len(t, m[0], 4) // base: rounds + trailing
	assert.Len(t, m[1], 3) // peer: rounds only
}

func TestSample_RejectsEmptyCPUList(t *testing.T) {
	_, err := Sample(nil, 3)
	assert.Error(t, err)
}

func TestSample_RejectsNonPositiveRounds(t *testing.T) {
	_, err := Sample([]int{0}, 0)
	assert.Error(t, err)
}
