//go:build linux && amd64

package sysprobe

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptureAndRestoreState(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := CaptureState()
	require.NoError(t, err)
	require.Greater(t, state.NCPUs, 0)
	assert.NotEmpty(t, state.AllowedCPUs())
	assert.Contains(t, state.AllowedCPUs(), state.InitialCPU)
	assert.Greater(t, state.CacheLineSize, 0)

	require.NoError(t, RestoreState(state))

	after, err := CaptureState()
	require.NoError(t, err)
	assert.Equal(t, state.NCPUs, after.NCPUs)
}

func TestState_AllowedCPUsMatchesNCPUs(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := CaptureState()
	require.NoError(t, err)
	assert.Len(t, state.AllowedCPUs(), state.NCPUs)
}
