//go:build linux && amd64

package pin

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tscwall/tscwall/internal/sysprobe"
)

func TestTo_PinsToAllowedCPU(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := sysprobe.CaptureState()
	require.NoError(t, err)
	defer sysprobe.RestoreState(state)

	assert.NoError(t, To(state.InitialCPU))
}

func TestTo_RejectsOutOfRangeCPU(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	state, err := sysprobe.CaptureState()
	require.NoError(t, err)
	defer sysprobe.RestoreState(state)

	err = To(1 << 20)
	assert.Error(t, err)
}
