package wtmerr

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Status
	}{
		{"nil", nil, StatusOK},
		{"poor statistics", fmt.Errorf("wrap: %w", ErrPoorStatistics), StatusPoorStatistics},
		{"inconsistency", fmt.Errorf("wrap: %w", ErrInconsistent), StatusInconsistency},
		{"environment falls back to generic", ErrEnvironment, StatusGenericError},
		{"unrelated error", fmt.Errorf("boom"), StatusGenericError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Classify(c.err))
		})
	}
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "ok", StatusOK.String())
	assert.Equal(t, "generic-error", StatusGenericError.String())
	assert.Equal(t, "tsc-inconsistency", StatusInconsistency.String())
	assert.Equal(t, "poor-statistics", StatusPoorStatistics.String())
	assert.Equal(t, "unknown-status", Status(99).String())
}
