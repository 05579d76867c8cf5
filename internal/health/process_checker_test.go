package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProcessCheckerNamesItself(t *testing.T) {
	checker, err := NewProcessChecker(0)
	require.NoError(t, err)
	assert.Equal(t, "process", checker.Name())
}

func TestProcessCheckerPassesWithThresholdDisabled(t *testing.T) {
	checker, err := NewProcessChecker(0)
	require.NoError(t, err)

	assert.NoError(t, checker.Check(context.Background()))
}

func TestProcessCheckerPassesUnderThreshold(t *testing.T) {
	checker, err := NewProcessChecker(100000)
	require.NoError(t, err)

	assert.NoError(t, checker.Check(context.Background()))
}
