package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	name string
	err  error
}

func (f *fakeChecker) Name() string                     { return f.name }
func (f *fakeChecker) Check(ctx context.Context) error { return f.err }

type fakeConnectable struct{ connected bool }

func (f *fakeConnectable) IsConnected() bool { return f.connected }

type fakeDB struct{ err error }

func (f *fakeDB) HealthCheck() error { return f.err }

func TestCheckAllReportsHealthyWhenNoError(t *testing.T) {
	h := NewHealthService()
	h.RegisterChecker(&fakeChecker{name: "a"})

	results := h.CheckAll(context.Background())
	require.Contains(t, results, "a")
	assert.Equal(t, StatusHealthy, results["a"].Status)
}

func TestCheckAllReportsUnhealthyOnError(t *testing.T) {
	h := NewHealthService()
	h.RegisterChecker(&fakeChecker{name: "a", err: errors.New("boom")})

	results := h.CheckAll(context.Background())
	assert.Equal(t, StatusUnhealthy, results["a"].Status)
	assert.Equal(t, "boom", results["a"].Message)
}

func TestGetOverallStatusAllHealthy(t *testing.T) {
	h := NewHealthService()
	results := map[string]CheckResult{
		"a": {Status: StatusHealthy},
		"b": {Status: StatusHealthy},
	}
	assert.Equal(t, StatusHealthy, h.GetOverallStatus(results))
}

func TestGetOverallStatusMixedIsDegraded(t *testing.T) {
	h := NewHealthService()
	results := map[string]CheckResult{
		"a": {Status: StatusHealthy},
		"b": {Status: StatusUnhealthy},
	}
	assert.Equal(t, StatusDegraded, h.GetOverallStatus(results))
}

func TestGetOverallStatusAllUnhealthy(t *testing.T) {
	h := NewHealthService()
	results := map[string]CheckResult{
		"a": {Status: StatusUnhealthy},
	}
	assert.Equal(t, StatusUnhealthy, h.GetOverallStatus(results))
}

func TestServiceCheckerReflectsConnectionState(t *testing.T) {
	connected := NewServiceChecker("inverter_1", &fakeConnectable{connected: true})
	assert.NoError(t, connected.Check(context.Background()))

	disconnected := NewServiceChecker("inverter_1", &fakeConnectable{connected: false})
	assert.Error(t, disconnected.Check(context.Background()))
}

func TestDatabaseCheckerDelegatesToHealthCheck(t *testing.T) {
	ok := NewDatabaseChecker("postgres", &fakeDB{})
	assert.NoError(t, ok.Check(context.Background()))

	failing := NewDatabaseChecker("postgres", &fakeDB{err: errors.New("down")})
	assert.Error(t, failing.Check(context.Background()))
}
