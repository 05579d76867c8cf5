package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
	"github.com/eg4lux/luxpower/internal/transport"
)

type fakeInverterTransport struct {
	connected            bool
	consecutiveErrors    int
	maxConsecutiveErrors int
	readErr              error
	reconnectErr         error
	reconnectCalled      bool
}

func (f *fakeInverterTransport) Connect(ctx context.Context) error    { f.connected = true; return nil }
func (f *fakeInverterTransport) Disconnect(ctx context.Context) error { f.connected = false; return nil }
func (f *fakeInverterTransport) IsConnected() bool                    { return f.connected }
func (f *fakeInverterTransport) Capabilities() transport.Capabilities {
	return transport.Capabilities{SupportsHoldingWrite: true, MaxRegistersPerRead: 40}
}

func (f *fakeInverterTransport) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	return decode.Snapshot{}, nil
}

func (f *fakeInverterTransport) WriteRegisters(ctx context.Context, start uint16, values []uint16, forceSingle bool) error {
	return nil
}

func (f *fakeInverterTransport) ConsecutiveErrors() int { return f.consecutiveErrors }

func (f *fakeInverterTransport) MaxConsecutiveErrors() int {
	if f.maxConsecutiveErrors != 0 {
		return f.maxConsecutiveErrors
	}
	return 3
}

func (f *fakeInverterTransport) Reconnect(ctx context.Context) error {
	f.reconnectCalled = true
	f.consecutiveErrors = 0
	return f.reconnectErr
}

func TestNewInverterReportsConnectionStateFromTransport(t *testing.T) {
	ft := &fakeInverterTransport{connected: true}
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, ft, 10, nil)
	assert.True(t, inv.IsConnected())
}

func TestRatedPowerWattsDisabledWhenUnknown(t *testing.T) {
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 0, nil)
	assert.Equal(t, 0.0, inv.RatedPowerWatts())
}

func TestRatedPowerWattsAppliesTwoXMargin(t *testing.T) {
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	assert.Equal(t, 20000.0, inv.RatedPowerWatts())
}

func TestRuntimeFetchesAndCachesOnFirstCall(t *testing.T) {
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	runtime, err := inv.Runtime(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, runtime)
	assert.False(t, inv.runtime.Stale())
}

func TestRuntimePropagatesReadFailure(t *testing.T) {
	ft := &fakeInverterTransport{readErr: errors.New("connection reset")}
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, ft, 10, nil)
	_, err := inv.Runtime(context.Background(), false)
	assert.Error(t, err)
}

func TestBatteryReconnectsAfterThreeConsecutiveErrors(t *testing.T) {
	ft := &fakeInverterTransport{consecutiveErrors: 3}
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, ft, 10, nil)
	_, err := inv.Battery(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, ft.reconnectCalled)
}

func TestRefreshReturnsFirstErrorAcrossConcurrentCaches(t *testing.T) {
	ft := &fakeInverterTransport{readErr: errors.New("timeout")}
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, ft, 10, nil)
	err := inv.Refresh(context.Background(), true, false)
	assert.Error(t, err)
}

func TestRefreshSucceedsWhenAllCachesRefreshCleanly(t *testing.T) {
	inv := NewInverter("SERIAL001", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.Refresh(context.Background(), true, false)
	assert.NoError(t, err)
}
