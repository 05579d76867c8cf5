package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

type fakeTransport struct {
	groups               map[uint16]decode.Snapshot
	errs                 map[uint16]error
	consecutiveErrors    int
	maxConsecutiveErrors int
	reconnectErr         error
	reconnectCalled      bool
	retried              bool
}

func (f *fakeTransport) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	if err, ok := f.errs[start]; ok {
		return nil, err
	}
	return f.groups[start], nil
}

func (f *fakeTransport) ConsecutiveErrors() int { return f.consecutiveErrors }

func (f *fakeTransport) MaxConsecutiveErrors() int {
	if f.maxConsecutiveErrors != 0 {
		return f.maxConsecutiveErrors
	}
	return 3
}

func (f *fakeTransport) Reconnect(ctx context.Context) error {
	f.reconnectCalled = true
	f.consecutiveErrors = 0
	return f.reconnectErr
}

func (f *fakeTransport) LastReadRetried() bool { return f.retried }

func TestReadAllInputMergesEveryGroup(t *testing.T) {
	ft := &fakeTransport{groups: map[uint16]decode.Snapshot{
		0:   {0: 100},
		100: {100: 200},
	}}
	o := New(ft, time.Millisecond)
	groups := []registry.RegisterGroup{
		{Name: "a", Start: 0, Count: 1},
		{Name: "b", Start: 100, Count: 1},
	}

	snap, err := o.ReadAllInput(context.Background(), groups)
	require.NoError(t, err)
	assert.Equal(t, uint16(100), snap[0])
	assert.Equal(t, uint16(200), snap[100])
}

func TestReadAllInputAbortsOnNonSupplementaryFailure(t *testing.T) {
	ft := &fakeTransport{errs: map[uint16]error{0: errors.New("timeout")}}
	o := New(ft, time.Millisecond)
	groups := []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}}

	_, err := o.ReadAllInput(context.Background(), groups)
	assert.Error(t, err)
}

func TestReadAllInputSwallowsSupplementaryFailure(t *testing.T) {
	ft := &fakeTransport{
		groups: map[uint16]decode.Snapshot{0: {0: 42}},
		errs:   map[uint16]error{100: errors.New("timeout")},
	}
	o := New(ft, time.Millisecond)
	groups := []registry.RegisterGroup{
		{Name: "a", Start: 0, Count: 1},
		{Name: "b", Start: 100, Count: 1, Supplementary: true},
	}

	snap, err := o.ReadAllInput(context.Background(), groups)
	require.NoError(t, err)
	assert.Equal(t, uint16(42), snap[0])
	assert.NotContains(t, snap, uint16(100))
}

func TestReadAllInputReconnectsWhenConsecutiveErrorsThresholdReached(t *testing.T) {
	ft := &fakeTransport{
		groups:            map[uint16]decode.Snapshot{0: {0: 1}},
		consecutiveErrors: 3,
	}
	o := New(ft, time.Millisecond)

	_, err := o.ReadAllInput(context.Background(), []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}})
	require.NoError(t, err)
	assert.True(t, ft.reconnectCalled)
}

func TestReadAllInputPropagatesReconnectFailure(t *testing.T) {
	ft := &fakeTransport{consecutiveErrors: 3, reconnectErr: errors.New("dial refused")}
	o := New(ft, time.Millisecond)

	_, err := o.ReadAllInput(context.Background(), []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}})
	assert.Error(t, err)
}

func TestNewDefaultsNonPositiveDelay(t *testing.T) {
	o := New(&fakeTransport{}, 0)
	assert.Equal(t, 50*time.Millisecond, o.interGroupDelay)
}

func TestReadAllInputHonorsConfiguredMaxConsecutiveErrors(t *testing.T) {
	ft := &fakeTransport{
		groups:               map[uint16]decode.Snapshot{0: {0: 1}},
		consecutiveErrors:    2,
		maxConsecutiveErrors: 2,
	}
	o := New(ft, time.Millisecond)

	_, err := o.ReadAllInput(context.Background(), []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}})
	require.NoError(t, err)
	assert.True(t, ft.reconnectCalled)
}

func TestReadAllInputUsesHigherConfiguredMaxConsecutiveErrors(t *testing.T) {
	ft := &fakeTransport{
		groups:               map[uint16]decode.Snapshot{0: {0: 1}},
		consecutiveErrors:    3,
		maxConsecutiveErrors: 5,
	}
	o := New(ft, time.Millisecond)

	_, err := o.ReadAllInput(context.Background(), []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}})
	require.NoError(t, err)
	assert.False(t, ft.reconnectCalled)
}

func TestReadAllHoldingUsesHoldingRegisterSemantics(t *testing.T) {
	ft := &fakeTransport{groups: map[uint16]decode.Snapshot{0: {0: 7}}}
	o := New(ft, time.Millisecond)

	snap, err := o.ReadAllHolding(context.Background(), []registry.RegisterGroup{{Name: "a", Start: 0, Count: 1}})
	require.NoError(t, err)
	assert.Equal(t, uint16(7), snap[0])
}
