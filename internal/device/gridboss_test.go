package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

func TestDetectDeviceTypeReportsGridBOSSOnCode50(t *testing.T) {
	snapTransport := &fixedSnapshotTransport{snap: decode.Snapshot{registry.DeviceTypeRegister: registry.DeviceTypeCodeGridBOSS}}

	family, err := DetectDeviceType(context.Background(), snapTransport)
	require.NoError(t, err)
	assert.Equal(t, registry.FamilyGridBOSS, family)
}

func TestDetectDeviceTypeDefaultsToHybridOnOtherCodes(t *testing.T) {
	snapTransport := &fixedSnapshotTransport{snap: decode.Snapshot{registry.DeviceTypeRegister: 12}}

	family, err := DetectDeviceType(context.Background(), snapTransport)
	require.NoError(t, err)
	assert.Equal(t, registry.FamilyEG4Hybrid, family)
}

func TestDetectDeviceTypeFailsWhenRegisterAbsent(t *testing.T) {
	snapTransport := &fixedSnapshotTransport{snap: decode.Snapshot{}}

	_, err := DetectDeviceType(context.Background(), snapTransport)
	assert.Error(t, err)
}

func TestMIDRuntimeRefreshesFromHoldingRegisters(t *testing.T) {
	ft := &fakeInverterTransport{}
	mid := NewMID("GB001", ft, nil)

	d, err := mid.Runtime(context.Background(), false)
	require.NoError(t, err)
	require.NotNil(t, d)
}

// fixedSnapshotTransport satisfies transport.Transport, returning a
// fixed snapshot from ReadGroup regardless of the requested window.
type fixedSnapshotTransport struct {
	fakeInverterTransport
	snap decode.Snapshot
}

func (f *fixedSnapshotTransport) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	return f.snap, nil
}
