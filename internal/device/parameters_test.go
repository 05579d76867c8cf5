package device

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

func TestBatchConsecutiveGroupsAdjacentAddresses(t *testing.T) {
	runs := batchConsecutive(map[uint16]uint16{10: 1, 11: 2, 12: 3, 20: 4})
	assert.Equal(t, [][2]uint16{{10, 12}, {20, 20}}, runs)
}

func TestBatchConsecutiveEmptyInput(t *testing.T) {
	assert.Nil(t, batchConsecutive(nil))
}

func TestBatchConsecutiveSingleAddress(t *testing.T) {
	runs := batchConsecutive(map[uint16]uint16{42: 7})
	assert.Equal(t, [][2]uint16{{42, 42}}, runs)
}

func TestIsScheduleRegisterBoundaries(t *testing.T) {
	assert.False(t, isScheduleRegister(registry.ACChargeScheduleBaseAddr-1))
	assert.True(t, isScheduleRegister(registry.ACChargeScheduleBaseAddr))
	assert.True(t, isScheduleRegister(registry.ACChargeScheduleBaseAddr+5))
	end := registry.ACChargeScheduleBaseAddr + uint16(registry.ACChargeSchedulePeriods)*registry.ACChargeScheduleRegsPerPeriod
	assert.False(t, isScheduleRegister(end))
}

func TestSetParameterRejectsUnknownName(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetParameter(context.Background(), "not_a_real_param", 1)
	assert.Error(t, err)
}

func TestSetParameterRejectsOutOfRangeValue(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetParameter(context.Background(), "eod_soc", 999)
	assert.Error(t, err)
}

func TestSetParameterWritesScaledRawValue(t *testing.T) {
	ft := &fakeInverterTransport{}
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, ft, 10, nil)
	require.NoError(t, inv.SetParameter(context.Background(), "eod_soc", 50))
}

func TestSetBatterySOCLimitsRejectsOutOfRangeOn(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetBatterySOCLimits(context.Background(), 5, 50)
	assert.Error(t, err)
}

func TestSetBatterySOCLimitsAcceptsValidBounds(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	assert.NoError(t, inv.SetBatterySOCLimits(context.Background(), 20, 10))
}

func TestSetACChargeScheduleRejectsOutOfRangePeriod(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetACChargeSchedule(context.Background(), 99, 23, 0, 7, 0)
	assert.Error(t, err)
}

func TestSetACChargeScheduleAcceptsValidPeriod(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	assert.NoError(t, inv.SetACChargeSchedule(context.Background(), 0, 23, 0, 7, 0))
}

func TestSetACChargeScheduleRejectsOutOfRangeHour(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetACChargeSchedule(context.Background(), 0, 24, 0, 7, 0)
	assert.Error(t, err)
}

func TestSetACChargeScheduleRejectsOutOfRangeMinute(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetACChargeSchedule(context.Background(), 0, 23, 60, 7, 0)
	assert.Error(t, err)
}

func TestGetACChargeScheduleRejectsOutOfRangePeriod(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	_, _, _, _, err := inv.GetACChargeSchedule(context.Background(), -1)
	assert.Error(t, err)
}

func TestGetACChargeScheduleUnpacksWrittenRegisters(t *testing.T) {
	startAddr, endAddr := registry.ACChargeScheduleAddr(1)
	ft := &fixedSnapshotTransport{snap: decode.Snapshot{
		startAddr: PackTime(23, 0),
		endAddr:   PackTime(7, 15),
	}}
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, ft, 10, nil)

	sh, sm, eh, em, err := inv.GetACChargeSchedule(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, uint8(23), sh)
	assert.Equal(t, uint8(0), sm)
	assert.Equal(t, uint8(7), eh)
	assert.Equal(t, uint8(15), em)
}

func TestPackTimeUnpackTimeRoundTrip(t *testing.T) {
	raw := PackTime(23, 59)
	hour, minute := UnpackTime(raw)
	assert.Equal(t, uint8(23), hour)
	assert.Equal(t, uint8(59), minute)
}

func TestSetParametersRejectsUnknownName(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetParameters(context.Background(), map[string]float64{"bogus": 1})
	assert.Error(t, err)
}

func TestSetParametersWritesBatchedConsecutiveRegisters(t *testing.T) {
	inv := NewInverter("INV1", registry.FamilyEG4Hybrid, &fakeInverterTransport{}, 10, nil)
	err := inv.SetParameters(context.Background(), map[string]float64{
		"charge_power_percent":    50,
		"discharge_power_percent": 50,
	})
	assert.NoError(t, err)
}
