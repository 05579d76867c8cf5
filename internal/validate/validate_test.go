package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eg4lux/luxpower/internal/data"
)

func ptrFloat(v float64) *float64 { return &v }

func TestRuntimeCorruptNilIsNotCorrupt(t *testing.T) {
	assert.False(t, RuntimeCorrupt(nil, nil, 10))
}

func TestRuntimeCorruptGridFrequencyOutOfRange(t *testing.T) {
	d := &data.InverterRuntimeData{GridFrequency: ptrFloat(120)}
	assert.True(t, RuntimeCorrupt(d, nil, 10))
}

func TestRuntimeCorruptGridFrequencyZeroIsIgnored(t *testing.T) {
	// Zero means "not reporting", not "0 Hz" — must not be flagged.
	d := &data.InverterRuntimeData{GridFrequency: ptrFloat(0)}
	assert.False(t, RuntimeCorrupt(d, nil, 10))
}

func TestRuntimeCorruptGridVoltageOutOfRange(t *testing.T) {
	d := &data.InverterRuntimeData{GridVoltageR: ptrFloat(400)}
	assert.True(t, RuntimeCorrupt(d, nil, 10))
}

func TestRuntimeCorruptBatteryCurrentExceedsLimit(t *testing.T) {
	d := &data.InverterRuntimeData{BatteryCurrent: ptrFloat(-600)}
	assert.True(t, RuntimeCorrupt(d, nil, 10))
}

func TestRuntimeNotCorruptPlausibleValues(t *testing.T) {
	d := &data.InverterRuntimeData{
		GridFrequency: ptrFloat(60),
		GridVoltageR:  ptrFloat(240),
		BatteryCurrent: ptrFloat(12.5),
	}
	assert.False(t, RuntimeCorrupt(d, nil, 10))
}

func TestRuntimeCorruptFromBatteryBank(t *testing.T) {
	bank := &data.BatteryBankData{
		Modules: []data.BatteryData{
			{Voltage: 52.0, SOC: 150}, // SoC above 100
		},
	}
	d := &data.InverterRuntimeData{GridFrequency: ptrFloat(60)}
	assert.True(t, RuntimeCorrupt(d, bank, 10))
}
