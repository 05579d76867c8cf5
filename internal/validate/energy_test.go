package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/data"
)

func TestEnergyValidatorAcceptsFirstReading(t *testing.T) {
	v := NewEnergyValidator(nil)
	e := &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(100)}

	accepted := v.Accept("inv1", e, 10)
	assert.True(t, accepted)
}

func TestEnergyValidatorRejectsNilSnapshot(t *testing.T) {
	v := NewEnergyValidator(nil)
	assert.False(t, v.Accept("inv1", nil, 10))
}

func TestEnergyValidatorRejectsLifetimeDecrease(t *testing.T) {
	v := NewEnergyValidator(nil)
	require.True(t, v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(100)}, 10))

	rejected := v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(90)}, 10)
	assert.False(t, rejected)
}

func TestEnergyValidatorRejectsImplausibleSpike(t *testing.T) {
	v := NewEnergyValidator(nil)
	require.True(t, v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(100)}, 10))

	// ratedPowerKW=10 -> maxDelta=15kWh between polls; 500kWh jump must reject.
	rejected := v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(600)}, 10)
	assert.False(t, rejected)
}

func TestEnergyValidatorAcceptsPlausibleIncrease(t *testing.T) {
	v := NewEnergyValidator(nil)
	require.True(t, v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(100)}, 10))

	accepted := v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(105)}, 10)
	assert.True(t, accepted)
}

func TestEnergyValidatorEscapesAfterConsecutiveRejections(t *testing.T) {
	v := NewEnergyValidator(nil)
	require.True(t, v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(100)}, 10))

	// Three consecutive implausible drops should each be rejected...
	for i := 0; i < consecutiveRejectionEscape; i++ {
		accepted := v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(1)}, 10)
		assert.False(t, accepted, "rejection %d", i)
	}
	// ...and the next one escapes the stuck state, accepting unconditionally.
	accepted := v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(1)}, 10)
	assert.True(t, accepted)
}

func TestEnergyValidatorRejectsDailyAboveAbsoluteCap(t *testing.T) {
	v := NewEnergyValidator(nil)
	// ratedPowerKW=10 -> absCap=240kWh/day.
	accepted := v.Accept("inv1", &data.InverterEnergyData{PVEnergyToday: ptrFloat(500)}, 10)
	assert.False(t, accepted)
}

func TestEnergyValidatorTracksDevicesIndependently(t *testing.T) {
	v := NewEnergyValidator(nil)
	require.True(t, v.Accept("inv1", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(500)}, 10))

	// A different device starting at a lower lifetime value is unaffected
	// by inv1's history.
	accepted := v.Accept("inv2", &data.InverterEnergyData{PV1EnergyTotal: ptrFloat(5)}, 10)
	assert.True(t, accepted)
}
