package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

func TestUnpackSmartPortModesExtractsFourPorts(t *testing.T) {
	// port0=SmartLoad(1), port1=ACCouple(2), port2=Off(0), port3=SmartLoad(1)
	raw := uint16(0b01_00_10_01)
	modes := UnpackSmartPortModes(raw)

	assert.Equal(t, SmartPortSmartLoad, modes[0])
	assert.Equal(t, SmartPortACCouple, modes[1])
	assert.Equal(t, SmartPortOff, modes[2])
	assert.Equal(t, SmartPortSmartLoad, modes[3])
}

func TestFromGridBOSSSnapshotDecodesGridVoltageAndPower(t *testing.T) {
	snap := decode.Snapshot{
		0: 1200, // grid_rms_voltage_l1, /10 = 120.0V
		5: 0x0000, 6: 1500, // grid_power_l1, 32-bit signed, high-word-first
	}
	d := FromGridBOSSSnapshot(snap)

	require.NotNil(t, d.GridVoltageL1)
	assert.InDelta(t, 120.0, *d.GridVoltageL1, 0.001)
	require.NotNil(t, d.GridPowerL1)
	assert.Equal(t, 1500.0, *d.GridPowerL1)
}

func TestFromGridBOSSSnapshotDecodesSmartPortModeRegister(t *testing.T) {
	snap := decode.Snapshot{registry.GridBOSSSmartPortModeRegister: 0b10}
	d := FromGridBOSSSnapshot(snap)

	assert.Equal(t, SmartPortACCouple, d.SmartPortModes[0])
}

func TestFromGridBOSSSnapshotMissingModeRegisterLeavesZeroValue(t *testing.T) {
	d := FromGridBOSSSnapshot(decode.Snapshot{})
	assert.Equal(t, [4]SmartPortMode{}, d.SmartPortModes)
}
