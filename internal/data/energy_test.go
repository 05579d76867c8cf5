package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
)

func TestFromEnergySnapshotDecodes32BitLowWordFirstLifetimeEnergy(t *testing.T) {
	// pv1_energy_total (address 55) is 32-bit, low-word-first, scale /10.
	// raw = 0x00001000 = 4096 -> 409.6 kWh.
	snap := decode.Snapshot{55: 0x1000, 56: 0x0000}
	d := FromEnergySnapshot(snap)

	require.NotNil(t, d.PV1EnergyTotal)
	assert.InDelta(t, 409.6, *d.PV1EnergyTotal, 0.001)
}

func TestFromEnergySnapshotLowWordFirstCarriesHighWord(t *testing.T) {
	// raw = 0x00020000 = 131072 -> 13107.2 kWh, confirming the high word
	// (at address+1) is the significant one, not the low word.
	snap := decode.Snapshot{55: 0x0000, 56: 0x0002}
	d := FromEnergySnapshot(snap)

	require.NotNil(t, d.PV1EnergyTotal)
	assert.InDelta(t, 13107.2, *d.PV1EnergyTotal, 0.001)
}

func TestFromEnergySnapshotSumsPVTotalAcrossStrings(t *testing.T) {
	snap := decode.Snapshot{
		42: 100, // pv1_energy_today /10 = 10.0
		43: 50,  // pv2_energy_today /10 = 5.0
	}
	d := FromEnergySnapshot(snap)

	require.NotNil(t, d.PVEnergyToday)
	assert.InDelta(t, 15.0, *d.PVEnergyToday, 0.001)
}

func TestFromEnergySnapshotMissingFieldsLeaveTotalNil(t *testing.T) {
	d := FromEnergySnapshot(decode.Snapshot{})
	assert.Nil(t, d.PVEnergyToday)
	assert.Nil(t, d.PV1EnergyTotal)
}

func TestLifetimeEnergyValuesKeyedByRegistryName(t *testing.T) {
	snap := decode.Snapshot{55: 1000, 56: 0}
	d := FromEnergySnapshot(snap)

	values := d.LifetimeEnergyValues()
	require.Contains(t, values, "pv1_energy_total")
	require.NotNil(t, values["pv1_energy_total"])
	assert.InDelta(t, 100.0, *values["pv1_energy_total"], 0.001)
}
