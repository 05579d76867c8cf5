package data

import (
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// InverterEnergyData is the production/consumption statistics snapshot:
// daily (midnight-resetting) and lifetime (monotone) counters, all in
// kWh.
type InverterEnergyData struct {
	Timestamp time.Time

	PVEnergyToday, PV1EnergyToday, PV2EnergyToday, PV3EnergyToday *float64
	ChargeEnergyToday, DischargeEnergyToday                       *float64
	GridImportToday, GridExportToday                              *float64
	LoadEnergyToday, EPSEnergyToday                                *float64
	InverterEnergyToday                                            *float64
	GeneratorEnergyToday                                           *float64

	PVEnergyTotal, PV1EnergyTotal, PV2EnergyTotal, PV3EnergyTotal *float64
	ChargeEnergyTotal, DischargeEnergyTotal                       *float64
	GridImportTotal, GridExportTotal                              *float64
	LoadEnergyTotal, EPSEnergyTotal                                *float64
	InverterEnergyTotal                                            *float64
	GeneratorEnergyTotal                                           *float64
}

// LifetimeEnergyValues returns every *_total field keyed by its
// registry field name, for monotonicity validation against the
// previous poll.
func (d *InverterEnergyData) LifetimeEnergyValues() map[string]*float64 {
	return map[string]*float64{
		"pv1_energy_total":       d.PV1EnergyTotal,
		"pv2_energy_total":       d.PV2EnergyTotal,
		"pv3_energy_total":       d.PV3EnergyTotal,
		"inverter_energy_total":  d.InverterEnergyTotal,
		"charge_energy_total":    d.ChargeEnergyTotal,
		"discharge_energy_total": d.DischargeEnergyTotal,
		"grid_import_total":      d.GridImportTotal,
		"grid_export_total":      d.GridExportTotal,
		"eps_energy_total":       d.EPSEnergyTotal,
		"load_energy_total":      d.LoadEnergyTotal,
		"generator_energy_total": d.GeneratorEnergyTotal,
	}
}

// FromEnergySnapshot builds InverterEnergyData from a register
// snapshot covering the energy-counter window.
func FromEnergySnapshot(s decode.Snapshot) *InverterEnergyData {
	fields := registry.EnergyFields

	d := &InverterEnergyData{Timestamp: time.Now()}

	d.PV1EnergyToday = optFloat(s, fields, "pv1_energy_today")
	d.PV2EnergyToday = optFloat(s, fields, "pv2_energy_today")
	d.PV3EnergyToday = optFloat(s, fields, "pv3_energy_today")
	d.PVEnergyToday = sumFloats(d.PV1EnergyToday, d.PV2EnergyToday, d.PV3EnergyToday)
	d.InverterEnergyToday = optFloat(s, fields, "inverter_energy_today")
	d.ChargeEnergyToday = optFloat(s, fields, "charge_energy_today")
	d.DischargeEnergyToday = optFloat(s, fields, "discharge_energy_today")
	d.GridImportToday = optFloat(s, fields, "grid_import_today")
	d.GridExportToday = optFloat(s, fields, "grid_export_today")
	d.EPSEnergyToday = optFloat(s, fields, "eps_energy_today")
	d.LoadEnergyToday = optFloat(s, fields, "load_energy_today")
	d.GeneratorEnergyToday = optFloat(s, fields, "generator_energy_today")

	d.PV1EnergyTotal = optFloat(s, fields, "pv1_energy_total")
	d.PV2EnergyTotal = optFloat(s, fields, "pv2_energy_total")
	d.PV3EnergyTotal = optFloat(s, fields, "pv3_energy_total")
	d.PVEnergyTotal = sumFloats(d.PV1EnergyTotal, d.PV2EnergyTotal, d.PV3EnergyTotal)
	d.InverterEnergyTotal = optFloat(s, fields, "inverter_energy_total")
	d.ChargeEnergyTotal = optFloat(s, fields, "charge_energy_total")
	d.DischargeEnergyTotal = optFloat(s, fields, "discharge_energy_total")
	d.GridImportTotal = optFloat(s, fields, "grid_import_total")
	d.GridExportTotal = optFloat(s, fields, "grid_export_total")
	d.EPSEnergyTotal = optFloat(s, fields, "eps_energy_total")
	d.LoadEnergyTotal = optFloat(s, fields, "load_energy_total")
	d.GeneratorEnergyTotal = optFloat(s, fields, "generator_energy_total")

	return d
}

// IsCorrupt reports whether the energy data is physically implausible.
// Energy registers are monotone counters/daily accumulators with no
// strong absolute-value canary; temporal validation (monotonicity
// against the previous poll) happens in the validate package instead.
func (d *InverterEnergyData) IsCorrupt() bool { return false }
