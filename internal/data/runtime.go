// Package data holds the transport-agnostic output shapes: the same
// struct comes out whether the bytes underneath it were read over
// Modbus TCP, RTU, the WiFi dongle, or the cloud HTTP API. Every field
// is a pointer so "unavailable" (register not read) is distinguishable
// from a real zero reading.
//
// Grounded on the reference implementation's dataclasses in
// transports/data.py, translated to Go's *T-for-optional idiom in place
// of Python's T | None.
package data

import (
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

func f(v float64) *float64 { return &v }
func i(v int) *int         { return &v }

func optFloat(s decode.Snapshot, fields map[string]registry.Field, name string) *float64 {
	field, ok := fields[name]
	if !ok {
		return nil
	}
	v, ok := decode.ReadScaled(s, field)
	if !ok {
		return nil
	}
	return f(v)
}

func optInt(s decode.Snapshot, fields map[string]registry.Field, name string) *int {
	field, ok := fields[name]
	if !ok {
		return nil
	}
	v, ok := decode.ReadRaw(s, field)
	if !ok {
		return nil
	}
	return i(int(v))
}

// InverterRuntimeData is the real-time operating snapshot of an
// inverter, with every value already scaled to its natural unit.
type InverterRuntimeData struct {
	Timestamp time.Time

	PV1Voltage, PV1Current, PV1Power *float64
	PV2Voltage, PV2Current, PV2Power *float64
	PV3Voltage, PV3Current, PV3Power *float64
	PVTotalPower                     *float64

	BatteryVoltage        *float64
	BatteryCurrent        *float64
	BatterySOC            *int
	BatterySOH            *int
	BatteryChargePower    *float64
	BatteryDischargePower *float64
	BatteryTemperature    *float64

	GridVoltageR, GridVoltageS, GridVoltageT *float64
	GridL1Voltage, GridL2Voltage             *float64
	GridCurrentR, GridCurrentS, GridCurrentT *float64
	GridFrequency                            *float64
	GridPower                                *float64
	PowerToGrid, PowerFromGrid               *float64

	InverterPower                               *float64
	InverterCurrentR, InverterCurrentS          *float64
	InverterCurrentT                            *float64
	PowerFactor                                  *float64
	InverterRMSCurrentR, InverterRMSCurrentS    *float64
	InverterRMSCurrentT                         *float64
	InverterApparentPower                       *float64

	EPSVoltageR, EPSVoltageS, EPSVoltageT *float64
	EPSL1Voltage, EPSL2Voltage            *float64
	EPSFrequency                          *float64
	EPSPower                              *float64
	EPSStatus                             *int

	LoadPower   *float64
	OutputPower *float64

	BusVoltage1, BusVoltage2 *float64

	InternalTemperature                           *float64
	RadiatorTemperature1, RadiatorTemperature2     *float64
	BatteryTempSensor                              *float64

	DeviceStatus *int
	FaultCode    *int
	WarningCode  *int

	GeneratorVoltage, GeneratorFrequency, GeneratorPower *float64

	BMSChargeCurrentLimit, BMSDischargeCurrentLimit *float64
	BMSChargeVoltageRef, BMSDischargeCutoff         *float64
	BMSMaxCellVoltage, BMSMinCellVoltage            *float64
	BMSMaxCellTemperature, BMSMinCellTemperature     *float64
	BMSCycleCount                                    *int
	BatteryParallelNum                               *int
	BatteryCapacityAh                                *float64
	BatteryCount                                     *int

	TemperatureT1, TemperatureT2, TemperatureT3 *float64
	TemperatureT4, TemperatureT5                *float64

	InverterOnTime *int
	ACInputType    *int

	ParallelMasterSlave, ParallelPhase, ParallelNumber *int

	rawSOC, rawSOH *int
}

// IsCorrupt reports whether the snapshot contains physically impossible
// values: a raw (pre-clamp) SoC/SoH above 100, a nonzero grid frequency
// outside [30, 90] Hz, a nonzero grid leg voltage below 50 V or above
// 300 V, battery
// current exceeding 500 A, a battery-count above 20, or — when
// maxPowerWatts is known (rated power × 2 margin) — a power field
// exceeding it.
func (d *InverterRuntimeData) IsCorrupt(maxPowerWatts float64) bool {
	if d.rawSOC != nil && *d.rawSOC > 100 {
		return true
	}
	if d.rawSOH != nil && *d.rawSOH > 100 {
		return true
	}
	if d.GridFrequency != nil && *d.GridFrequency > 0 && (*d.GridFrequency < 30 || *d.GridFrequency > 90) {
		return true
	}
	for _, v := range []*float64{d.GridVoltageR, d.GridVoltageS, d.GridVoltageT, d.GridL1Voltage, d.GridL2Voltage} {
		if v != nil && *v > 0 && (*v < 50 || *v > 300) {
			return true
		}
	}
	if d.BatteryCurrent != nil && abs(*d.BatteryCurrent) > 500 {
		return true
	}
	if d.BatteryCount != nil && *d.BatteryCount > 20 {
		return true
	}
	if maxPowerWatts > 0 {
		for _, v := range []*float64{d.PVTotalPower, d.BatteryChargePower, d.BatteryDischargePower, d.InverterPower, d.EPSPower} {
			if v != nil && abs(*v) > maxPowerWatts {
				return true
			}
		}
	}
	return false
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// FromSnapshot builds InverterRuntimeData from a register snapshot
// produced by the orchestrator, restricted to fields applicable to
// family.
func FromSnapshot(s decode.Snapshot, family registry.ModelFamily) *InverterRuntimeData {
	fields := fieldsForFamily(registry.InputFields, family, registry.CategoryRuntime, registry.CategoryBattery, registry.CategoryPacked)

	d := &InverterRuntimeData{Timestamp: time.Now()}

	d.PV1Voltage = optFloat(s, fields, "pv1_voltage")
	d.PV1Current = optFloat(s, fields, "pv1_current")
	d.PV2Voltage = optFloat(s, fields, "pv2_voltage")
	d.PV3Voltage = optFloat(s, fields, "pv3_voltage")

	d.PV1Power = pickPower(s, fields, "pv1_power", "pv1_power_eu")
	d.PV2Power = pickPower(s, fields, "pv2_power", "pv2_power_eu")
	d.PV3Power = pickPower(s, fields, "pv3_power", "pv3_power_eu")
	d.PVTotalPower = sumFloats(d.PV1Power, d.PV2Power, d.PV3Power)

	d.BatteryVoltage = optFloat(s, fields, "battery_voltage")
	d.BatteryCurrent = optFloat(s, fields, "battery_current")
	d.BatteryChargePower = pickPower(s, fields, "charge_power", "charge_power_eu")
	d.BatteryDischargePower = pickPower(s, fields, "discharge_power", "discharge_power_eu")
	d.BatteryTemperature = optFloat(s, fields, "battery_temperature")

	if socsoh, ok := fields["soc_soh_packed"]; ok {
		if raw, ok := decode.ReadRaw(s, socsoh); ok {
			soc, soh := decode.SOCSOH(uint16(raw))
			rawSOC, rawSOH := int(soc), int(soh)
			d.rawSOC, d.rawSOH = &rawSOC, &rawSOH
			d.BatterySOC = i(int(decode.ClampPercentage(float64(soc))))
			d.BatterySOH = i(int(decode.ClampPercentage(float64(soh))))
		}
	}

	d.GridVoltageR = optFloat(s, fields, "grid_voltage_r")
	d.GridVoltageS = optFloat(s, fields, "grid_voltage_s")
	d.GridVoltageT = optFloat(s, fields, "grid_voltage_t")
	d.GridL1Voltage = optFloat(s, fields, "grid_l1_voltage")
	d.GridL2Voltage = optFloat(s, fields, "grid_l2_voltage")
	d.GridFrequency = optFloat(s, fields, "grid_frequency")
	d.GridPower = optFloat(s, fields, "grid_power")
	d.InverterPower = optFloat(s, fields, "inverter_power")
	d.PowerFactor = optFloat(s, fields, "power_factor")

	d.EPSVoltageR = optFloat(s, fields, "eps_voltage_r")
	d.EPSVoltageS = optFloat(s, fields, "eps_voltage_s")
	d.EPSVoltageT = optFloat(s, fields, "eps_voltage_t")
	d.EPSL1Voltage = optFloat(s, fields, "eps_l1_voltage")
	d.EPSL2Voltage = optFloat(s, fields, "eps_l2_voltage")
	d.EPSFrequency = optFloat(s, fields, "eps_frequency")
	d.EPSPower = optFloat(s, fields, "eps_power")
	d.EPSStatus = optInt(s, fields, "eps_status")

	d.LoadPower = optFloat(s, fields, "load_power")
	d.PowerFromGrid = d.LoadPower
	d.OutputPower = sumFloats(optFloat(s, fields, "output_power_l1"), optFloat(s, fields, "output_power_l2"))

	d.BusVoltage1 = optFloat(s, fields, "bus_voltage_1")
	d.BusVoltage2 = optFloat(s, fields, "bus_voltage_2")

	d.InternalTemperature = optFloat(s, fields, "internal_temperature")
	d.RadiatorTemperature1 = optFloat(s, fields, "radiator_temperature_1")
	d.RadiatorTemperature2 = optFloat(s, fields, "radiator_temperature_2")

	d.DeviceStatus = optInt(s, fields, "device_status")

	inverterFault := optInt(s, fields, "inverter_fault_code")
	bmsFault := optInt(s, fields, "bms_fault_code")
	d.FaultCode = preferNonZero(inverterFault, bmsFault)

	inverterWarn := optInt(s, fields, "inverter_warning_code")
	bmsWarn := optInt(s, fields, "bms_warning_code")
	d.WarningCode = preferNonZero(inverterWarn, bmsWarn)

	d.InverterRMSCurrentR = optFloat(s, fields, "inverter_rms_current")
	d.InverterApparentPower = optFloat(s, fields, "inverter_apparent_power")

	d.GeneratorVoltage = optFloat(s, fields, "generator_voltage")
	d.GeneratorFrequency = optFloat(s, fields, "generator_frequency")
	d.GeneratorPower = optFloat(s, fields, "generator_power")

	d.BMSChargeCurrentLimit = optFloat(s, fields, "bms_charge_current_limit")
	d.BMSDischargeCurrentLimit = optFloat(s, fields, "bms_discharge_current_limit")
	d.BMSChargeVoltageRef = optFloat(s, fields, "bms_charge_voltage_ref")
	d.BMSDischargeCutoff = optFloat(s, fields, "bms_discharge_cutoff")
	d.BMSMaxCellVoltage = optFloat(s, fields, "bms_max_cell_voltage")
	d.BMSMinCellVoltage = optFloat(s, fields, "bms_min_cell_voltage")
	d.BMSMaxCellTemperature = optFloat(s, fields, "bms_max_cell_temperature")
	d.BMSMinCellTemperature = optFloat(s, fields, "bms_min_cell_temperature")
	d.BMSCycleCount = optInt(s, fields, "bms_cycle_count")
	d.BatteryParallelNum = optInt(s, fields, "battery_parallel_num")
	d.BatteryCapacityAh = optFloat(s, fields, "battery_capacity_ah")
	d.BatteryCount = optInt(s, fields, "battery_count")

	d.TemperatureT1 = optFloat(s, fields, "temperature_t1")
	d.TemperatureT2 = optFloat(s, fields, "temperature_t2")
	d.TemperatureT3 = optFloat(s, fields, "temperature_t3")
	d.TemperatureT4 = optFloat(s, fields, "temperature_t4")
	d.TemperatureT5 = optFloat(s, fields, "temperature_t5")

	d.InverterOnTime = optInt(s, fields, "inverter_on_time")
	d.ACInputType = optInt(s, fields, "ac_input_type")

	if pc, ok := fields["parallel_config"]; ok {
		if raw, ok := decode.ReadRaw(s, pc); ok {
			cfg := decode.UnpackParallelConfig(uint16(raw))
			ms, ph, num := int(cfg.MasterSlave), int(cfg.Phase), int(cfg.UnitID)
			d.ParallelMasterSlave, d.ParallelPhase, d.ParallelNumber = &ms, &ph, &num
		}
	}

	return d
}

func pickPower(s decode.Snapshot, fields map[string]registry.Field, primary, alt string) *float64 {
	if v := optFloat(s, fields, primary); v != nil {
		return v
	}
	return optFloat(s, fields, alt)
}

func sumFloats(vs ...*float64) *float64 {
	total := 0.0
	any := false
	for _, v := range vs {
		if v != nil {
			total += *v
			any = true
		}
	}
	if !any {
		return nil
	}
	return &total
}

func preferNonZero(a, b *int) *int {
	if a != nil && *a != 0 {
		return a
	}
	if b != nil {
		return b
	}
	return a
}

func fieldsForFamily(all map[string]registry.Field, family registry.ModelFamily, categories ...registry.Category) map[string]registry.Field {
	wanted := make(map[registry.Category]bool, len(categories))
	for _, c := range categories {
		wanted[c] = true
	}
	out := make(map[string]registry.Field, len(all))
	for name, field := range all {
		if !wanted[field.Category] {
			continue
		}
		if !field.InFamily(family) {
			continue
		}
		out[name] = field
	}
	return out
}
