package data

import (
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// SmartPortMode is a GridBOSS smart port's configured function.
type SmartPortMode uint8

const (
	SmartPortOff SmartPortMode = iota
	SmartPortSmartLoad
	SmartPortACCouple
)

// MidboxRuntimeData is the GridBOSS/MID runtime snapshot, decoded from
// holding registers (unlike inverters, which use input registers).
type MidboxRuntimeData struct {
	Timestamp time.Time

	GridVoltageL1, GridVoltageL2 *float64
	GridCurrentL1, GridCurrentL2 *float64
	GridFrequency                *float64
	GridPowerL1, GridPowerL2     *float64

	LoadVoltageL1, LoadVoltageL2 *float64
	LoadPowerL1, LoadPowerL2     *float64

	GeneratorVoltageL1, GeneratorVoltageL2 *float64
	GeneratorFrequency                     *float64
	GeneratorPowerL1, GeneratorPowerL2     *float64

	UPSVoltageL1, UPSVoltageL2 *float64
	UPSFrequency               *float64
	UPSPowerL1, UPSPowerL2     *float64

	SmartPortModes [4]SmartPortMode

	SmartLoadPowerL1 [4]*float64
	SmartLoadPowerL2 [4]*float64
	ACCouplePowerL1  [4]*float64
	ACCouplePowerL2  [4]*float64

	GridToUserEnergyTodayL1, GridToUserEnergyTodayL2 *float64
	GridToUserEnergyTotalL1, GridToUserEnergyTotalL2 *float64
	ToGridEnergyTodayL1, ToGridEnergyTodayL2          *float64
	ToGridEnergyTotalL1, ToGridEnergyTotalL2          *float64
	LoadEnergyTodayL1, LoadEnergyTodayL2              *float64
	LoadEnergyTotalL1, LoadEnergyTotalL2              *float64
	UPSEnergyTodayL1, UPSEnergyTodayL2                *float64
	UPSEnergyTotalL1, UPSEnergyTotalL2                *float64
}

// UnpackSmartPortModes extracts the 4 smart ports' 2-bit mode codes
// from the packed mode register (port N occupies bits [2N, 2N+1]).
func UnpackSmartPortModes(raw uint16) [4]SmartPortMode {
	var modes [4]SmartPortMode
	for i := 0; i < 4; i++ {
		modes[i] = SmartPortMode((raw >> uint(i*2)) & 0x3)
	}
	return modes
}

// FromGridBOSSSnapshot builds MidboxRuntimeData from a holding-register
// snapshot covering the GridBOSS register groups.
func FromGridBOSSSnapshot(s decode.Snapshot) *MidboxRuntimeData {
	fields := registry.GridBOSSFields

	d := &MidboxRuntimeData{Timestamp: time.Now()}

	d.GridVoltageL1 = optFloat(s, fields, "grid_rms_voltage_l1")
	d.GridVoltageL2 = optFloat(s, fields, "grid_rms_voltage_l2")
	d.GridCurrentL1 = optFloat(s, fields, "grid_rms_current_l1")
	d.GridCurrentL2 = optFloat(s, fields, "grid_rms_current_l2")
	d.GridFrequency = optFloat(s, fields, "grid_frequency")
	d.GridPowerL1 = optFloat(s, fields, "grid_power_l1")
	d.GridPowerL2 = optFloat(s, fields, "grid_power_l2")

	d.LoadVoltageL1 = optFloat(s, fields, "load_voltage_l1")
	d.LoadVoltageL2 = optFloat(s, fields, "load_voltage_l2")
	d.LoadPowerL1 = optFloat(s, fields, "load_power_l1")
	d.LoadPowerL2 = optFloat(s, fields, "load_power_l2")

	d.GeneratorVoltageL1 = optFloat(s, fields, "generator_voltage_l1")
	d.GeneratorVoltageL2 = optFloat(s, fields, "generator_voltage_l2")
	d.GeneratorFrequency = optFloat(s, fields, "generator_frequency")
	d.GeneratorPowerL1 = optFloat(s, fields, "generator_power_l1")
	d.GeneratorPowerL2 = optFloat(s, fields, "generator_power_l2")

	d.UPSVoltageL1 = optFloat(s, fields, "ups_voltage_l1")
	d.UPSVoltageL2 = optFloat(s, fields, "ups_voltage_l2")
	d.UPSFrequency = optFloat(s, fields, "ups_frequency")
	d.UPSPowerL1 = optFloat(s, fields, "ups_power_l1")
	d.UPSPowerL2 = optFloat(s, fields, "ups_power_l2")

	d.GridToUserEnergyTodayL1 = optFloat(s, fields, "grid_to_user_today_l1")
	d.GridToUserEnergyTodayL2 = optFloat(s, fields, "grid_to_user_today_l2")
	d.GridToUserEnergyTotalL1 = optFloat(s, fields, "grid_to_user_total_l1")
	d.GridToUserEnergyTotalL2 = optFloat(s, fields, "grid_to_user_total_l2")
	d.ToGridEnergyTodayL1 = optFloat(s, fields, "to_grid_today_l1")
	d.ToGridEnergyTodayL2 = optFloat(s, fields, "to_grid_today_l2")
	d.ToGridEnergyTotalL1 = optFloat(s, fields, "to_grid_total_l1")
	d.ToGridEnergyTotalL2 = optFloat(s, fields, "to_grid_total_l2")
	d.LoadEnergyTodayL1 = optFloat(s, fields, "load_energy_l1_today")
	d.LoadEnergyTodayL2 = optFloat(s, fields, "load_energy_l2_today")
	d.LoadEnergyTotalL1 = optFloat(s, fields, "load_energy_l1_total")
	d.LoadEnergyTotalL2 = optFloat(s, fields, "load_energy_l2_total")
	d.UPSEnergyTodayL1 = optFloat(s, fields, "ups_energy_l1_today")
	d.UPSEnergyTodayL2 = optFloat(s, fields, "ups_energy_l2_today")
	d.UPSEnergyTotalL1 = optFloat(s, fields, "ups_energy_l1_total")
	d.UPSEnergyTotalL2 = optFloat(s, fields, "ups_energy_l2_total")

	if modeRaw, ok := s[registry.GridBOSSSmartPortModeRegister]; ok {
		d.SmartPortModes = UnpackSmartPortModes(modeRaw)
	}

	for i := 1; i <= 4; i++ {
		idx := i - 1
		d.SmartLoadPowerL1[idx] = optFloat(s, fields, smartPortFieldName(i, "l1", "smartload"))
		d.SmartLoadPowerL2[idx] = optFloat(s, fields, smartPortFieldName(i, "l2", "smartload"))
		d.ACCouplePowerL1[idx] = optFloat(s, fields, smartPortFieldName(i, "l1", "accouple"))
		d.ACCouplePowerL2[idx] = optFloat(s, fields, smartPortFieldName(i, "l2", "accouple"))
	}

	return d
}

func smartPortFieldName(port int, leg, kind string) string {
	digits := [4]byte{'1', '2', '3', '4'}
	return "smart_port" + string(digits[port-1]) + "_" + leg + "_power_" + kind
}
