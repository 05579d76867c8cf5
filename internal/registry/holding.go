package registry

// Holding register catalog: writable inverter configuration parameters,
// addressed 0-366, grounded on poldim's EG4-Inverter-Modbus register map.
// Parameter reads split the range into three ≤127-register windows,
// read one after another rather than concurrently; writes group
// consecutive addresses except for the
// schedule registers, which must go through function 0x06 one at a time.

func f64(v float64) *float64 { return &v }

var HoldingFields = map[string]WritableField{
	"pv_start_voltage": {Field: Field{Name: "pv_start_voltage", Address: 22, ScaleFactor: ScaleDiv10}, MinValue: f64(90), MaxValue: f64(500)},
	"pv_input_model":   {Field: Field{Name: "pv_input_model", Address: 20}, MinValue: f64(0), MaxValue: f64(7)},

	"grid_connection_wait_time": {Field: Field{Name: "grid_connection_wait_time", Address: 23}, MinValue: f64(30), MaxValue: f64(600)},
	"reconnection_wait_time":    {Field: Field{Name: "reconnection_wait_time", Address: 24}, MinValue: f64(0), MaxValue: f64(900)},

	"charge_power_percent":    {Field: Field{Name: "charge_power_percent", Address: 64}, MinValue: f64(0), MaxValue: f64(100)},
	"discharge_power_percent": {Field: Field{Name: "discharge_power_percent", Address: 65}, MinValue: f64(0), MaxValue: f64(100)},
	"ac_charge_power_percent": {Field: Field{Name: "ac_charge_power_percent", Address: 66}, MinValue: f64(0), MaxValue: f64(100)},
	"ac_charge_soc_limit":     {Field: Field{Name: "ac_charge_soc_limit", Address: 67}, MinValue: f64(0), MaxValue: f64(100)},

	"charge_voltage_ref":       {Field: Field{Name: "charge_voltage_ref", Address: 99, ScaleFactor: ScaleDiv10}, MinValue: f64(50), MaxValue: f64(59)},
	"discharge_cutoff_voltage": {Field: Field{Name: "discharge_cutoff_voltage", Address: 100, ScaleFactor: ScaleDiv10}, MinValue: f64(40), MaxValue: f64(50)},
	"charge_current":           {Field: Field{Name: "charge_current", Address: 101}, MinValue: f64(0), MaxValue: f64(140)},
	"discharge_current":       {Field: Field{Name: "discharge_current", Address: 102}, MinValue: f64(0), MaxValue: f64(140)},
	"max_backflow_power_percent": {Field: Field{Name: "max_backflow_power_percent", Address: 103}, MinValue: f64(0), MaxValue: f64(100)},

	"eod_soc": {Field: Field{Name: "eod_soc", Address: 105}, MinValue: f64(10), MaxValue: f64(90)},

	"system_type": {Field: Field{Name: "system_type", Address: 112}, Category: CategoryPacked},

	"ptouser_start_discharge":  {Field: Field{Name: "ptouser_start_discharge", Address: 116}, MinValue: f64(50), MaxValue: f64(10000)},
	"voltage_start_derating":   {Field: Field{Name: "voltage_start_derating", Address: 118, ScaleFactor: ScaleDiv10}},
	"power_offset_wct":         {Field: Field{Name: "power_offset_wct", Address: 119, Signed: true}, MinValue: f64(-1000), MaxValue: f64(1000)},

	"soc_low_limit_discharge": {Field: Field{Name: "soc_low_limit_discharge", Address: 125}, MinValue: f64(0), MaxValue: f64(100)},

	"output_priority": {Field: Field{Name: "output_priority", Address: 145}},
	"line_mode":       {Field: Field{Name: "line_mode", Address: 146}},

	"battery_capacity":          {Field: Field{Name: "battery_capacity", Address: 147}, MinValue: f64(0), MaxValue: f64(10000)},
	"battery_nominal_voltage":   {Field: Field{Name: "battery_nominal_voltage", Address: 148, ScaleFactor: ScaleDiv10}, MinValue: f64(40), MaxValue: f64(59)},
	"float_charge_voltage":      {Field: Field{Name: "float_charge_voltage", Address: 144, ScaleFactor: ScaleDiv10}, MinValue: f64(50), MaxValue: f64(56)},
	"equalization_voltage":      {Field: Field{Name: "equalization_voltage", Address: 149, ScaleFactor: ScaleDiv10}, MinValue: f64(50), MaxValue: f64(59)},
	"equalization_interval":     {Field: Field{Name: "equalization_interval", Address: 150}, MinValue: f64(0), MaxValue: f64(365)},
	"equalization_time":         {Field: Field{Name: "equalization_time", Address: 151}, MinValue: f64(0), MaxValue: f64(24)},

	"battery_low_soc":              {Field: Field{Name: "battery_low_soc", Address: 164}, MinValue: f64(0), MaxValue: f64(90)},
	"battery_low_back_soc":         {Field: Field{Name: "battery_low_back_soc", Address: 165}, MinValue: f64(20), MaxValue: f64(100)},
	"battery_low_to_utility_soc":   {Field: Field{Name: "battery_low_to_utility_soc", Address: 167}, MinValue: f64(0), MaxValue: f64(100)},
	"battery_low_voltage":          {Field: Field{Name: "battery_low_voltage", Address: 162, ScaleFactor: ScaleDiv10}},
	"battery_low_back_voltage":     {Field: Field{Name: "battery_low_back_voltage", Address: 163, ScaleFactor: ScaleDiv10}},
	"battery_low_to_utility_voltage": {Field: Field{Name: "battery_low_to_utility_voltage", Address: 166, ScaleFactor: ScaleDiv10}},
	"ongrid_eod_voltage":           {Field: Field{Name: "ongrid_eod_voltage", Address: 169, ScaleFactor: ScaleDiv10}},

	"ac_charge_start_voltage": {Field: Field{Name: "ac_charge_start_voltage", Address: 158, ScaleFactor: ScaleDiv10}},
	"ac_charge_end_voltage":   {Field: Field{Name: "ac_charge_end_voltage", Address: 159, ScaleFactor: ScaleDiv10}},
	"ac_charge_start_soc":     {Field: Field{Name: "ac_charge_start_soc", Address: 160}, MinValue: f64(0), MaxValue: f64(90)},
	"ac_charge_end_soc":       {Field: Field{Name: "ac_charge_end_soc", Address: 161}, MinValue: f64(20), MaxValue: f64(100)},
	"ac_charge_battery_current": {Field: Field{Name: "ac_charge_battery_current", Address: 168}, MinValue: f64(0), MaxValue: f64(140)},

	"max_grid_input_power": {Field: Field{Name: "max_grid_input_power", Address: 176}},
	"gen_rated_power":      {Field: Field{Name: "gen_rated_power", Address: 177}},

	"gen_charge_start_voltage":       {Field: Field{Name: "gen_charge_start_voltage", Address: 194, ScaleFactor: ScaleDiv10}},
	"gen_charge_end_voltage":         {Field: Field{Name: "gen_charge_end_voltage", Address: 195, ScaleFactor: ScaleDiv10}},
	"gen_charge_start_soc":           {Field: Field{Name: "gen_charge_start_soc", Address: 196}, MinValue: f64(0), MaxValue: f64(90)},
	"gen_charge_end_soc":             {Field: Field{Name: "gen_charge_end_soc", Address: 197}, MinValue: f64(20), MaxValue: f64(100)},
	"max_gen_charge_battery_current": {Field: Field{Name: "max_gen_charge_battery_current", Address: 198}, MinValue: f64(0), MaxValue: f64(60)},

	"com_version":        {Field: Field{Name: "com_version", Address: 9}},
	"controller_version": {Field: Field{Name: "controller_version", Address: 10}},
	"language":            {Field: Field{Name: "language", Address: 16}},
	"inverter_output_voltage":   {Field: Field{Name: "inverter_output_voltage", Address: 90}},
	"inverter_output_frequency": {Field: Field{Name: "inverter_output_frequency", Address: 91}},
}

// HoldingRegisterGroups are the three read windows used for a full
// parameter-map refresh; the orchestrator reads them in sequence, one at
// a time.
var HoldingRegisterGroups = []RegisterGroup{
	{Name: "holding_0_127", Start: 0, Count: 127},
	{Name: "holding_127_127", Start: 127, Count: 127},
	{Name: "holding_240_127", Start: 240, Count: 127},
}

// AC charge schedule registers. Each of the (typically 3) schedule periods
// occupies one consecutive pair of holding registers packing
// (start_hour,start_minute) and (end_hour,end_minute) one byte each; the
// device only accepts these via function code 0x06 (write single), never
// 0x10 (write multiple).
const (
	ACChargeSchedulePeriods    = 3
	ACChargeScheduleBaseAddr  uint16 = 250
	ACChargeScheduleRegsPerPeriod uint16 = 2
)

// ACChargeScheduleAddr returns the (start, end) holding register addresses
// for the zero-indexed schedule period.
func ACChargeScheduleAddr(period int) (startReg, endReg uint16) {
	base := ACChargeScheduleBaseAddr + uint16(period)*ACChargeScheduleRegsPerPeriod
	return base, base + 1
}

// BatterySOCLimits are the two holding registers controlling the SoC
// window at which the inverter starts/stops discharging to load.
const (
	BatterySOCOnRegister  uint16 = 105 // eod_soc, 10-90%
	BatterySOCOffRegister uint16 = 125 // soc_low_limit_discharge, 0-100%
)
