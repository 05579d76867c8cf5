package registry

// GridBOSS/MID holding-register catalog. Unlike inverters, GridBOSS
// exposes its runtime telemetry over holding registers (function code
// 0x03), not input registers — grounded on the GRIDBOSS_RUNTIME_MAP
// layout.

var gridboss = families(FamilyGridBOSS)

// GridBOSSRegisterGroups is the catalog-declared read order for a full
// GridBOSS runtime refresh.
var GridBOSSRegisterGroups = []RegisterGroup{
	{Name: "gb_block_0_40", Start: 0, Count: 40},
	{Name: "gb_block_40_28", Start: 40, Count: 28},
	{Name: "gb_block_68_40", Start: 68, Count: 40},
	{Name: "gb_block_108_12", Start: 108, Count: 12},
	{Name: "gb_block_128_4", Start: 128, Count: 4},
}

// GridBOSSSmartPortModeRegister carries the four smart ports' mode
// packed two bits per port (off=0, smart-load=1, ac-couple=2), read
// separately from the bulk runtime groups.
const GridBOSSSmartPortModeRegister uint16 = 20

// DeviceTypeRegister is the holding register every device (inverter or
// GridBOSS) exposes for self-identification; code 50 means GridBOSS.
const DeviceTypeRegister uint16 = 19

// DeviceTypeCodeGridBOSS is the value DeviceTypeRegister holds on a
// physically connected GridBOSS.
const DeviceTypeCodeGridBOSS = 50

// GridBOSSFields is the GridBOSS runtime register table.
var GridBOSSFields = map[string]Field{
	"grid_rms_voltage_l1": {Name: "grid_rms_voltage_l1", Address: 0, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"grid_rms_voltage_l2": {Name: "grid_rms_voltage_l2", Address: 1, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"grid_rms_current_l1": {Name: "grid_rms_current_l1", Address: 2, Signed: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"grid_rms_current_l2": {Name: "grid_rms_current_l2", Address: 3, Signed: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"grid_frequency":       {Name: "grid_frequency", Address: 4, ScaleFactor: ScaleDiv100, Families: gridboss, Category: CategoryGridBOSS},
	"grid_power_l1":        {Name: "grid_power_l1", Address: 5, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"grid_power_l2":        {Name: "grid_power_l2", Address: 7, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	"load_voltage_l1":  {Name: "load_voltage_l1", Address: 9, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"load_voltage_l2":  {Name: "load_voltage_l2", Address: 10, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"load_power_l1":    {Name: "load_power_l1", Address: 11, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"load_power_l2":    {Name: "load_power_l2", Address: 13, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	"generator_voltage_l1": {Name: "generator_voltage_l1", Address: 15, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"generator_voltage_l2": {Name: "generator_voltage_l2", Address: 16, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"generator_frequency":  {Name: "generator_frequency", Address: 17, ScaleFactor: ScaleDiv100, Families: gridboss, Category: CategoryGridBOSS},
	"generator_power_l1":   {Name: "generator_power_l1", Address: 18, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"generator_power_l2":   {Name: "generator_power_l2", Address: 19, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	"ups_voltage_l1":   {Name: "ups_voltage_l1", Address: 40, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"ups_voltage_l2":   {Name: "ups_voltage_l2", Address: 41, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryGridBOSS},
	"ups_frequency":    {Name: "ups_frequency", Address: 42, ScaleFactor: ScaleDiv100, Families: gridboss, Category: CategoryGridBOSS},
	"ups_power_l1":     {Name: "ups_power_l1", Address: 43, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"ups_power_l2":     {Name: "ups_power_l2", Address: 45, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	"smart_port1_l1_power_smartload": {Name: "smart_port1_l1_power_smartload", Address: 68, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port1_l2_power_smartload": {Name: "smart_port1_l2_power_smartload", Address: 70, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port2_l1_power_smartload": {Name: "smart_port2_l1_power_smartload", Address: 72, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port2_l2_power_smartload": {Name: "smart_port2_l2_power_smartload", Address: 74, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port3_l1_power_smartload": {Name: "smart_port3_l1_power_smartload", Address: 76, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port3_l2_power_smartload": {Name: "smart_port3_l2_power_smartload", Address: 78, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port4_l1_power_smartload": {Name: "smart_port4_l1_power_smartload", Address: 80, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port4_l2_power_smartload": {Name: "smart_port4_l2_power_smartload", Address: 82, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	"smart_port1_l1_power_accouple": {Name: "smart_port1_l1_power_accouple", Address: 84, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port1_l2_power_accouple": {Name: "smart_port1_l2_power_accouple", Address: 86, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port2_l1_power_accouple": {Name: "smart_port2_l1_power_accouple", Address: 88, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port2_l2_power_accouple": {Name: "smart_port2_l2_power_accouple", Address: 90, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port3_l1_power_accouple": {Name: "smart_port3_l1_power_accouple", Address: 92, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port3_l2_power_accouple": {Name: "smart_port3_l2_power_accouple", Address: 94, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port4_l1_power_accouple": {Name: "smart_port4_l1_power_accouple", Address: 96, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},
	"smart_port4_l2_power_accouple": {Name: "smart_port4_l2_power_accouple", Address: 98, BitWidth: 32, Signed: true, Families: gridboss, Category: CategoryGridBOSS},

	// Daily/lifetime kWh counters (108-131): UPS, load, grid-to-user,
	// to-grid, each L1/L2.
	"ups_energy_l1_today":  {Name: "ups_energy_l1_today", Address: 108, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"ups_energy_l2_today":  {Name: "ups_energy_l2_today", Address: 109, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"load_energy_l1_today": {Name: "load_energy_l1_today", Address: 110, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"load_energy_l2_today": {Name: "load_energy_l2_today", Address: 111, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"grid_to_user_today_l1": {Name: "grid_to_user_today_l1", Address: 112, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"grid_to_user_today_l2": {Name: "grid_to_user_today_l2", Address: 113, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"to_grid_today_l1":      {Name: "to_grid_today_l1", Address: 114, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"to_grid_today_l2":      {Name: "to_grid_today_l2", Address: 115, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},

	"ups_energy_l1_total":  {Name: "ups_energy_l1_total", Address: 116, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"ups_energy_l2_total":  {Name: "ups_energy_l2_total", Address: 118, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"load_energy_l1_total": {Name: "load_energy_l1_total", Address: 120, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"load_energy_l2_total": {Name: "load_energy_l2_total", Address: 122, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"grid_to_user_total_l1": {Name: "grid_to_user_total_l1", Address: 124, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"grid_to_user_total_l2": {Name: "grid_to_user_total_l2", Address: 126, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"to_grid_total_l1":      {Name: "to_grid_total_l1", Address: 128, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
	"to_grid_total_l2":      {Name: "to_grid_total_l2", Address: 130, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Families: gridboss, Category: CategoryEnergy},
}

// GridBOSSLifetimeEnergyFieldNames lists GridBOSS's monotone lifetime
// counters for the shared energy-monotonicity validator.
var GridBOSSLifetimeEnergyFieldNames = []string{
	"ups_energy_l1_total", "ups_energy_l2_total",
	"load_energy_l1_total", "load_energy_l2_total",
	"grid_to_user_total_l1", "grid_to_user_total_l2",
	"to_grid_total_l1", "to_grid_total_l2",
}
