package registry

// Inverter input-register catalog (read-only runtime + energy + BMS
// pass-through). Addresses below follow the vendor's documented layout:
// the EG4_HYBRID family uses 32-bit power registers, LXP_EU compresses
// several of them to 16-bit and shifts the grid/EPS block by four
// registers (poldim's EG4-Inverter-Modbus and Yippy's LXP-EU corrections).

var eg4Hybrid = families(FamilyEG4Hybrid, FamilyEG4OffGrid)
var lxpEU = families(FamilyLXPEU)

// InputFields is the compile-time runtime+energy register table for
// input-register reads (Modbus function code 0x04).
var InputFields = map[string]Field{
	"device_status": {Name: "device_status", Address: 0, BitWidth: 16, Category: CategoryRuntime},

	"pv1_voltage": {Name: "pv1_voltage", Address: 1, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"pv2_voltage": {Name: "pv2_voltage", Address: 2, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"pv3_voltage": {Name: "pv3_voltage", Address: 3, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},

	"battery_voltage": {Name: "battery_voltage", Address: 4, BitWidth: 16, ScaleFactor: ScaleDiv100, Category: CategoryBattery},
	"battery_current":  {Name: "battery_current", Address: 5, BitWidth: 16, Signed: true, ScaleFactor: ScaleDiv10, Category: CategoryBattery},

	"pv1_power": {Name: "pv1_power", Address: 6, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"pv2_power": {Name: "pv2_power", Address: 8, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"pv3_power": {Name: "pv3_power", Address: 10, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"charge_power":    {Name: "charge_power", Address: 12, BitWidth: 32, Families: eg4Hybrid, Category: CategoryBattery},
	"discharge_power": {Name: "discharge_power", Address: 14, BitWidth: 32, Families: eg4Hybrid, Category: CategoryBattery},

	"pv1_power_eu": {Name: "pv1_power", Address: 7, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},
	"pv2_power_eu": {Name: "pv2_power", Address: 8, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},
	"pv3_power_eu": {Name: "pv3_power", Address: 9, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},
	"charge_power_eu":    {Name: "charge_power", Address: 10, BitWidth: 16, Families: lxpEU, Category: CategoryBattery},
	"discharge_power_eu": {Name: "discharge_power", Address: 11, BitWidth: 16, Families: lxpEU, Category: CategoryBattery},

	"soc_soh_packed": {Name: "soc_soh_packed", Address: 17, BitWidth: 16, Category: CategoryPacked},

	"grid_voltage_r":  {Name: "grid_voltage_r", Address: 16, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"grid_voltage_s":  {Name: "grid_voltage_s", Address: 17, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"grid_voltage_t":  {Name: "grid_voltage_t", Address: 18, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"grid_frequency":  {Name: "grid_frequency", Address: 19, BitWidth: 16, ScaleFactor: ScaleDiv100, Families: eg4Hybrid, Category: CategoryRuntime},
	"inverter_power":  {Name: "inverter_power", Address: 20, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"grid_power":      {Name: "grid_power", Address: 22, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"power_factor":    {Name: "power_factor", Address: 24, BitWidth: 16, ScaleFactor: ScaleDiv1000, Families: eg4Hybrid, Category: CategoryRuntime},

	"grid_voltage_r_eu": {Name: "grid_voltage_r", Address: 12, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: lxpEU, Category: CategoryRuntime},
	"grid_frequency_eu": {Name: "grid_frequency", Address: 15, BitWidth: 16, ScaleFactor: ScaleDiv100, Families: lxpEU, Category: CategoryRuntime},
	"inverter_power_eu": {Name: "inverter_power", Address: 16, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},

	"eps_voltage_r":  {Name: "eps_voltage_r", Address: 26, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"eps_voltage_s":  {Name: "eps_voltage_s", Address: 27, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"eps_voltage_t":  {Name: "eps_voltage_t", Address: 28, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: eg4Hybrid, Category: CategoryRuntime},
	"eps_frequency":  {Name: "eps_frequency", Address: 29, BitWidth: 16, ScaleFactor: ScaleDiv100, Families: eg4Hybrid, Category: CategoryRuntime},
	"eps_power":      {Name: "eps_power", Address: 30, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"eps_status":     {Name: "eps_status", Address: 32, BitWidth: 16, Category: CategoryRuntime},
	"power_to_grid":  {Name: "power_to_grid", Address: 33, BitWidth: 16, Category: CategoryRuntime},

	"eps_voltage_r_eu": {Name: "eps_voltage_r", Address: 20, BitWidth: 16, ScaleFactor: ScaleDiv10, Families: lxpEU, Category: CategoryRuntime},
	"eps_power_eu":     {Name: "eps_power", Address: 24, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},

	"load_power":    {Name: "load_power", Address: 34, BitWidth: 32, Families: eg4Hybrid, Category: CategoryRuntime},
	"load_power_eu": {Name: "load_power", Address: 27, BitWidth: 16, Families: lxpEU, Category: CategoryRuntime},

	"bus_voltage_1": {Name: "bus_voltage_1", Address: 36, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"bus_voltage_2": {Name: "bus_voltage_2", Address: 37, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},

	"internal_temperature":   {Name: "internal_temperature", Address: 38, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"radiator_temperature_1": {Name: "radiator_temperature_1", Address: 39, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"radiator_temperature_2": {Name: "radiator_temperature_2", Address: 40, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"battery_temperature":    {Name: "battery_temperature", Address: 41, BitWidth: 16, Signed: true, Category: CategoryBattery},

	"inverter_fault_code":   {Name: "inverter_fault_code", Address: 64, BitWidth: 32, Category: CategoryRuntime},
	"inverter_warning_code": {Name: "inverter_warning_code", Address: 66, BitWidth: 32, Category: CategoryRuntime},
	"bms_fault_code":        {Name: "bms_fault_code", Address: 68, BitWidth: 16, Category: CategoryBattery},
	"bms_warning_code":      {Name: "bms_warning_code", Address: 69, BitWidth: 16, Category: CategoryBattery},

	"inverter_rms_current":    {Name: "inverter_rms_current", Address: 70, BitWidth: 16, ScaleFactor: ScaleDiv100, Category: CategoryRuntime},
	"inverter_apparent_power": {Name: "inverter_apparent_power", Address: 71, BitWidth: 16, Category: CategoryRuntime},

	"generator_voltage":   {Name: "generator_voltage", Address: 80, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"generator_frequency": {Name: "generator_frequency", Address: 81, BitWidth: 16, ScaleFactor: ScaleDiv100, Category: CategoryRuntime},
	"generator_power":     {Name: "generator_power", Address: 82, BitWidth: 32, Category: CategoryRuntime},

	"bms_charge_current_limit":    {Name: "bms_charge_current_limit", Address: 84, BitWidth: 16, Category: CategoryBattery},
	"bms_discharge_current_limit": {Name: "bms_discharge_current_limit", Address: 85, BitWidth: 16, Category: CategoryBattery},
	"bms_charge_voltage_ref":      {Name: "bms_charge_voltage_ref", Address: 86, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryBattery},
	"bms_discharge_cutoff":        {Name: "bms_discharge_cutoff", Address: 87, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryBattery},
	"bms_max_cell_voltage":        {Name: "bms_max_cell_voltage", Address: 88, BitWidth: 16, Category: CategoryBattery},
	"bms_min_cell_voltage":        {Name: "bms_min_cell_voltage", Address: 89, BitWidth: 16, Category: CategoryBattery},
	"bms_max_cell_temperature":    {Name: "bms_max_cell_temperature", Address: 90, BitWidth: 16, Signed: true, Category: CategoryBattery},
	"bms_min_cell_temperature":    {Name: "bms_min_cell_temperature", Address: 91, BitWidth: 16, Signed: true, Category: CategoryBattery},
	"bms_cycle_count":             {Name: "bms_cycle_count", Address: 92, BitWidth: 16, Category: CategoryBattery},
	"battery_parallel_num":        {Name: "battery_parallel_num", Address: 93, BitWidth: 16, Category: CategoryBattery},
	"battery_capacity_ah":         {Name: "battery_capacity_ah", Address: 94, BitWidth: 16, Category: CategoryBattery},
	"battery_count":               {Name: "battery_count", Address: 96, BitWidth: 16, Category: CategoryBattery},

	"temperature_t1": {Name: "temperature_t1", Address: 97, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"temperature_t2": {Name: "temperature_t2", Address: 98, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"temperature_t3": {Name: "temperature_t3", Address: 99, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"temperature_t4": {Name: "temperature_t4", Address: 100, BitWidth: 16, Signed: true, Category: CategoryRuntime},
	"temperature_t5": {Name: "temperature_t5", Address: 101, BitWidth: 16, Signed: true, Category: CategoryRuntime},

	"inverter_on_time": {Name: "inverter_on_time", Address: 102, BitWidth: 32, Category: CategoryRuntime},
	"ac_input_type":    {Name: "ac_input_type", Address: 104, BitWidth: 16, Category: CategoryRuntime},

	"parallel_config": {Name: "parallel_config", Address: 113, BitWidth: 16, Category: CategoryPacked},

	// Split-phase extension block (North American split-phase legs).
	"grid_l1_voltage": {Name: "grid_l1_voltage", Address: 127, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"grid_l2_voltage": {Name: "grid_l2_voltage", Address: 128, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"eps_l1_voltage":  {Name: "eps_l1_voltage", Address: 140, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"eps_l2_voltage":  {Name: "eps_l2_voltage", Address: 141, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"eps_l1l2_power":  {Name: "eps_l1l2_power", Address: 142, BitWidth: 16, Category: CategoryRuntime},

	"output_power_l1": {Name: "output_power_l1", Address: 170, BitWidth: 16, Category: CategoryRuntime},
	"output_power_l2": {Name: "output_power_l2", Address: 171, BitWidth: 16, Category: CategoryRuntime},

	"split_phase_grid_l1_current": {Name: "split_phase_grid_l1_current", Address: 193, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"split_phase_grid_l2_current": {Name: "split_phase_grid_l2_current", Address: 194, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryRuntime},
	"split_phase_grid_l1_power":   {Name: "split_phase_grid_l1_power", Address: 195, BitWidth: 16, Category: CategoryRuntime},
	"split_phase_grid_l2_power":   {Name: "split_phase_grid_l2_power", Address: 196, BitWidth: 16, Category: CategoryRuntime},
}

// EnergyFields is the compile-time daily+lifetime energy register table,
// read from the same input-register snapshot as InputFields.
var EnergyFields = map[string]Field{
	"pv1_energy_today": {Name: "pv1_energy_today", Address: 42, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"pv2_energy_today": {Name: "pv2_energy_today", Address: 43, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"pv3_energy_today": {Name: "pv3_energy_today", Address: 44, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},

	"inverter_energy_today": {Name: "inverter_energy_today", Address: 45, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"charge_energy_today":   {Name: "charge_energy_today", Address: 48, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"discharge_energy_today": {Name: "discharge_energy_today", Address: 49, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"grid_import_today":     {Name: "grid_import_today", Address: 50, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"grid_export_today":     {Name: "grid_export_today", Address: 51, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"eps_energy_today":      {Name: "eps_energy_today", Address: 52, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"load_energy_today":     {Name: "load_energy_today", Address: 53, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"generator_energy_today": {Name: "generator_energy_today", Address: 54, BitWidth: 16, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},

	// Lifetime counters are 32-bit low-word-first on this family (LuxPower
	// style\), unlike the runtime block's
	// high-word-first power registers.
	"pv1_energy_total": {Name: "pv1_energy_total", Address: 55, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"pv2_energy_total": {Name: "pv2_energy_total", Address: 57, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"pv3_energy_total": {Name: "pv3_energy_total", Address: 59, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},

	"inverter_energy_total":  {Name: "inverter_energy_total", Address: 61, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"charge_energy_total":    {Name: "charge_energy_total", Address: 63, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"discharge_energy_total": {Name: "discharge_energy_total", Address: 65, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"grid_import_total":      {Name: "grid_import_total", Address: 67, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"grid_export_total":      {Name: "grid_export_total", Address: 69, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"eps_energy_total":       {Name: "eps_energy_total", Address: 71, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"load_energy_total":      {Name: "load_energy_total", Address: 73, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
	"generator_energy_total": {Name: "generator_energy_total", Address: 75, BitWidth: 32, LittleEndianWords: true, ScaleFactor: ScaleDiv10, Category: CategoryEnergy},
}

// LifetimeEnergyFieldNames is the explicit compile-time list of lifetime
// (monotone, never-reset) energy field names, replacing the source
// ecosystem's name-substring reflection (see translation notes).
var LifetimeEnergyFieldNames = []string{
	"pv1_energy_total", "pv2_energy_total", "pv3_energy_total",
	"inverter_energy_total", "charge_energy_total", "discharge_energy_total",
	"grid_import_total", "grid_export_total", "eps_energy_total",
	"load_energy_total", "generator_energy_total",
}

// DailyEnergyFieldNames is the explicit compile-time list of
// midnight-resetting daily energy field names.
var DailyEnergyFieldNames = []string{
	"pv1_energy_today", "pv2_energy_today", "pv3_energy_today",
	"inverter_energy_today", "charge_energy_today", "discharge_energy_today",
	"grid_import_today", "grid_export_today", "eps_energy_today",
	"load_energy_today", "generator_energy_today",
}

// InputRegisterGroups is the catalog-declared, deterministic read order
// for the inverter input-register block, split into contiguous windows
// of at most 40 registers apiece.
var InputRegisterGroups = []RegisterGroup{
	{Name: "block_0_32", Start: 0, Count: 32},
	{Name: "block_32_32", Start: 32, Count: 32},
	{Name: "block_64_16", Start: 64, Count: 16},
	{Name: "block_80_33", Start: 80, Count: 33, Supplementary: true}, // BMS pass-through block
	{Name: "block_113_18", Start: 113, Count: 18},
	{Name: "block_140_3", Start: 140, Count: 3},
	{Name: "block_170_2", Start: 170, Count: 2},
	{Name: "block_193_4", Start: 193, Count: 4},
}

// BatteryBlockBase and BatteryBlockCount describe the atomic 4-slot,
// 30-register-per-slot battery telemetry window.
const (
	BatteryBlockBase     uint16 = 5002
	BatteryBlockSlotSize uint16 = 30
	BatteryBlockSlots    uint16 = 4
	BatteryBlockCount    uint16 = BatteryBlockSlotSize * BatteryBlockSlots
)
