// Package store implements the optional time-series and relational
// persistence sinks. Neither sink is on the hot path of a device
// refresh: callers wire them in explicitly to archive what the device
// façade already decoded, mirroring the reference codebase's layering
// where InfluxDB/PostgreSQL sit behind the domain packages, never in
// front of them.
package store

import (
	"context"
	"fmt"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/data"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// InfluxStore is the InfluxDB time-series sink for runtime, energy,
// battery, and GridBOSS snapshots.
type InfluxStore struct {
	client   influxdb2.Client
	writeAPI api.WriteAPI
	queryAPI api.QueryAPI
	cfg      config.InfluxDBConfig
	log      logger.Logger
}

// NewInfluxStore connects to InfluxDB and verifies the connection with
// a health check before returning.
func NewInfluxStore(cfg config.InfluxDBConfig, log logger.Logger) (*InfluxStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	storeLog := log.With(
		logger.String("store", "influxdb"),
		logger.String("url", cfg.URL),
		logger.String("organization", cfg.Organization),
		logger.String("bucket", cfg.Bucket),
	)
	storeLog.Info("connecting to influxdb")

	options := influxdb2.DefaultOptions()
	options.SetBatchSize(cfg.BatchSize)
	options.SetFlushInterval(uint(cfg.FlushInterval.Milliseconds()))
	client := influxdb2.NewClientWithOptions(cfg.URL, cfg.Token, options)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := client.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("connect to influxdb: %w", err)
	}
	if health.Status != "pass" {
		return nil, fmt.Errorf("influxdb health check failed: %s", health.Status)
	}

	return &InfluxStore{
		client:   client,
		writeAPI: client.WriteAPI(cfg.Organization, cfg.Bucket),
		queryAPI: client.QueryAPI(cfg.Organization),
		cfg:      cfg,
		log:      storeLog,
	}, nil
}

// Close flushes any buffered points and closes the client.
func (s *InfluxStore) Close() error {
	s.writeAPI.Flush()
	s.client.Close()
	return nil
}

// HealthCheck reports whether InfluxDB is reachable.
func (s *InfluxStore) HealthCheck() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil {
		return err
	}
	if health.Status != "pass" {
		return fmt.Errorf("influxdb health check failed: %s", health.Status)
	}
	return nil
}

// point is a thin alias so the addOpt* helpers below can be written
// once against the influxdb2 point builder's fluent interface.
type point = influxdb2.Point

func addOptFloat(p *point, field string, v *float64) *point {
	if v != nil {
		p.AddField(field, *v)
	}
	return p
}

func addOptInt(p *point, field string, v *int) *point {
	if v != nil {
		p.AddField(field, *v)
	}
	return p
}

// WriteRuntime records an inverter runtime snapshot as one point per
// call; nil fields (unread registers) are simply omitted rather than
// written as zero.
func (s *InfluxStore) WriteRuntime(serial string, d *data.InverterRuntimeData) {
	p := influxdb2.NewPointWithMeasurement("inverter_runtime").AddTag("serial", serial)
	addOptFloat(p, "pv1_power", d.PV1Power)
	addOptFloat(p, "pv2_power", d.PV2Power)
	addOptFloat(p, "pv3_power", d.PV3Power)
	addOptFloat(p, "pv_total_power", d.PVTotalPower)
	addOptFloat(p, "battery_voltage", d.BatteryVoltage)
	addOptFloat(p, "battery_current", d.BatteryCurrent)
	addOptInt(p, "battery_soc", d.BatterySOC)
	addOptInt(p, "battery_soh", d.BatterySOH)
	addOptFloat(p, "battery_charge_power", d.BatteryChargePower)
	addOptFloat(p, "battery_discharge_power", d.BatteryDischargePower)
	addOptFloat(p, "grid_frequency", d.GridFrequency)
	addOptFloat(p, "grid_power", d.GridPower)
	addOptFloat(p, "power_to_grid", d.PowerToGrid)
	addOptFloat(p, "power_from_grid", d.PowerFromGrid)
	addOptFloat(p, "inverter_power", d.InverterPower)
	addOptFloat(p, "load_power", d.LoadPower)
	addOptFloat(p, "eps_power", d.EPSPower)
	addOptInt(p, "device_status", d.DeviceStatus)
	addOptInt(p, "fault_code", d.FaultCode)
	addOptInt(p, "warning_code", d.WarningCode)
	p.SetTime(d.Timestamp)
	s.writeAPI.WritePoint(p)
}

// WriteEnergy records an inverter's daily and lifetime energy counters.
func (s *InfluxStore) WriteEnergy(serial string, d *data.InverterEnergyData) {
	p := influxdb2.NewPointWithMeasurement("inverter_energy").AddTag("serial", serial)
	addOptFloat(p, "pv_energy_today", d.PVEnergyToday)
	addOptFloat(p, "charge_energy_today", d.ChargeEnergyToday)
	addOptFloat(p, "discharge_energy_today", d.DischargeEnergyToday)
	addOptFloat(p, "grid_import_today", d.GridImportToday)
	addOptFloat(p, "grid_export_today", d.GridExportToday)
	addOptFloat(p, "load_energy_today", d.LoadEnergyToday)
	addOptFloat(p, "pv_energy_total", d.PVEnergyTotal)
	addOptFloat(p, "charge_energy_total", d.ChargeEnergyTotal)
	addOptFloat(p, "discharge_energy_total", d.DischargeEnergyTotal)
	addOptFloat(p, "grid_import_total", d.GridImportTotal)
	addOptFloat(p, "grid_export_total", d.GridExportTotal)
	addOptFloat(p, "load_energy_total", d.LoadEnergyTotal)
	p.SetTime(d.Timestamp)
	s.writeAPI.WritePoint(p)
}

// WriteBattery records one point per physical battery module in the
// bank, tagged by device serial and pack serial.
func (s *InfluxStore) WriteBattery(deviceSerial string, bank *data.BatteryBankData) {
	if bank == nil {
		return
	}
	now := time.Now()
	for _, m := range bank.Modules {
		p := influxdb2.NewPointWithMeasurement("battery_module").
			AddTag("device_serial", deviceSerial).
			AddTag("serial", m.Serial).
			AddField("voltage", m.Voltage).
			AddField("current", m.Current).
			AddField("power", m.Power()).
			AddField("soc", m.SOC).
			AddField("soh", m.SOH).
			AddField("max_cell_voltage", m.MaxCellVoltage).
			AddField("min_cell_voltage", m.MinCellVoltage).
			AddField("max_cell_temp", m.MaxCellTemp).
			AddField("min_cell_temp", m.MinCellTemp).
			AddField("cycle_count", m.CycleCount).
			SetTime(now)
		s.writeAPI.WritePoint(p)
	}
}

// WriteGridBOSS records a GridBOSS/MID runtime snapshot.
func (s *InfluxStore) WriteGridBOSS(serial string, d *data.MidboxRuntimeData) {
	p := influxdb2.NewPointWithMeasurement("gridboss_runtime").AddTag("serial", serial)
	addOptFloat(p, "grid_frequency", d.GridFrequency)
	addOptFloat(p, "grid_power_l1", d.GridPowerL1)
	addOptFloat(p, "grid_power_l2", d.GridPowerL2)
	addOptFloat(p, "load_power_l1", d.LoadPowerL1)
	addOptFloat(p, "load_power_l2", d.LoadPowerL2)
	addOptFloat(p, "generator_power_l1", d.GeneratorPowerL1)
	addOptFloat(p, "generator_power_l2", d.GeneratorPowerL2)
	addOptFloat(p, "ups_power_l1", d.UPSPowerL1)
	addOptFloat(p, "ups_power_l2", d.UPSPowerL2)
	p.SetTime(d.Timestamp)
	s.writeAPI.WritePoint(p)
}

// Flush forces writing of any buffered points.
func (s *InfluxStore) Flush() {
	s.writeAPI.Flush()
}
