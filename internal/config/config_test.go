package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validDevice() DeviceConfig {
	return DeviceConfig{
		ID:           "inv1",
		Transport:    "modbus_tcp",
		Family:       "auto",
		Host:         "192.168.1.50",
		Port:         502,
		PollInterval: 10 * time.Second,
	}
}

func validConfig() Config {
	return Config{
		Devices: []DeviceConfig{validDevice()},
		API:     APIConfig{Host: "0.0.0.0", Port: 8080},
		Logger:  LoggerConfig{Level: "INFO", Format: "json", Output: "stdout"},
	}
}

func TestConfigValidatePassesOnMinimalValidConfig(t *testing.T) {
	c := validConfig()
	assert.NoError(t, c.Validate())
}

func TestConfigValidateRejectsEmptyDevices(t *testing.T) {
	c := validConfig()
	c.Devices = nil
	assert.Error(t, c.Validate())
}

func TestConfigValidateRejectsUnalignedPollInterval(t *testing.T) {
	c := validConfig()
	c.Devices[0].PollInterval = 7 * time.Second
	assert.Error(t, c.Validate())
}

func TestConfigValidateAcceptsAllDocumentedAlignedIntervals(t *testing.T) {
	for _, interval := range []time.Duration{
		5 * time.Second, 30 * time.Second, time.Minute, 15 * time.Minute, time.Hour,
	} {
		c := validConfig()
		c.Devices[0].PollInterval = interval
		assert.NoError(t, c.Validate(), "interval %s should be accepted", interval)
	}
}

func TestConfigValidateRequiresHostForModbusTCP(t *testing.T) {
	c := validConfig()
	c.Devices[0].Host = ""
	assert.Error(t, c.Validate())
}

func TestConfigValidateRequiresSerialDeviceForModbusRTU(t *testing.T) {
	c := validConfig()
	c.Devices[0].Transport = "modbus_rtu"
	c.Devices[0].Host = ""
	c.Devices[0].PollInterval = 10 * time.Second
	assert.Error(t, c.Validate(), "missing serial_device should fail validation")

	c.Devices[0].SerialDevice = "/dev/ttyUSB0"
	assert.NoError(t, c.Validate())
}

func TestConfigValidateRequiresDongleAndInverterSerialForDongleTransport(t *testing.T) {
	c := validConfig()
	c.Devices[0].Transport = "dongle"
	assert.Error(t, c.Validate())

	c.Devices[0].DongleSerial = "DONGLE0001"
	c.Devices[0].InverterSerial = "INVERTER01"
	assert.NoError(t, c.Validate())
}

func TestConfigValidateRejectsUnknownFamily(t *testing.T) {
	c := validConfig()
	c.Devices[0].Family = "NOT_A_FAMILY"
	assert.Error(t, c.Validate())
}

func TestInfluxDBEnabledReflectsURLPresence(t *testing.T) {
	assert.False(t, InfluxDBConfig{}.Enabled())
	assert.True(t, InfluxDBConfig{URL: "http://localhost:8086"}.Enabled())
}

func TestPostgresEnabledReflectsDatabasePresence(t *testing.T) {
	assert.False(t, PostgresConfig{}.Enabled())
	assert.True(t, PostgresConfig{Database: "eg4"}.Enabled())
}

func TestCloudHTTPEnabledReflectsBaseURLPresence(t *testing.T) {
	assert.False(t, CloudHTTPConfig{}.Enabled())
	assert.True(t, CloudHTTPConfig{BaseURL: "https://api.example.com"}.Enabled())
}
