package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration: the set of
// devices to poll, the optional operational API surface, the optional
// persistence sinks, and logging.
type Config struct {
	Devices  []DeviceConfig `mapstructure:"devices" validate:"required,min=1,dive"`
	API      APIConfig      `mapstructure:"api" validate:"required"`
	InfluxDB InfluxDBConfig `mapstructure:"influxdb"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	CloudHTTP CloudHTTPConfig `mapstructure:"cloud_http"`
	Logger   LoggerConfig   `mapstructure:"logger" validate:"required"`
}

// DeviceConfig describes one inverter or GridBOSS and how to reach it.
type DeviceConfig struct {
	ID string `mapstructure:"id" validate:"required"`
	// Group names the parallel group this device belongs to; devices
	// sharing a group are polled together and, if one of them is a
	// GridBOSS, treated as that group's AC-side companion. Devices with
	// no group are each their own single-inverter group.
	Group string `mapstructure:"group"`
	// Transport selects the wire protocol: modbus_tcp, modbus_rtu, or
	// dongle (the proprietary WiFi-dongle TCP framing).
	Transport string `mapstructure:"transport" validate:"required,oneof=modbus_tcp modbus_rtu dongle"`
	// Family selects the register-map variant. "auto" reads holding
	// register 19 at connect time and picks GRIDBOSS or EG4_HYBRID.
	Family string `mapstructure:"family" validate:"required,oneof=auto EG4_HYBRID EG4_OFFGRID LXP_EU GRIDBOSS"`

	Host string `mapstructure:"host" validate:"required_if=Transport modbus_tcp,required_if=Transport dongle,omitempty,hostname_rfc1123|ip"`
	Port int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`

	SerialDevice string `mapstructure:"serial_device" validate:"required_if=Transport modbus_rtu"`
	BaudRate     uint   `mapstructure:"baud_rate"`

	SlaveID uint8 `mapstructure:"slave_id"`

	DongleSerial   string `mapstructure:"dongle_serial" validate:"required_if=Transport dongle"`
	InverterSerial string `mapstructure:"inverter_serial" validate:"required_if=Transport dongle"`

	RatedPowerKW float64 `mapstructure:"rated_power_kw" validate:"omitempty,min=0"`

	Timeout      time.Duration `mapstructure:"timeout"`
	Retries      int           `mapstructure:"retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"required,aligned_interval"`
}

// APIConfig contains the operational HTTP API configuration.
type APIConfig struct {
	Host string `mapstructure:"host" validate:"required,hostname_rfc1123|ip"`
	Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// InfluxDBConfig configures the optional InfluxDB time-series sink.
// All fields are empty-valid: an unset URL means the sink is disabled.
type InfluxDBConfig struct {
	URL           string        `mapstructure:"url" validate:"omitempty,url"`
	Token         string        `mapstructure:"token"`
	Organization  string        `mapstructure:"organization"`
	Bucket        string        `mapstructure:"bucket"`
	BatchSize     uint          `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

// Enabled reports whether the InfluxDB sink is configured.
func (c InfluxDBConfig) Enabled() bool { return c.URL != "" }

// PostgresConfig configures the optional PostgreSQL persistence sink.
type PostgresConfig struct {
	Host     string `mapstructure:"host" validate:"omitempty,hostname_rfc1123|ip"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxIdle  int    `mapstructure:"max_idle_connections"`
	MaxOpen  int    `mapstructure:"max_open_connections"`
}

// Enabled reports whether the PostgreSQL sink is configured.
func (c PostgresConfig) Enabled() bool { return c.Database != "" }

// CloudHTTPConfig configures the optional cloud HTTP transport adapter.
type CloudHTTPConfig struct {
	BaseURL  string `mapstructure:"base_url" validate:"omitempty,url"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// Enabled reports whether the cloud HTTP adapter is configured.
func (c CloudHTTPConfig) Enabled() bool { return c.BaseURL != "" }

// LoggerConfig contains logger-specific configuration.
type LoggerConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR FATAL"`
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
	Output string `mapstructure:"output" validate:"required,logpath"`
}

var validate *validator.Validate

func init() {
	validate = NewValidator()
}

// Load loads configuration from the specified file path, falling back
// to ./configs/config.json or ./config.json when configPath is empty.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("EG4")

	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func bindEnvVariables(v *viper.Viper) {
	v.BindEnv("api.host")
	v.BindEnv("api.port")

	v.BindEnv("influxdb.url")
	v.BindEnv("influxdb.token")
	v.BindEnv("influxdb.organization")
	v.BindEnv("influxdb.bucket")
	v.BindEnv("influxdb.batch_size")
	v.BindEnv("influxdb.flush_interval")

	v.BindEnv("postgres.host")
	v.BindEnv("postgres.port")
	v.BindEnv("postgres.username")
	v.BindEnv("postgres.password")
	v.BindEnv("postgres.database")
	v.BindEnv("postgres.ssl_mode")

	v.BindEnv("cloud_http.base_url")
	v.BindEnv("cloud_http.username")
	v.BindEnv("cloud_http.password")

	v.BindEnv("logger.level")
	v.BindEnv("logger.format")
	v.BindEnv("logger.output")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)

	v.SetDefault("influxdb.batch_size", 100)
	v.SetDefault("influxdb.flush_interval", 5*time.Second)

	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_idle_connections", 5)
	v.SetDefault("postgres.max_open_connections", 10)

	v.SetDefault("logger.level", "INFO")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
