package store

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// PostgresStore is the relational sink for device events of any event
// type. In this codebase its only writer is the telemetry poller, which
// records refresh errors; canary rejections, energy-monotonicity
// rejections and fault/warning transitions are not recorded by any
// caller. It exists for operators who want a
// queryable history of "what got rejected and why" beyond whatever a
// single log line captured at the time.
type PostgresStore struct {
	db  *gorm.DB
	log logger.Logger
}

// DeviceEventRecord is one row in the device_events table.
type DeviceEventRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Timestamp  time.Time `gorm:"index" json:"timestamp"`
	DeviceID   string    `gorm:"index;size:64" json:"device_id"`
	EventType  string    `gorm:"index;size:50" json:"event_type"` // refresh_error (written by the telemetry poller); also canary_runtime, canary_battery, energy_rejected, fault, warning
	Severity   string    `gorm:"index;size:20" json:"severity"`
	Code       uint16    `json:"code"`
	Message    string    `gorm:"size:500" json:"message"`
	Open       bool      `gorm:"index" json:"open"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for DeviceEventRecord.
func (DeviceEventRecord) TableName() string {
	return "device_events"
}

// NewPostgresStore connects to PostgreSQL, configures the connection
// pool, and auto-migrates the device_events schema.
func NewPostgresStore(cfg config.PostgresConfig, log logger.Logger) (*PostgresStore, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	storeLog := log.With(
		logger.String("store", "postgres"),
		logger.String("host", cfg.Host),
		logger.String("database", cfg.Database),
	)
	storeLog.Info("connecting to postgresql")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		cfg.Host, cfg.Username, cfg.Password, cfg.Database, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Error),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgresql: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgresql: %w", err)
	}

	s := &PostgresStore{db: db, log: storeLog}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate device_events schema: %w", err)
	}

	storeLog.Info("postgresql connection established",
		logger.Int("max_idle", cfg.MaxIdle), logger.Int("max_open", cfg.MaxOpen))
	return s, nil
}

func (s *PostgresStore) migrate() error {
	return s.db.AutoMigrate(&DeviceEventRecord{})
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// HealthCheck reports whether PostgreSQL is reachable.
func (s *PostgresStore) HealthCheck() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// SaveEvent records a device event.
func (s *PostgresStore) SaveEvent(deviceID, eventType, severity, message string, code uint16) error {
	record := DeviceEventRecord{
		Timestamp: time.Now(),
		DeviceID:  deviceID,
		EventType: eventType,
		Severity:  severity,
		Code:      code,
		Message:   message,
		Open:      true,
	}
	if err := s.db.Create(&record).Error; err != nil {
		s.log.Error("failed to save device event",
			logger.Err(err), logger.String("device_id", deviceID), logger.String("event_type", eventType))
		return err
	}
	return nil
}

// GetOpenEvents returns every event still marked open, newest first.
func (s *PostgresStore) GetOpenEvents() ([]DeviceEventRecord, error) {
	var events []DeviceEventRecord
	err := s.db.Where("open = ?", true).Order("timestamp desc").Find(&events).Error
	return events, err
}

// GetEventHistory returns a page of events ordered newest first.
func (s *PostgresStore) GetEventHistory(limit, offset int) ([]DeviceEventRecord, error) {
	var events []DeviceEventRecord
	err := s.db.Order("timestamp desc").Limit(limit).Offset(offset).Find(&events).Error
	return events, err
}

// GetEventsByDevice returns every event for one device, optionally
// restricted to open events only.
func (s *PostgresStore) GetEventsByDevice(deviceID string, openOnly bool) ([]DeviceEventRecord, error) {
	var events []DeviceEventRecord
	q := s.db.Where("device_id = ?", deviceID)
	if openOnly {
		q = q.Where("open = ?", true)
	}
	err := q.Order("timestamp desc").Find(&events).Error
	return events, err
}

// GetEventsInTimeRange returns every event between start and end.
func (s *PostgresStore) GetEventsInTimeRange(start, end time.Time) ([]DeviceEventRecord, error) {
	var events []DeviceEventRecord
	err := s.db.Where("timestamp BETWEEN ? AND ?", start, end).
		Order("timestamp desc").Find(&events).Error
	return events, err
}

// CloseEvent marks one event closed (resolved).
func (s *PostgresStore) CloseEvent(id uint) error {
	return s.db.Model(&DeviceEventRecord{}).Where("id = ?", id).Update("open", false).Error
}

// CloseAllForDevice closes every open event for one device — used when
// a device reconnects cleanly after a run of canary rejections.
func (s *PostgresStore) CloseAllForDevice(deviceID string) (int64, error) {
	result := s.db.Model(&DeviceEventRecord{}).
		Where("device_id = ? AND open = ?", deviceID, true).
		Update("open", false)
	return result.RowsAffected, result.Error
}

// DeleteOldEvents deletes closed events older than olderThan.
func (s *PostgresStore) DeleteOldEvents(olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan)
	return s.db.Where("timestamp < ? AND open = ?", cutoff, false).Delete(&DeviceEventRecord{}).Error
}
