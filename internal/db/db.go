package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/clinic-scheduler/internal/config"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db, log); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB, log *zap.Logger) error {
	start := time.Now()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Doctor{},
		&models.DoctorAvailability{},
		&models.Patient{},
		&models.ConditionDetail{},
		&models.MedicalHistoryEntry{},
		&models.Prescription{},
		&models.Appointment{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto-migrating models: %w", err)
	}

	// Active appointments of a doctor day may not share a start time.
	if err := db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS ux_appointments_active_start
		ON appointments (doctor_id, date, start_time)
		WHERE status <> 'cancelled'
	`).Error; err != nil {
		return fmt.Errorf("creating appointment index: %w", err)
	}

	log.Info("database migrated", zap.Duration("took", time.Since(start)))
	return nil
}
