package db

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/barber-agenda/internal/config"
	"github.com/BruksfildServices01/barber-agenda/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(postgres.Open(cfg.DBUrl))
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	return db, nil
}

// Open configures gorm the way every store in the service expects: UTC
// timestamps and translated constraint errors.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	return gorm.Open(dialector, &gorm.Config{
		PrepareStmt:    true,
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Warn),
	})
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Unit{},
		&models.Barber{},
		&models.Service{},
		&models.Client{},
		&models.Appointment{},
		&models.CancellationHistory{},
		&models.AutomationLog{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	db.Exec(`
        UPDATE units
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `)

	if db.Dialector.Name() != "postgres" {
		return nil
	}

	for _, stmt := range postgresConstraints {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to apply constraint: %w", err)
		}
	}
	slog.Debug("postgres constraints applied", "count", len(postgresConstraints))

	return nil
}

// Two active appointments of the same barber may never overlap. The
// application checks this inside a transaction too; the constraint closes the
// read-then-insert race between concurrent requests.
var postgresConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
    IF NOT EXISTS (
        SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
    ) THEN
        ALTER TABLE appointments
            ADD CONSTRAINT appointments_no_overlap
            EXCLUDE USING gist (
                barber_id WITH =,
                tstzrange(start_time, end_time, '[)') WITH &&
            )
            WHERE (status IN ('pending', 'confirmed') AND barber_id IS NOT NULL);
    END IF;
END $$`,
}
