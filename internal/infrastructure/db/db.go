package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	domain "github.com/mohammadpnp/field-productivity/internal/domain/productivity"
	"github.com/mohammadpnp/field-productivity/internal/infrastructure/db/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	LogLevel     gormlogger.LogLevel
}

// Open connects with the configured dialect. Duplicate-key errors are
// translated to gorm.ErrDuplicatedKey for both dialects.
func Open(cfg Config) (*gorm.DB, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, errors.New("database dsn is required")
	}
	level := cfg.LogLevel
	if level == 0 {
		level = gormlogger.Warn
	}
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(level),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	}

	var dialector gorm.Dialector
	switch strings.ToLower(cfg.Driver) {
	case DriverPostgres, "":
		dialector = postgres.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("database handle: %w", err)
	}
	switch {
	case strings.EqualFold(cfg.Driver, DriverSQLite):
		// sqlite allows one writer; a single connection serializes transactions.
		sqlDB.SetMaxOpenConns(1)
	case cfg.MaxOpenConns > 0:
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return gdb, nil
}

// partialIndexes hold the invariants gorm tags cannot express.
var partialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_open_item_session
		ON item_work_sessions (job_id, item_id, installer_id)
		WHERE status <> 'completed'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_open_pause
		ON pause_logs (session_id)
		WHERE end_time IS NULL`,
}

func Migrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&models.Job{},
		&models.JobItem{},
		&models.ItemAssignment{},
		&models.Installer{},
		&models.WorkSession{},
		&models.PauseLog{},
		&models.ProductFamily{},
		&models.InstalledProduct{},
		&models.ProductivityBenchmark{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range partialIndexes {
		if err := gdb.Exec(stmt).Error; err != nil {
			return fmt.Errorf("create partial index: %w", err)
		}
	}
	return nil
}

// SeedFamilies inserts every taxonomy family that is not in the catalogue yet.
func SeedFamilies(ctx context.Context, gdb *gorm.DB, taxonomy domain.Taxonomy, newID func() string) (int, error) {
	var existing []string
	if err := gdb.WithContext(ctx).Model(&models.ProductFamily{}).Pluck("name", &existing).Error; err != nil {
		return 0, fmt.Errorf("list families: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, name := range existing {
		known[name] = true
	}

	rows := make([]models.ProductFamily, 0)
	for _, rule := range taxonomy.Rules() {
		if known[rule.Family] {
			continue
		}
		rows = append(rows, models.ProductFamily{
			ID:          newID(),
			Name:        rule.Family,
			Description: rule.Description,
			Color:       rule.Color,
			CreatedAt:   time.Now().UTC(),
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := gdb.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, fmt.Errorf("seed families: %w", err)
	}
	return len(rows), nil
}
