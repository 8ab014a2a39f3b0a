package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/flanksource/bounty-hunter/models"
)

// Store is an explicit handle to the findings database. It is passed into
// every operation rather than held as process-wide state; callers own its
// lifetime and must Close it on all exit paths.
type Store struct {
	db *gorm.DB
}

// DefaultDir returns the default database directory under the user cache.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".cache", "bounty-hunter"), nil
}

// Open opens (creating if necessary) the findings database in the default
// cache directory.
func Open() (*Store, error) {
	dir, err := DefaultDir()
	if err != nil {
		return nil, err
	}
	return OpenDir(dir)
}

// OpenDir opens the findings database inside the given directory.
func OpenDir(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, persistence("open", fmt.Errorf("failed to create database directory: %w", err))
	}
	return OpenFile(filepath.Join(dir, "findings.db"))
}

// OpenFile opens the findings database at the given path and initializes the
// schema. Schema creation is idempotent and safe on every process start.
func OpenFile(dbPath string) (*Store, error) {
	config := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(dbPath), config)
	if err != nil {
		return nil, persistence("open", fmt.Errorf("failed to open database: %w", err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, persistence("open", fmt.Errorf("failed to get underlying sql.DB: %w", err))
	}

	// Configure SQLite for concurrent scan processes
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, persistence("open", fmt.Errorf("failed to set WAL mode: %w", err))
	}

	if _, err := sqlDB.Exec("PRAGMA busy_timeout=5000"); err != nil {
		return nil, persistence("open", fmt.Errorf("failed to set busy timeout: %w", err))
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return nil, persistence("open", fmt.Errorf("failed to enable foreign keys: %w", err))
	}

	if _, err := sqlDB.Exec("PRAGMA synchronous=NORMAL"); err != nil {
		return nil, persistence("open", fmt.Errorf("failed to set synchronous mode: %w", err))
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	if err := migrate(db); err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// migrate performs auto-migration for all models
func migrate(db *gorm.DB) error {
	modelsToMigrate := []interface{}{
		&models.Repository{},
		&models.Finding{},
		&models.ScanHistory{},
	}

	for _, model := range modelsToMigrate {
		if err := db.AutoMigrate(model); err != nil {
			return persistence("migrate", fmt.Errorf("failed to migrate model %T: %w", model, err))
		}
	}

	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return persistence("close", err)
	}
	if err := sqlDB.Close(); err != nil {
		return persistence("close", err)
	}
	return nil
}
