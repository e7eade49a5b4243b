package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mbcet/alumnimeet/internal/models"
)

var ErrNotFound = errors.New("registration not found")

// SQLite stores registrations in a local database file. It is the default
// store for development and single-host deployments.
type SQLite struct {
	conn *gorm.DB
}

func OpenSQLite(path string) (*SQLite, error) {
	conn, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(&models.Registration{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}
	// Batch reports group by pass-out year and course.
	if err := conn.Exec("CREATE INDEX IF NOT EXISTS idx_reg_batch ON registrations(year_of_passout, course_studied)").Error; err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// CreateRecord inserts rec as a new row; gorm assigns CreatedAt and UpdatedAt.
func (s *SQLite) CreateRecord(ctx context.Context, rec models.Registration) (string, error) {
	rec.ID = 0
	if err := s.conn.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("create registration: %w", err)
	}
	return strconv.FormatUint(uint64(rec.ID), 10), nil
}

func (s *SQLite) Get(ctx context.Context, id string) (models.Registration, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return models.Registration{}, ErrNotFound
	}
	var rec models.Registration
	err = s.conn.WithContext(ctx).First(&rec, n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Registration{}, ErrNotFound
	}
	if err != nil {
		return models.Registration{}, fmt.Errorf("read registration: %w", err)
	}
	return rec, nil
}

func (s *SQLite) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
