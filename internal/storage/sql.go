package storage

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/models"
)

// SQLRecords stores records as rows of the local_records table. It works
// with any gorm dialect the database package opens (sqlite or postgres).
type SQLRecords struct {
	db *gorm.DB
}

// NewSQLRecords creates a SQL-backed record store. The table must exist;
// see database.RunMigrations.
func NewSQLRecords(db *gorm.DB) *SQLRecords {
	return &SQLRecords{db: db}
}

func (s *SQLRecords) Get(ctx context.Context, key string) ([]byte, error) {
	var rec models.LocalRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return []byte(rec.Value), nil
}

func (s *SQLRecords) Put(ctx context.Context, key string, value []byte) error {
	rec := models.LocalRecord{Key: key, Value: string(value)}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

func (s *SQLRecords) Delete(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Delete(&models.LocalRecord{}, "key = ?", key).Error; err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	return nil
}
