package kvstore

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hissterical/MindfulPay/internal/models"
)

// GormStore keeps every key as a row of the kv_records table.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a Store over db. The kv_records table must exist
// (see database.RunMigrations).
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	var rec models.Record
	err := s.db.WithContext(ctx).Where("id = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(rec.Payload), true, nil
}

func (s *GormStore) Write(ctx context.Context, key string, value []byte) error {
	rec := models.Record{Key: key, Payload: string(value)}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (s *GormStore) Remove(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where("id = ?", key).Delete(&models.Record{}).Error
}
