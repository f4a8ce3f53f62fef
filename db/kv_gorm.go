package db

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVEntry is one row of the kv_entries table
type KVEntry struct {
	Key       string    `gorm:"column:entry_key;primaryKey;size:255"`
	Value     string    `gorm:"column:entry_value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}

// GormStore keeps the key-value map in a SQL table
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (g *GormStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry KVEntry
	err := g.DB.WithContext(ctx).Where("entry_key = ?", key).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "get %q", key)
	}
	return entry.Value, true, nil
}

func (g *GormStore) Set(ctx context.Context, key, value string) error {
	entry := KVEntry{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	err := g.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"entry_value", "updated_at"}),
	}).Create(&entry).Error
	return errors.Wrapf(err, "set %q", key)
}

func (g *GormStore) Delete(ctx context.Context, key string) error {
	err := g.DB.WithContext(ctx).Where("entry_key = ?", key).Delete(&KVEntry{}).Error
	return errors.Wrapf(err, "delete %q", key)
}

func (g *GormStore) Clear(ctx context.Context) error {
	err := g.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&KVEntry{}).Error
	return errors.Wrap(err, "clear")
}

func (g *GormStore) Close() error {
	sqlDB, err := g.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
