package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// snapshotRow is the gorm model backing the local snapshot file, the direct
// analogue of browser local storage.
type snapshotRow struct {
	Session   string `gorm:"primaryKey;size:128"`
	Name      string `gorm:"primaryKey;size:64"`
	Data      []byte
	UpdatedAt time.Time
}

func (snapshotRow) TableName() string { return "snapshots" }

// SQLiteStore persists snapshots in a local SQLite file.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore opens (or creates) the snapshot database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite snapshot path is required")
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open snapshot db: %w", err)
	}
	if err := db.AutoMigrate(&snapshotRow{}); err != nil {
		return nil, fmt.Errorf("migrate snapshot db: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Save(ctx context.Context, session, name string, data []byte) error {
	row := snapshotRow{Session: session, Name: name, Data: data, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(&row).Error
}

func (s *SQLiteStore) Load(ctx context.Context, session, name string) ([]byte, error) {
	var row snapshotRow
	err := s.db.WithContext(ctx).
		Where("session = ? AND name = ?", session, name).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return row.Data, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, session, name string) error {
	return s.db.WithContext(ctx).
		Where("session = ? AND name = ?", session, name).
		Delete(&snapshotRow{}).Error
}
