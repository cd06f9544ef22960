package store

import (
	"context"
	"errors"
	"fmt"
	golog "log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vidshare-site/videos"
)

// SQLiteStore implements RecordStore on a local sqlite database, for
// development without a DynamoDB table.
type SQLiteStore struct {
	db *gorm.DB
}

var _ RecordStore = (*SQLiteStore)(nil)

// column names for allow-listed fields, gorm naming convention
var sqliteColumns = map[string]string{
	"title":        "title",
	"description":  "description",
	"uploader":     "uploader",
	"tags":         "tags",
	"status":       "status",
	"views":        "views",
	"fileSize":     "file_size",
	"duration":     "duration",
	"errorMessage": "error_message",
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	gormLogger := logger.New(
		golog.New(os.Stdout, "\r\n", golog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	// single connection so sqlite never sees concurrent writes
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&videos.Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, rec *videos.Record) error {
	if err := s.db.WithContext(ctx).Save(rec).Error; err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (*videos.Record, error) {
	var rec videos.Record
	err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load record: %w", err)
	}
	return &rec, nil
}

func (s *SQLiteStore) UpdateFields(ctx context.Context, id string, fields map[string]any) (*videos.Record, error) {
	// coerce values through a scratch record so the write uses the
	// same types applyFields validates, without reading the row first
	var merged videos.Record
	if err := applyFields(&merged, fields); err != nil {
		return nil, err
	}

	updates := map[string]any{"updated_at": videos.Now()}
	for name := range fields {
		col, ok := sqliteColumns[name]
		if !ok {
			return nil, fmt.Errorf("field %q is not updatable", name)
		}
		updates[col] = columnValue(&merged, name)
	}

	result := s.db.WithContext(ctx).Model(&videos.Record{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&videos.Record{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListAll(ctx context.Context) ([]videos.Record, error) {
	var records []videos.Record
	if err := s.db.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	return records, nil
}

// columnValue returns the coerced value from the merged record, so the
// database write uses the same types applyFields validated.
func columnValue(rec *videos.Record, name string) any {
	switch name {
	case "title":
		return rec.Title
	case "description":
		return rec.Description
	case "uploader":
		return rec.Uploader
	case "tags":
		return rec.Tags
	case "status":
		return rec.Status
	case "views":
		return rec.Views
	case "fileSize":
		return rec.FileSize
	case "duration":
		return rec.Duration
	case "errorMessage":
		return rec.ErrorMessage
	}
	return nil
}
