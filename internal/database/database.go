// Package database persists the sync state: the per-book dedup cache,
// sync run records for progress reporting, and user settings.
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/booksync/weread2yuque/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.SyncedBook{},
		&entities.SyncRun{},
		&entities.Setting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// IsBookSynced reports whether the dedup cache holds an entry with exactly
// this book id and last-read time, meaning the book is unchanged since the
// last delivered sync.
func (d *Database) IsBookSynced(bookID, lastReadTime string) (bool, error) {
	var count int64
	err := d.DB.Model(&entities.SyncedBook{}).
		Where("book_id = ? AND last_read_time = ?", bookID, lastReadTime).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkBookSynced records a successful delivery for a book, replacing any
// previous cache entry.
func (d *Database) MarkBookSynced(bookID, lastReadTime string) error {
	var existing entities.SyncedBook
	result := d.DB.Where("book_id = ?", bookID).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		return d.DB.Create(&entities.SyncedBook{
			BookID:       bookID,
			LastReadTime: lastReadTime,
		}).Error
	}
	if result.Error != nil {
		return result.Error
	}

	existing.LastReadTime = lastReadTime
	return d.DB.Save(&existing).Error
}

// ListSyncedBooks returns the full dedup cache.
func (d *Database) ListSyncedBooks() ([]entities.SyncedBook, error) {
	var books []entities.SyncedBook
	err := d.DB.Find(&books).Error
	return books, err
}

// StartSyncRun records the beginning of a sync batch.
func (d *Database) StartSyncRun(total int) (*entities.SyncRun, error) {
	run := &entities.SyncRun{
		Status:    entities.SyncStatusRunning,
		Total:     total,
		StartedAt: time.Now(),
	}
	if err := d.DB.Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// UpdateSyncRun updates the progress counters of an ongoing run.
func (d *Database) UpdateSyncRun(runID uint, processed, succeeded, failed, skipped int, currentBook string) error {
	return d.DB.Model(&entities.SyncRun{}).
		Where("id = ?", runID).
		Updates(map[string]any{
			"processed":    processed,
			"succeeded":    succeeded,
			"failed":       failed,
			"skipped":      skipped,
			"current_book": currentBook,
		}).Error
}

// CompleteSyncRun marks a run finished with the given status and optional
// error summary.
func (d *Database) CompleteSyncRun(runID uint, status entities.SyncStatus, errorMsg string) error {
	now := time.Now()
	updates := map[string]any{
		"status":       status,
		"current_book": "",
		"completed_at": now,
	}
	if errorMsg != "" {
		updates["error"] = errorMsg
	}
	return d.DB.Model(&entities.SyncRun{}).
		Where("id = ?", runID).
		Updates(updates).Error
}

// LatestSyncRun returns the most recent run, or nil when none exists.
func (d *Database) LatestSyncRun() (*entities.SyncRun, error) {
	var run entities.SyncRun
	err := d.DB.Order("id DESC").First(&run).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetSetting retrieves a persisted setting by key.
func (d *Database) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := d.DB.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or updates a persisted setting.
func (d *Database) SetSetting(key, value string) error {
	var existing entities.Setting
	result := d.DB.Where("key = ?", key).First(&existing)
	if result.Error == gorm.ErrRecordNotFound {
		return d.DB.Create(&entities.Setting{Key: key, Value: value}).Error
	}
	if result.Error != nil {
		return result.Error
	}

	existing.Value = value
	return d.DB.Save(&existing).Error
}

// DeleteSetting removes a persisted setting.
func (d *Database) DeleteSetting(key string) error {
	return d.DB.Where("key = ?", key).Delete(&entities.Setting{}).Error
}
