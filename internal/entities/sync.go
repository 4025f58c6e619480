package entities

import "time"

type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "running"
	SyncStatusCompleted SyncStatus = "completed"
	SyncStatusPartial   SyncStatus = "partial"
	SyncStatusFailed    SyncStatus = "failed"
)

// SyncedBook is the dedup cache: one row per book recording the last read
// time that was successfully delivered to Yuque. A book is skipped on the
// next run iff an entry with the same BookID and LastReadTime exists.
type SyncedBook struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	BookID       string    `gorm:"uniqueIndex;size:64" json:"book_id"`
	LastReadTime string    `gorm:"size:32" json:"last_read_time"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (SyncedBook) TableName() string {
	return "synced_books"
}

// SyncRun records one sync batch for progress reporting and the summary
// shown by the status endpoint.
type SyncRun struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Status      SyncStatus `gorm:"size:20" json:"status"`
	Total       int        `json:"total"`
	Processed   int        `json:"processed"`
	Succeeded   int        `json:"succeeded"`
	Failed      int        `json:"failed"`
	Skipped     int        `json:"skipped"`
	CurrentBook string     `gorm:"size:512" json:"current_book,omitempty"`
	Error       string     `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

// Setting is a persisted key/value user setting (Yuque token, namespace,
// catalog, schedule). The settings store resolves database > environment.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "settings"
}

// Setting keys.
const (
	SettingKeyYuqueToken     = "yuque_token"
	SettingKeyYuqueNamespace = "yuque_namespace"
	SettingKeyYuqueCatalog   = "yuque_catalog"
	SettingKeySyncSchedule   = "sync_schedule"
)
