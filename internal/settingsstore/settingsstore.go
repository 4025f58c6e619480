// Package settingsstore resolves user-tunable settings with the priority
// database > environment > default, so values set through the HTTP API
// survive restarts while env vars still work for headless deployments.
package settingsstore

import (
	"os"

	"github.com/booksync/weread2yuque/internal/database"
	"github.com/booksync/weread2yuque/internal/entities"
)

const defaultSyncSchedule = "0 */6 * * *"

type SettingsStore struct {
	db *database.Database
}

func New(db *database.Database) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) resolve(key, envVar, fallback string) string {
	setting, err := s.db.GetSetting(key)
	if err == nil && setting.Value != "" {
		return setting.Value
	}
	if envValue := os.Getenv(envVar); envValue != "" {
		return envValue
	}
	return fallback
}

func (s *SettingsStore) GetYuqueToken() string {
	return s.resolve(entities.SettingKeyYuqueToken, "YUQUE_TOKEN", "")
}

func (s *SettingsStore) SetYuqueToken(token string) error {
	return s.db.SetSetting(entities.SettingKeyYuqueToken, token)
}

func (s *SettingsStore) GetYuqueNamespace() string {
	return s.resolve(entities.SettingKeyYuqueNamespace, "YUQUE_NAMESPACE", "")
}

func (s *SettingsStore) SetYuqueNamespace(namespace string) error {
	return s.db.SetSetting(entities.SettingKeyYuqueNamespace, namespace)
}

func (s *SettingsStore) GetYuqueCatalog() string {
	return s.resolve(entities.SettingKeyYuqueCatalog, "YUQUE_CATALOG", "")
}

func (s *SettingsStore) SetYuqueCatalog(catalogUUID string) error {
	return s.db.SetSetting(entities.SettingKeyYuqueCatalog, catalogUUID)
}

func (s *SettingsStore) GetSyncSchedule() string {
	return s.resolve(entities.SettingKeySyncSchedule, "SYNC_SCHEDULE", defaultSyncSchedule)
}

func (s *SettingsStore) SetSyncSchedule(schedule string) error {
	return s.db.SetSetting(entities.SettingKeySyncSchedule, schedule)
}

// Settings is the JSON shape served and accepted by the settings endpoint.
type Settings struct {
	YuqueToken     string `json:"yuque_token"`
	YuqueNamespace string `json:"yuque_namespace"`
	YuqueCatalog   string `json:"yuque_catalog"`
	SyncSchedule   string `json:"sync_schedule"`
}

// GetSettings returns all resolved settings.
func (s *SettingsStore) GetSettings() Settings {
	return Settings{
		YuqueToken:     s.GetYuqueToken(),
		YuqueNamespace: s.GetYuqueNamespace(),
		YuqueCatalog:   s.GetYuqueCatalog(),
		SyncSchedule:   s.GetSyncSchedule(),
	}
}
