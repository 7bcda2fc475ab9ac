// Package settingsstore persists the reader's display preferences to local
// durable storage under a fixed namespace key.
package settingsstore

import (
	"fmt"

	"github.com/readnwin/reader/internal/database/settings"
	"github.com/readnwin/reader/internal/entities"
)

type Source string

const (
	SourceStored  Source = "stored"
	SourceDefault Source = "default"
)

// SettingsStore loads and saves entities.ReaderSettings. Priority: stored > default.
type SettingsStore struct {
	repo *settings.Repository
	key  string
}

func New(repo *settings.Repository) *SettingsStore {
	return &SettingsStore{repo: repo, key: entities.SettingKeyReaderSettings}
}

// LoadReaderSettings returns the stored settings. Fields missing from an
// older stored payload keep their default values. found is false when
// nothing has been stored yet.
func (s *SettingsStore) LoadReaderSettings() (entities.ReaderSettings, bool, error) {
	out := entities.DefaultReaderSettings()
	found, err := s.repo.GetJSON(s.key, &out)
	if err != nil {
		return entities.DefaultReaderSettings(), false, fmt.Errorf("load reader settings: %w", err)
	}
	return out, found, nil
}

func (s *SettingsStore) SaveReaderSettings(rs entities.ReaderSettings) error {
	if err := s.repo.SetJSON(s.key, rs); err != nil {
		return fmt.Errorf("save reader settings: %w", err)
	}
	return nil
}

// ClearReaderSettings forgets the stored settings so the defaults apply again.
func (s *SettingsStore) ClearReaderSettings() error {
	return s.repo.DeleteSetting(s.key)
}

type ReaderSettingsInfo struct {
	Settings entities.ReaderSettings `json:"settings"`
	Source   Source                  `json:"source"`
}

func (s *SettingsStore) GetReaderSettingsInfo() (ReaderSettingsInfo, error) {
	rs, found, err := s.LoadReaderSettings()
	if err != nil {
		return ReaderSettingsInfo{}, err
	}
	source := SourceDefault
	if found {
		source = SourceStored
	}
	return ReaderSettingsInfo{Settings: rs, Source: source}, nil
}
