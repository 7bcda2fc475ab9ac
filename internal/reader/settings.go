package reader

import (
	"github.com/readnwin/reader/internal/entities"
	"github.com/readnwin/reader/internal/logger"
)

// Settings returns the current reader settings.
func (s *Store) Settings() entities.ReaderSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Settings
}

// UpdateSettings merges the non-nil fields of u into the settings and
// persists the result.
func (s *Store) UpdateSettings(u entities.SettingsUpdate) (entities.ReaderSettings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	s.mu.Lock()
	s.state.Settings = u.Apply(s.state.Settings)
	settings := s.state.Settings
	s.mu.Unlock()
	return settings, s.persistSettings(settings)
}

// ResetSettings restores the default settings and persists them.
func (s *Store) ResetSettings() (entities.ReaderSettings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	s.mu.Lock()
	s.state.Settings = entities.DefaultReaderSettings()
	settings := s.state.Settings
	s.mu.Unlock()
	return settings, s.persistSettings(settings)
}

func (s *Store) persistSettings(settings entities.ReaderSettings) error {
	if s.persister == nil {
		return nil
	}
	if err := s.persister.SaveReaderSettings(settings); err != nil {
		s.log.Warn("failed to persist reader settings", logger.Error(err))
		return err
	}
	return nil
}
