package config

const (
	// DefaultDatabasePath is the default path for the reading API database
	DefaultDatabasePath = "./readnwin.db"

	// DefaultReaderSettingsPath is the default path for locally persisted reader settings
	DefaultReaderSettingsPath = "./reader-settings.db"

	// DefaultUserID identifies the reader when no user cookie is present
	DefaultUserID = "1"
)
