package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
}

// AppConfig contains general application settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// QueueLimit caps how many items a single review session pulls.
	QueueLimit int `mapstructure:"queue_limit" validate:"required,gt=0,lte=500"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Path is the SQLite database file, or ":memory:" for an ephemeral one.
	Path string `mapstructure:"path" validate:"required"`
}

// SRSConfig contains optional scheduling overrides. Zero values keep the
// engine defaults.
type SRSConfig struct {
	WordWrongPenalty  int `mapstructure:"word_wrong_penalty" validate:"gte=0,lte=9"`
	ClozeWrongPenalty int `mapstructure:"cloze_wrong_penalty" validate:"gte=0,lte=8"`
}
