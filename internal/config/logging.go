package config

// LoggingConfig controls how internal/logging.Init is wired up at
// process start. Adapted from the teacher's LoggingConfig, trimmed of
// the Categories allow-list (retenet's category set is fixed, see
// internal/logging) down to level/format/file.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`

	// Format is either "console" (human-readable, for a terminal) or
	// "json" (for log aggregation).
	Format string `yaml:"format"`

	// File, if non-empty, is a path logs are additionally written to.
	// Empty means stderr only.
	File string `yaml:"file"`
}
