package config

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level"`      // debug, info, warn, error
	DebugMode  bool            `yaml:"debug_mode"` // Master toggle - false = no logging
	Categories map[string]bool `yaml:"categories"` // Per-category toggles
}

func defaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:     "info",
		DebugMode: false,
	}
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Returns false when debug_mode is off. Unlisted categories default to on.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if !c.DebugMode {
		return false
	}
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}
