package config

// StorageConfig configures the SQLite-backed session store.
type StorageConfig struct {
	StateDir     string `yaml:"state_dir"`     // Defaults to ~/.strategos
	DatabaseFile string `yaml:"database_file"` // Relative to StateDir unless absolute
}

func defaultStorageConfig() StorageConfig {
	return StorageConfig{
		DatabaseFile: "sessions.db",
	}
}
