package config

import "time"

// LLMConfig configures the generation collaborator client.
type LLMConfig struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"` // Go duration string; long phases need minutes
}

func defaultLLMConfig() LLMConfig {
	return LLMConfig{
		Model:   "gemini-2.5-flash",
		Timeout: "4m",
	}
}

// TimeoutDuration parses the timeout, falling back to four minutes on a bad
// value. Generation phases legitimately run that long.
func (c LLMConfig) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 4 * time.Minute
	}
	return d
}
