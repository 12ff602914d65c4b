package config

import "time"

// PollingConfig bounds the orchestration completion poll. The collaborator
// exposes no push mechanism for the orchestration phase; completion is
// observed only by re-fetching the persisted session at this cadence.
type PollingConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxAttempts     int `yaml:"max_attempts"`
}

func defaultPollingConfig() PollingConfig {
	// 120 attempts at 2s is roughly the collaborator's worst observed
	// orchestration latency (~4 minutes).
	return PollingConfig{
		IntervalSeconds: 2,
		MaxAttempts:     120,
	}
}

// Interval returns the poll interval as a duration.
func (c PollingConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
