// internal/workers/counseling/analyze-scholarships/config.go
package analyzescholarships

import "time"

type Config struct {
	// Sections at or below this length are discarded as noise.
	MinSectionLength int
	Timeout          time.Duration
}

func LoadConfig() *Config {
	return &Config{
		MinSectionLength: 100,
		Timeout:          30 * time.Second,
	}
}
