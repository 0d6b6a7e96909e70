// internal/workers/counseling/calculate-financials/config.go
package calculatefinancials

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
