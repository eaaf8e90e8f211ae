// internal/workers/matching/calculate-compatibility/config.go
package calculatecompatibility

import (
	"time"

	"roommate-finder/internal/common/validation"
)

type Config struct {
	Timeout time.Duration
	Schemas *validation.Validator
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
