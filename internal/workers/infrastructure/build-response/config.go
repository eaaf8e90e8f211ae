// internal/workers/infrastructure/build-response/config.go
package buildresponse

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
		Timeout: 5 * time.Second,
	}
}
