// internal/workers/listing/parse-search-filters/config.go
package parsesearchfilters

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
