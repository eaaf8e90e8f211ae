// internal/workers/data-access/query-postgresql/config.go
package querypostgresql

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
		Timeout: 30 * time.Second,
	}
}
