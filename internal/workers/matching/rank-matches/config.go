// internal/workers/matching/rank-matches/config.go
package rankmatches

import (
	"time"

	"roommate-finder/internal/common/validation"
)

type Config struct {
	// MaxItems caps the ranked output; zero keeps every candidate.
	MaxItems    int
	Parallelism int
	Timeout     time.Duration
	Schemas     *validation.Validator
}

func LoadConfig() *Config {
	return &Config{
		Parallelism: 4,
		Timeout:     30 * time.Second,
	}
}
