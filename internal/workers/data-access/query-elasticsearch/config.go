// internal/workers/data-access/query-elasticsearch/config.go
package queryelasticsearch

import (
	"time"

	"roommate-finder/internal/common/validation"
)

const DefaultIndex = "listings"

type Config struct {
	Timeout time.Duration
	// Index is used when a job does not name one.
	Index   string
	Schemas *validation.Validator
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
		Index:   DefaultIndex,
	}
}
