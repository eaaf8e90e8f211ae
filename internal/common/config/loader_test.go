package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  name: roommate-finder
database:
  postgres:
    host: localhost
    database: roommates
    user: app
    password: ${TEST_PG_PASSWORD}
  redis:
    address: localhost:6379
matching:
  parallelism: 4
workers:
  rank-matches:
    enabled: true
    timeout: 5000
  send-notification:
    enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	cfg, err := LoadFromFile(writeConfig(t, testYAML))
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.Equal(t, 4, cfg.Matching.Parallelism)
	assert.Equal(t, 300000, cfg.Matching.ProfileCacheTTL)
	assert.Equal(t, ":5000", cfg.Server.Address)
	assert.Equal(t, "listings", cfg.Database.Elasticsearch.ListingIndex)

	rank := GetWorkerConfig(cfg, "rank-matches")
	assert.True(t, rank.Enabled)
	assert.Equal(t, 5000, rank.Timeout)
	assert.Equal(t, 5, rank.MaxJobsActive)
	assert.Equal(t, 3, rank.MaxRetries)
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("DATABASE_POSTGRES_HOST", "db.internal")

	cfg, err := LoadFromFile(writeConfig(t, testYAML))
	require.NoError(t, err)
	assert.Equal(t, "db.internal", cfg.Database.Postgres.Host)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		err  error
	}{
		{
			name: "missing postgres",
			body: "database:\n  redis:\n    address: localhost:6379\n",
			err:  ErrMissingPostgres,
		},
		{
			name: "missing redis",
			body: "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n",
			err:  ErrMissingRedis,
		},
		{
			name: "negative parallelism",
			body: "database:\n  postgres:\n    host: h\n    database: d\n    user: u\n  redis:\n    address: r:6379\nmatching:\n  parallelism: -1\n",
			err:  ErrInvalidMatching,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestWorkerHelpers(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"send-notification": {Enabled: false},
	}}

	assert.False(t, IsWorkerEnabled(cfg, "send-notification"))
	assert.True(t, IsWorkerEnabled(cfg, "rank-matches"))
	assert.Equal(t, 30000, GetWorkerConfig(cfg, "rank-matches").Timeout)
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresDSN(t *testing.T) {
	dsn := PostgresConfig{Host: "h", Port: 5432, User: "u", Password: "p", Database: "d", SSLMode: "disable"}.GetDSN()
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", dsn)
}
