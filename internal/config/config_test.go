package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  path: /tmp/sharely.db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sharely", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.API.Port)
	assert.Equal(t, 10, cfg.API.DefaultPageSize)
	assert.Equal(t, 100, cfg.API.MaxPageSize)
	assert.Equal(t, 60, cfg.API.RateLimit.WindowSeconds)
	assert.Equal(t, 7, cfg.Backup.RetentionDays)
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("SHARELY_TEST_DB_PATH", "/tmp/expanded.db")
	t.Setenv("SHARELY_TEST_REDIS", "localhost:6379")

	path := writeConfig(t, `
database:
  path: ${SHARELY_TEST_DB_PATH}
redis:
  address: ${SHARELY_TEST_REDIS}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/expanded.db", cfg.Database.Path)
	assert.Equal(t, "localhost:6379", cfg.Redis.Address)
}

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"missing database path", `
api:
  port: 8080
`},
		{"bad port", `
database:
  path: /tmp/db
api:
  port: 99999
`},
		{"rate limit enabled without requests", `
database:
  path: /tmp/db
api:
  rate_limit:
    enabled: true
`},
		{"backup enabled without storage path", `
database:
  path: /tmp/db
backup:
  enabled: true
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
