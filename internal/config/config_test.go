package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// Setting environment variables.
func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for key, value := range vars {
		err := os.Setenv(key, value)
		require.NoError(t, err, "failed to set env var %s", key)

		// Ensure that the env vars are cleared after the test
		t.Cleanup(func() {
			os.Unsetenv(key)
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.NotNil(t, actual)

	require.Equal(t, "production", actual.Environment)
	require.Equal(t, "info", actual.Verbose)
	require.Equal(t, "sqlite3", actual.Database.Driver)
	require.Equal(t, ":memory:", actual.Database.Connection)
	require.Equal(t, time.Hour, actual.Ban.CacheTTL)
	require.Equal(t, time.Hour, actual.Ban.TidyInterval)
	require.Equal(t, 8080, actual.API.Port)
	require.False(t, actual.Metrics.Enabled())
}

func TestConfigBanEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"BAN_CACHE_TTL":       "30m",
		"BAN_TIDY_INTERVAL":   "5m",
		"DATABASE_DRIVER":     "postgres",
		"DATABASE_CONNECTION": "postgres://localhost:5432/bans",
	})

	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.NotNil(t, actual)

	require.Equal(t, 30*time.Minute, actual.Ban.CacheTTL)
	require.Equal(t, 5*time.Minute, actual.Ban.TidyInterval)
	require.Equal(t, "postgres", actual.Database.Driver)
	require.Equal(t, "postgres://localhost:5432/bans", actual.Database.Connection)
}

func TestConfigMetricsEnv(t *testing.T) {
	setEnvVars(t, map[string]string{
		"METRICS_URL":    "http://localhost:8086",
		"METRICS_TOKEN":  "token",
		"METRICS_ORG":    "org",
		"METRICS_BUCKET": "bans",
	})

	actual, err := MustLoadConfig()
	require.NoError(t, err)
	require.True(t, actual.Metrics.Enabled())
	require.Equal(t, "http://localhost:8086", actual.Metrics.URL)
	require.Equal(t, "token", actual.Metrics.Token)
	require.Equal(t, "org", actual.Metrics.Org)
	require.Equal(t, "bans", actual.Metrics.Bucket)
}
