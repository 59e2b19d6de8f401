package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Artexxx/HR-Employees-CSV/library/yamlreader"
)

func load(t *testing.T, body string) (*Config, error) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "application.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return yamlreader.NewConfig[Config](path)
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := load(t, "storage:\n  path: data.csv\n")
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.UserAPI.Port.Value)
	assert.Equal(t, DriverCSV, cfg.Storage.Driver.Value)
	assert.Equal(t, "atomic", cfg.Storage.WriteMode.Value)
	assert.Equal(t, "serialize", cfg.Storage.Concurrency.Value)
	assert.Equal(t, "info", cfg.Log.Level.Value)
	assert.False(t, cfg.Kafka.Enabled.Value)
}

func TestConfig_LocalFile(t *testing.T) {
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("DATA_PATH", "/tmp/employees.csv")

	cfg, err := yamlreader.NewConfig[Config]("../../config/application-local.yaml")
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.UserAPI.Port.Value)
	assert.Equal(t, "/tmp/employees.csv", cfg.Storage.Path.Value)
}

func TestConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"csv without path", "storage:\n  driver: csv\n", "storage.path"},
		{"postgres without conn", "storage:\n  driver: postgres\n", "postgres.conn"},
		{"unknown driver", "storage:\n  driver: sqlite\n", "unknown storage.driver"},
		{"kafka without topic", "storage:\n  path: a.csv\nkafka:\n  enabled: true\n  bootstrap: localhost:9092\n", "kafka.topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(t, tt.body)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
