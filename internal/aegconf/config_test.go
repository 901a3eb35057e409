// file: internal/aegconf/config_test.go
package aegconf

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
	cfg, err := Load(writeConfig(t, "grids: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
	assert.Equal(t, DefaultLogLevel, cfg.Server.LogLevel)
	assert.Equal(t, "json", cfg.Server.LogFormat)
	assert.Zero(t, cfg.RateLimit.GlobalRPS)
}

func TestLoad_FullFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8088
  log_level: debug
rate_limit:
  ip_rps: 2.5
  ip_burst: 5
datasources:
  main:
    driver: sqlite
    dsn: "file:main.db"
grids:
  users:
    datasource: main
    table: users
    primary_key: id
    columns: [id, users.name]
    where:
      users.active: 1
  orders:
    datasource: main
    table: orders
    primary_key: id
    columns: [id]
    row_id: id
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8088, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 2.5, cfg.RateLimit.IPRPS)
	assert.Equal(t, 5, cfg.RateLimit.IPBurst)
	assert.Equal(t, "sqlite", cfg.DataSources["main"].Driver)

	users := cfg.Grids["users"]
	assert.Equal(t, "users", users.Name)
	assert.Equal(t, DefaultRowID, users.RowID)
	assert.Equal(t, []string{"id", "users.name"}, users.Columns)
	assert.Equal(t, map[string]any{"users.active": 1}, users.Where, "带点的键不应被拆分为嵌套层级")

	assert.Equal(t, "id", cfg.Grids["orders"].RowID)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GRIDAEGIS_SERVER_PORT", "9099")
	t.Setenv("GRIDAEGIS_SERVER_LOG_LEVEL", "WARN")

	cfg, err := Load(writeConfig(t, "server:\n  port: 8088\n"))
	require.NoError(t, err)
	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "WARN", cfg.Server.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"bad port", "server:\n  port: 70000\n"},
		{"bad log format", "server:\n  log_format: xml\n"},
		{"unknown driver", "datasources:\n  x:\n    driver: oracle\n    dsn: foo\n"},
		{"missing dsn", "datasources:\n  x:\n    driver: sqlite\n"},
		{"negative rate", "rate_limit:\n  ip_rps: -1\n"},
	}
	for _, tc := range testCases {
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
