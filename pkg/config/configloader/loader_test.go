package configloader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Server struct {
		Port    int           `koanf:"port"`
		Timeout time.Duration `koanf:"timeout"`
	} `koanf:"server"`
	Database struct {
		URL string `koanf:"url"`
	} `koanf:"database"`
	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

func (c *testConfig) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("port is required")
	}
	return nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFrom_Priority(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "config.yaml", `
server:
  port: 8080
  timeout: 5s
database:
  url: postgres://yaml@localhost/db
log:
  level: info
`)
	envPath := writeFile(t, dir, ".env", "TESTSVC_DATABASE_URL=postgres://dotenv@localhost/db\nOTHER_KEY=ignored\n")
	t.Setenv("TESTSVC_LOG_LEVEL", "debug")

	// when
	cfg, err := LoadFrom[*testConfig]("testsvc", Sources{ConfigFile: yamlPath, EnvFile: envPath})

	// then
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "postgres://dotenv@localhost/db", cfg.Database.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFrom_MissingFilesUseEnvOnly(t *testing.T) {
	// given
	dir := t.TempDir()
	t.Setenv("TESTSVC_SERVER_PORT", "9000")

	// when
	cfg, err := LoadFrom[*testConfig]("testsvc", Sources{
		ConfigFile: filepath.Join(dir, "absent.yaml"),
		EnvFile:    filepath.Join(dir, "absent.env"),
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.Server.Port)
}

func TestLoadFrom_ValidationError(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadFrom[*testConfig]("testsvc", Sources{ConfigFile: filepath.Join(dir, "absent.yaml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestLoad_ConfigFileOverride(t *testing.T) {
	// given
	dir := t.TempDir()
	yamlPath := writeFile(t, dir, "custom.yaml", "server:\n  port: 7070\n")
	t.Setenv("TESTSVC_CONFIG_FILE", yamlPath)

	// when
	cfg, err := Load[*testConfig]("testsvc")

	// then
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestKeyTransformer(t *testing.T) {
	transform := keyTransformer("PRODUCT_")
	assert.Equal(t, "server.port", transform("PRODUCT_SERVER_PORT"))
	assert.Equal(t, "database.url", transform("product_database_url"))
}
