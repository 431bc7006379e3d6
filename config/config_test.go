package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "/api", cfg.Server.APIPrefix)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expire)
	assert.NotEmpty(t, cfg.JWT.Secret)
	assert.Equal(t, 1, cfg.Feed.DefaultPage)
	assert.Equal(t, 10, cfg.Feed.DefaultLimit)
	assert.Equal(t, 200, cfg.Feed.MaxContentLength)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NEWSFEED_SERVER_PORT", "8081")
	t.Setenv("NEWSFEED_DATABASE_DRIVER", "sqlite")
	t.Setenv("NEWSFEED_DATABASE_DSN", "file::memory:")
	t.Setenv("NEWSFEED_JWT_EXPIRE", "2h")
	t.Setenv("NEWSFEED_REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Server.Addr())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.DSN)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expire)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFile_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
  mode: release
database:
  driver: sqlite
  dsn: newsfeed.db
jwt:
  secret: s3cret
feed:
  default_limit: 20
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 20, cfg.Feed.DefaultLimit)
	assert.Equal(t, 1, cfg.Feed.DefaultPage)
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("unknown driver", func(t *testing.T) {
		cfg := &Config{Database: DatabaseConfig{Driver: "mysql"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Mode: "prod"}, Database: DatabaseConfig{Driver: "sqlite"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("release without secret", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Mode: "release"}, Database: DatabaseConfig{Driver: "sqlite"}}
		assert.Error(t, cfg.Validate())
	})

	t.Run("debug falls back to dev secret", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Mode: "debug"}, Database: DatabaseConfig{Driver: "sqlite"}}
		require.NoError(t, cfg.Validate())
		assert.NotEmpty(t, cfg.JWT.Secret)
		assert.Equal(t, 200, cfg.Feed.MaxContentLength)
	})
}
