package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "MONGO_URI", "JWT_SECRET", "MONGO_USE_TRANSACTIONS", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.False(t, cfg.MongoUseTransactions)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.UsesDefaultSecret())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("MONGO_USE_TRANSACTIONS", "true")
	t.Setenv("REDIS_DB", "2")

	cfg := Load(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.MongoUseTransactions)
	assert.Equal(t, 2, cfg.RedisDB)
	assert.False(t, cfg.UsesDefaultSecret())
}

func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("MONGO_DB_NAME", "")
	os.Unsetenv("MONGO_DB_NAME")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MONGO_DB_NAME=fromfile\n"), 0o600))

	cfg := Load(envFile)
	assert.Equal(t, "fromfile", cfg.MongoDBName)
}

func TestLoadBoard(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TASKBOARD_URL", "")

	t.Run("missing file gives defaults", func(t *testing.T) {
		cfg, err := LoadBoard(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080", cfg.ServerURL)
		assert.Equal(t, filepath.Join(dir, "taskboard", "token"), cfg.TokenFile)
	})

	t.Run("file values merge over defaults", func(t *testing.T) {
		path := filepath.Join(dir, "board.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server_url: http://board:9000\nemail: alice@example.com\n"), 0o600))

		cfg, err := LoadBoard(path)
		require.NoError(t, err)
		assert.Equal(t, "http://board:9000", cfg.ServerURL)
		assert.Equal(t, "alice@example.com", cfg.Email)
		assert.NotEmpty(t, cfg.TokenFile)
	})

	t.Run("environment overrides server url", func(t *testing.T) {
		t.Setenv("TASKBOARD_URL", "http://env:1234")
		cfg, err := LoadBoard(filepath.Join(dir, "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "http://env:1234", cfg.ServerURL)
	})
}

func TestBoardConfig_TokenRoundTrip(t *testing.T) {
	cfg := &BoardConfig{TokenFile: filepath.Join(t.TempDir(), "sub", "token")}

	assert.Equal(t, "", cfg.LoadToken())
	require.NoError(t, cfg.SaveToken("abc"))
	assert.Equal(t, "abc", cfg.LoadToken())
	require.NoError(t, cfg.SaveToken(""))
	assert.Equal(t, "", cfg.LoadToken())
	require.NoError(t, cfg.SaveToken(""))
}
