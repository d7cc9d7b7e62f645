package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "gemini", cfg.LLMProvider)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 60*time.Second, cfg.LLMTimeout)
	assert.Equal(t, time.Duration(0), cfg.JWTTTL)
	assert.Equal(t, "http://localhost:5173", cfg.CORSOrigin)
	assert.False(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("JWT_TTL", "24h")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "file::memory:", cfg.DatabaseURL)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.True(t, cfg.MinIOUseSSL)
	assert.True(t, cfg.ArchiveEnabled())
}

func TestLoadConfig_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "voxchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"9000\"\njwt_secret: from-file\nllm_timeout: 5s\ngemini_model: gemini-pro\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("GEMINI_MODEL", "gemini-2.0-flash")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, 5*time.Second, cfg.LLMTimeout)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=dotenv-secret\n"), 0o600))
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "dotenv-secret", cfg.JWTSecret)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWTSecret = "x"
	cfg.DBDriver = "mongo"
	cfg.LLMProvider = "palm"
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
	assert.Contains(t, err.Error(), "LLM_PROVIDER")

	cfg = Defaults()
	cfg.JWTSecret = "x"
	assert.NoError(t, cfg.Validate())
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
