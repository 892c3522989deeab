package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "gemini", cfg.AI.TextProvider)
	assert.Equal(t, "local", cfg.Storage.Type)
	assert.Equal(t, 90*time.Second, cfg.GetGenerationTimeout())
	assert.Equal(t, 24*time.Hour, cfg.GetTokenTTL())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wedplan.yaml")
	yml := `
server:
  port: "9090"
  mode: debug
database:
  driver: sqlite
  url: "file:wedplan.db"
ai:
  text_provider: openai
  generation_timeout: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("PORT", "7070")
	t.Setenv("GEMINI_API_KEY", "gem-key")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.Server.Port, "env wins over yaml")
	assert.Equal(t, "debug", cfg.Server.Mode)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "openai", cfg.AI.TextProvider)
	assert.Equal(t, "gem-key", cfg.AI.GeminiAPIKey)
	assert.Equal(t, 30*time.Second, cfg.GetGenerationTimeout())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestEnvOverrides_DatabaseURL(t *testing.T) {
	t.Run("POSTGRES_URL is honored", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://a")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres://a", cfg.Database.URL)
	})

	t.Run("DATABASE_URL wins over POSTGRES_URL", func(t *testing.T) {
		t.Setenv("POSTGRES_URL", "postgres://a")
		t.Setenv("DATABASE_URL", "postgres://b")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, "postgres://b", cfg.Database.URL)
	})

	t.Run("CORS origins are split", func(t *testing.T) {
		t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
		cfg := DefaultConfig()
		cfg.applyEnvOverrides()
		assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	})
}

func TestValidate(t *testing.T) {
	t.Run("release mode requires a jwt secret", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")
	})

	t.Run("unknown gin mode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "x"
		cfg.Server.Mode = "production"
		assert.ErrorContains(t, cfg.Validate(), "server mode")
	})

	t.Run("s3 requires a bucket", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "x"
		cfg.Storage.Type = "s3"
		assert.ErrorContains(t, cfg.Validate(), "AWS_S3_BUCKET")
	})

	t.Run("bad durations are reported", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "x"
		cfg.Reveal.PaletteDelay = "soon"
		assert.ErrorContains(t, cfg.Validate(), "reveal.palette_delay")
	})

	t.Run("unknown providers are rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "x"
		cfg.AI.TextProvider = "llama"
		cfg.Database.Driver = "mysql"
		err := cfg.Validate()
		assert.ErrorContains(t, err, "llama")
		assert.ErrorContains(t, err, "mysql")
	})

	t.Run("valid config passes", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Auth.JWTSecret = "x"
		assert.NoError(t, cfg.Validate())
	})
}
