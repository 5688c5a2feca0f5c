package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "GEMINI_MODEL_ID", "BEDROCK_MODEL_ID",
		"LLM_TIMEOUT", "LLM_TEMPERATURE", "CLINIC_DATASET", "MENU_DATASET",
		"MENU_VALIDATION_ENABLED", "REDIS_ADDR", "CORS_ALLOWED_ORIGINS",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "TRANSCRIPT_MAX_ENTRIES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModelID)
	assert.Empty(t, cfg.BedrockModelID)
	assert.Equal(t, 10*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 0.2, cfg.LLMTemperature, 0.0001)
	assert.True(t, cfg.MenuValidationEnabled)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, 500, cfg.TranscriptMaxEntries)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5.0, cfg.RateLimitRPS)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.False(t, cfg.NeedsAWS())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LLM_TIMEOUT", "3s")
	t.Setenv("LLM_TEMPERATURE", "0.7")
	t.Setenv("CLINIC_DATASET", "s3://datasets/doctors.json")
	t.Setenv("MENU_VALIDATION_ENABLED", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("RATE_LIMIT_RPS", "0")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 3*time.Second, cfg.LLMTimeout)
	assert.InDelta(t, 0.7, cfg.LLMTemperature, 0.0001)
	assert.False(t, cfg.MenuValidationEnabled)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 0.0, cfg.RateLimitRPS)
	assert.True(t, cfg.UsesS3())
	assert.True(t, cfg.NeedsAWS())
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	assert.Equal(t, 10*time.Second, Load().LLMTimeout)

	t.Setenv("LLM_TIMEOUT", "-1s")
	assert.Equal(t, 10*time.Second, Load().LLMTimeout)
}

func TestBedrockRequiresAWS(t *testing.T) {
	cfg := &Config{BedrockModelID: "anthropic.claude-3-haiku"}
	assert.True(t, cfg.NeedsAWS())
	assert.False(t, cfg.UsesS3())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("CHATLOOKUP_DOTENV_PROBE=from-file\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CHATLOOKUP_DOTENV_PROBE") })

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("CHATLOOKUP_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))
}
