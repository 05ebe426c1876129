package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "HOST", "LOG_LEVEL", "DB_PATH", "GEMINI_API_KEY", "SESSION_SECRET", "COOKIE_NAME", "DAILY_SALT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:5175", cfg.Addr())
	assert.Equal(t, "manasvi_session", cfg.CookieName)
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	assert.Equal(t, 14, cfg.SessionDays)
	assert.True(t, cfg.UsingDevSecret())
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9000\nCOOKIE_NAME=tab\n"), 0o600))
	os.Unsetenv("PORT")
	os.Unsetenv("COOKIE_NAME")
	t.Cleanup(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("COOKIE_NAME")
	})

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "tab", cfg.CookieName)
}

func TestLoadEnvironmentWins(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9000\n"), 0o600))
	t.Setenv("PORT", "7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
}

func TestLevel(t *testing.T) {
	cfg := &Config{LogLevel: "debug"}
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())
	cfg.LogLevel = "loud"
	assert.Equal(t, zerolog.InfoLevel, cfg.Level())
}

func TestLoadRejectsBadInt(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SESSION_EXPIRES_DAYS", "soon")
	_, err := Load()
	assert.Error(t, err)
}
