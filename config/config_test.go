package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATA_PATH", "OUTPUT_DIR", "PORT", "REBUILD_SCHEDULE",
		"SITE_TITLE", "SITE_DESCRIPTION", "SITE_BASE_URL", "SITE_LOCALE",
		"EMAIL_SMTP_HOST", "EMAIL_SMTP_PORT", "EMAIL_SMTP_USERNAME", "EMAIL_SENDER", "EMAIL_PASSWORD", "EMAIL_RECIPIENT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "./data", cfg.DataPath)
	assert.Equal(t, "./public", cfg.OutputDir)
	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.RebuildSchedule)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
	assert.Equal(t, "api", cfg.Email.SMTPUsername)
	assert.False(t, cfg.Email.Enabled())
	assert.NotEmpty(t, cfg.Site.Title)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("SITE_BASE_URL", "https://games.example.com/")
	t.Setenv("REBUILD_SCHEDULE", "0 0 6 * * *")
	t.Setenv("EMAIL_SMTP_HOST", "smtp.example.com")
	t.Setenv("EMAIL_SMTP_PORT", "2525")
	t.Setenv("EMAIL_RECIPIENT", "editor@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://games.example.com", cfg.Site.BaseURL)
	assert.Equal(t, "0 0 6 * * *", cfg.RebuildSchedule)
	assert.Equal(t, 2525, cfg.Email.SMTPPort)
	assert.True(t, cfg.Email.Enabled())
}

func TestLoadRejectsBadPorts(t *testing.T) {
	t.Run("smtp port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("EMAIL_SMTP_PORT", "abc")
		_, err := Load()
		assert.ErrorContains(t, err, "EMAIL_SMTP_PORT")
	})

	t.Run("http port", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "eighty")
		_, err := Load()
		assert.ErrorContains(t, err, "PORT")
	})

	t.Run("http port out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("PORT", "70000")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid PORT")
	})
}

func TestValidatePort(t *testing.T) {
	assert.NoError(t, ValidatePort("8080"))
	assert.NoError(t, ValidatePort("1"))
	assert.Error(t, ValidatePort("0"))
	assert.Error(t, ValidatePort("65536"))
	assert.Error(t, ValidatePort("http"))
	assert.Error(t, ValidatePort(""))
}

func TestMaskedPassword(t *testing.T) {
	assert.Equal(t, "", EmailConfig{}.MaskedPassword())
	assert.Equal(t, "***", EmailConfig{SenderPassword: "short"}.MaskedPassword())
	assert.Equal(t, "abcd...wxyz", EmailConfig{SenderPassword: "abcdefghijklmnopqrstuvwxyz"}.MaskedPassword())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to ""
	require.NoError(t, os.Unsetenv("OUTPUT_DIR"))
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("OUTPUT_DIR=/srv/site\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/site", cfg.OutputDir)

	assert.Error(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))
}
