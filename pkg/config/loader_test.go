package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/config"
)

type smtpTestConfig struct {
	Host    string        `env:"TEST_SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port    int           `env:"TEST_SMTP_PORT" envDefault:"587"`
	Timeout time.Duration `env:"TEST_SMTP_TIMEOUT" envDefault:"15s"`
	Sender  string        `env:"TEST_SENDER_EMAIL"`
}

type requiredTestConfig struct {
	Required string `env:"TEST_REQUIRED_VALUE,required"`
}

type prefixedTestConfig struct {
	Key string `env:"KEY" envDefault:"none"`
}

func TestLoad_Success(t *testing.T) {
	t.Setenv("TEST_SMTP_HOST", "mail.example.com")
	t.Setenv("TEST_SMTP_PORT", "465")
	t.Setenv("TEST_SMTP_TIMEOUT", "3s")
	t.Setenv("TEST_SENDER_EMAIL", "noreply@example.com")

	var cfg smtpTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "mail.example.com", cfg.Host)
	assert.Equal(t, 465, cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "noreply@example.com", cfg.Sender)
}

func TestLoad_DefaultValues(t *testing.T) {
	os.Unsetenv("TEST_SMTP_HOST")
	os.Unsetenv("TEST_SMTP_PORT")
	os.Unsetenv("TEST_SMTP_TIMEOUT")
	os.Unsetenv("TEST_SENDER_EMAIL")

	var cfg smtpTestConfig
	err := config.Load(&cfg)

	require.NoError(t, err)
	assert.Equal(t, "smtp.gmail.com", cfg.Host)
	assert.Equal(t, 587, cfg.Port)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.Empty(t, cfg.Sender, "missing optional values stay empty")
}

func TestLoad_NotCached(t *testing.T) {
	t.Setenv("TEST_SENDER_EMAIL", "first@example.com")

	var first smtpTestConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("TEST_SENDER_EMAIL", "second@example.com")

	var second smtpTestConfig
	require.NoError(t, config.Load(&second))

	assert.Equal(t, "first@example.com", first.Sender)
	assert.Equal(t, "second@example.com", second.Sender)
}

func TestLoad_MissingRequired(t *testing.T) {
	os.Unsetenv("TEST_REQUIRED_VALUE")

	var cfg requiredTestConfig
	err := config.Load(&cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *smtpTestConfig
	err := config.Load(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrNilPointer)
}

func TestMustLoad(t *testing.T) {
	os.Unsetenv("TEST_REQUIRED_VALUE")
	assert.Panics(t, func() {
		var cfg requiredTestConfig
		config.MustLoad(&cfg)
	})

	t.Setenv("TEST_REQUIRED_VALUE", "present")
	assert.NotPanics(t, func() {
		var cfg requiredTestConfig
		config.MustLoad(&cfg)
		assert.Equal(t, "present", cfg.Required)
	})
}

func TestLoadWithPrefix(t *testing.T) {
	t.Setenv("PRIMARY_KEY", "primary")
	t.Setenv("BACKUP_KEY", "backup")

	var primary, backup prefixedTestConfig
	require.NoError(t, config.LoadWithPrefix(&primary, "PRIMARY_"))
	require.NoError(t, config.LoadWithPrefix(&backup, "BACKUP_"))

	assert.Equal(t, "primary", primary.Key)
	assert.Equal(t, "backup", backup.Key)
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, ".env.first")
	second := filepath.Join(dir, ".env.second")
	require.NoError(t, os.WriteFile(first, []byte("TEST_ENVFILE_VALUE=first\nTEST_ENVFILE_ONLY_FIRST=yes\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("TEST_ENVFILE_VALUE=second\n"), 0o600))

	t.Cleanup(func() {
		os.Unsetenv("TEST_ENVFILE_VALUE")
		os.Unsetenv("TEST_ENVFILE_ONLY_FIRST")
	})

	require.NoError(t, config.LoadEnv(first, second))
	assert.Equal(t, "second", os.Getenv("TEST_ENVFILE_VALUE"), "later files override earlier ones")
	assert.Equal(t, "yes", os.Getenv("TEST_ENVFILE_ONLY_FIRST"))
}

func TestLoadEnv_NonExistentPath(t *testing.T) {
	err := config.LoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrLoadingEnvFile)

	assert.Panics(t, func() {
		config.MustLoadEnv(filepath.Join(t.TempDir(), "missing.env"))
	})
}
