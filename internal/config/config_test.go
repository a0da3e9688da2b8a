package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-novaform/internal/config"
)

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	assert.Equal(t, config.DefaultHost, cfg.Host)
	assert.Equal(t, config.DefaultPort, cfg.Port)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.StorageFile, cfg.Storage)
	assert.Equal(t, config.DefaultLocale, cfg.DefaultLocale)
	assert.Equal(t, config.DefaultReadTimeout, cfg.ReadTimeout)
	assert.False(t, cfg.LogPretty)
}

func TestLoad_Flags(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	cfg, err := config.Load([]string{
		"--port", "9090",
		"--log-level", "DEBUG",
		"--output-dir", dir,
		"--locale", "de",
		"--base-url", "https://forms.example.com/",
		"--cors-origins", "https://a.example.com,https://b.example.com",
		"--write-timeout", "1m",
	})
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.IsDebug())
	assert.Equal(t, dir, cfg.OutputDir)
	assert.Equal(t, "de", cfg.DefaultLocale)
	assert.Equal(t, "https://forms.example.com", cfg.BaseURL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, time.Minute, cfg.WriteTimeout)
	assert.DirExists(t, dir)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("NOVAFORM_PORT", "7070")
	t.Setenv("NOVAFORM_STORAGE", "s3")
	t.Setenv("NOVAFORM_S3_BUCKET", "renders")
	t.Setenv("NOVAFORM_S3_PATH_STYLE", "true")
	t.Setenv("NOVAFORM_LOG_PRETTY", "true")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, config.StorageS3, cfg.Storage)
	assert.Equal(t, "renders", cfg.S3.Bucket)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.True(t, cfg.LogPretty)
}

func TestLoad_FlagsOverrideEnvironment(t *testing.T) {
	t.Setenv("NOVAFORM_PORT", "7070")

	cfg, err := config.Load([]string{"--port", "7171", "--output-dir", t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Port)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := config.Load([]string{"--port", "0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port must be between")

	_, err = config.Load([]string{"--no-such-flag"})
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*config.Config) {}},
		{name: "port", mutate: func(c *config.Config) { c.Port = 70000 }, wantErr: "port must be between"},
		{name: "log level", mutate: func(c *config.Config) { c.LogLevel = "trace" }, wantErr: "invalid log level"},
		{name: "locale", mutate: func(c *config.Config) { c.DefaultLocale = "not a locale" }, wantErr: "invalid locale"},
		{name: "base url", mutate: func(c *config.Config) { c.BaseURL = "forms.example.com" }, wantErr: "invalid base url"},
		{name: "timeouts", mutate: func(c *config.Config) { c.ReadTimeout = 0 }, wantErr: "timeouts must be positive"},
		{name: "storage", mutate: func(c *config.Config) { c.Storage = "ftp" }, wantErr: "unknown storage backend"},
		{name: "s3 bucket", mutate: func(c *config.Config) { c.Storage = config.StorageS3 }, wantErr: "requires a bucket"},
		{name: "empty output dir", mutate: func(c *config.Config) { c.OutputDir = "" }, wantErr: "output directory cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.OutputDir = filepath.Join(t.TempDir(), "renders")
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAddressAndString(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.S3.SecretKey = "super-secret"

	assert.Equal(t, "127.0.0.1:8080", cfg.Address())
	assert.NotContains(t, cfg.String(), "super-secret")
	assert.Contains(t, cfg.String(), "127.0.0.1:8080")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("NOVAFORM_DOTENV_TEST=loaded\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("NOVAFORM_DOTENV_TEST") })

	require.NoError(t, config.LoadDotEnv(filepath.Join(dir, "missing.env"), file))
	assert.Equal(t, "loaded", os.Getenv("NOVAFORM_DOTENV_TEST"))
}
