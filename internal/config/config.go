package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

const (
	// Storage backends
	StorageFile = "file"
	StorageS3   = "s3"

	// Default values
	DefaultHost          = "127.0.0.1"
	DefaultPort          = 8080
	DefaultLogLevel      = "info"
	DefaultOutputDir     = "renders"
	DefaultLocale        = "en"
	DefaultReadTimeout   = 10 * time.Second
	DefaultWriteTimeout  = 30 * time.Second
	DefaultShutdownGrace = 10 * time.Second

	// EnvPrefix is prepended to every environment variable.
	EnvPrefix = "NOVAFORM"

	// Directory permissions
	DefaultDirPerm = 0o750
)

// Config holds all configuration for the novaform server.
type Config struct {
	// Server configuration
	Host          string
	Port          int
	BaseURL       string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	ShutdownGrace time.Duration
	CORSOrigins   []string

	// Logging
	LogLevel  string
	LogPretty bool

	// Rendering
	DefaultLocale string

	// Storage
	Storage   string
	OutputDir string
	S3        S3Config
}

// S3Config configures the s3 storage backend.
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	Prefix       string
	UsePathStyle bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		ReadTimeout:   DefaultReadTimeout,
		WriteTimeout:  DefaultWriteTimeout,
		ShutdownGrace: DefaultShutdownGrace,
		LogLevel:      DefaultLogLevel,
		DefaultLocale: DefaultLocale,
		Storage:       StorageFile,
		OutputDir:     DefaultOutputDir,
	}
}

// LoadDotEnv loads variables from the given files, defaulting to ".env".
// Missing files are ignored and existing variables are never overwritten.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load resolves the configuration from defaults, NOVAFORM_* environment
// variables and the command line args (without the program name), in
// increasing precedence.
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	flags := pflag.NewFlagSet("novaform-server", pflag.ContinueOnError)

	setupViperEnvironment(v, cfg)
	defineCommandLineFlags(flags, cfg)
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	populateConfigFromViper(v, cfg)

	if cfg.Storage == StorageFile && cfg.OutputDir != "" {
		if abs, err := filepath.Abs(cfg.OutputDir); err == nil {
			cfg.OutputDir = abs
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupViperEnvironment(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", cfg.Host)
	v.SetDefault("port", cfg.Port)
	v.SetDefault("base-url", cfg.BaseURL)
	v.SetDefault("read-timeout", cfg.ReadTimeout)
	v.SetDefault("write-timeout", cfg.WriteTimeout)
	v.SetDefault("shutdown-grace", cfg.ShutdownGrace)
	v.SetDefault("cors-origins", cfg.CORSOrigins)
	v.SetDefault("log-level", cfg.LogLevel)
	v.SetDefault("log-pretty", cfg.LogPretty)
	v.SetDefault("locale", cfg.DefaultLocale)
	v.SetDefault("storage", cfg.Storage)
	v.SetDefault("output-dir", cfg.OutputDir)
}

func defineCommandLineFlags(flags *pflag.FlagSet, cfg *Config) {
	flags.String("host", cfg.Host, "Server host address")
	flags.Int("port", cfg.Port, "Server port")
	flags.String("base-url", cfg.BaseURL, "Public base URL injected into pages")
	flags.Duration("read-timeout", cfg.ReadTimeout, "HTTP read timeout")
	flags.Duration("write-timeout", cfg.WriteTimeout, "HTTP write timeout")
	flags.Duration("shutdown-grace", cfg.ShutdownGrace, "Time allowed for in-flight requests on shutdown")
	flags.StringSlice("cors-origins", cfg.CORSOrigins, "Allowed CORS origins")
	flags.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.Bool("log-pretty", cfg.LogPretty, "Human readable console logs")
	flags.String("locale", cfg.DefaultLocale, "Default locale")
	flags.String("storage", cfg.Storage, "Storage backend (file, s3)")
	flags.String("output-dir", cfg.OutputDir, "Directory for rendered PDFs (file storage)")
	flags.String("s3-bucket", "", "S3 bucket (s3 storage)")
	flags.String("s3-region", "", "S3 region")
	flags.String("s3-endpoint", "", "S3 compatible endpoint URL")
	flags.String("s3-access-key", "", "S3 access key")
	flags.String("s3-secret-key", "", "S3 secret key")
	flags.String("s3-prefix", "", "Key prefix for stored documents")
	flags.Bool("s3-path-style", false, "Use path style S3 addressing")
}

func populateConfigFromViper(v *viper.Viper, cfg *Config) {
	cfg.Host = v.GetString("host")
	cfg.Port = v.GetInt("port")
	cfg.BaseURL = strings.TrimRight(v.GetString("base-url"), "/")
	cfg.ReadTimeout = v.GetDuration("read-timeout")
	cfg.WriteTimeout = v.GetDuration("write-timeout")
	cfg.ShutdownGrace = v.GetDuration("shutdown-grace")
	cfg.CORSOrigins = splitList(v.GetStringSlice("cors-origins"))
	cfg.LogLevel = strings.ToLower(v.GetString("log-level"))
	cfg.LogPretty = v.GetBool("log-pretty")
	cfg.DefaultLocale = v.GetString("locale")
	cfg.Storage = strings.ToLower(v.GetString("storage"))
	cfg.OutputDir = v.GetString("output-dir")
	cfg.S3 = S3Config{
		Bucket:       v.GetString("s3-bucket"),
		Region:       v.GetString("s3-region"),
		Endpoint:     v.GetString("s3-endpoint"),
		AccessKey:    v.GetString("s3-access-key"),
		SecretKey:    v.GetString("s3-secret-key"),
		Prefix:       v.GetString("s3-prefix"),
		UsePathStyle: v.GetBool("s3-path-style"),
	}
}

// splitList accepts both repeated flags and a single comma separated
// environment value.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if _, err := language.Parse(c.DefaultLocale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.DefaultLocale, err)
	}

	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid base url %q", c.BaseURL)
		}
	}

	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 {
		return errors.New("timeouts must be positive")
	}

	switch c.Storage {
	case StorageFile:
		if c.OutputDir == "" {
			return errors.New("output directory cannot be empty")
		}
		if _, err := os.Stat(c.OutputDir); os.IsNotExist(err) {
			if err := os.MkdirAll(c.OutputDir, DefaultDirPerm); err != nil {
				return fmt.Errorf("cannot create output directory %s: %w", c.OutputDir, err)
			}
		} else if err != nil {
			return fmt.Errorf("cannot access output directory %s: %w", c.OutputDir, err)
		}
	case StorageS3:
		if c.S3.Bucket == "" {
			return errors.New("s3 storage requires a bucket")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (must be one of: file, s3)", c.Storage)
	}
	return nil
}

// Address returns the server address as host:port.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a representation of the configuration without secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Address: %s, BaseURL: %s, Storage: %s, OutputDir: %s, Bucket: %s, LogLevel: %s, Locale: %s}",
		c.Address(), c.BaseURL, c.Storage, c.OutputDir, c.S3.Bucket, c.LogLevel, c.DefaultLocale)
}
