package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/postsync/internal/foundation/errors"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "postsync.yaml"

// Config represents the application configuration.
type Config struct {
	SourceDir string        `yaml:"source_dir"`
	DestDir   string        `yaml:"dest_dir"`
	Store     StoreConfig   `yaml:"store"`
	Journal   JournalConfig `yaml:"journal"`
	Sync      SyncConfig    `yaml:"sync"`
	Logging   LoggingConfig `yaml:"logging"`
	Metrics   MetricsConfig `yaml:"metrics"`
	Notify    NotifyConfig  `yaml:"notify"`
	Git       GitConfig     `yaml:"git"`
	Watch     WatchConfig   `yaml:"watch"`
}

// StoreConfig selects the published record store.
type StoreConfig struct {
	Driver StoreDriver `yaml:"driver"`
	// DSN is a file path for sqlite and a connection URL for postgres.
	DSN string `yaml:"dsn"`
}

// JournalConfig controls the sync history database.
type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SyncConfig tunes a sync run.
type SyncConfig struct {
	ContinueOnError bool   `yaml:"continue_on_error"`
	DefaultStatus   string `yaml:"default_status"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
	// File, when set, receives logs through a rotating writer instead of stderr.
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// MetricsConfig enables Prometheus export.
type MetricsConfig struct {
	// Textfile is written after each batch sync for the node-exporter textfile collector.
	Textfile string `yaml:"textfile,omitempty"`
	// Listen is the address of the /metrics endpoint in watch mode.
	Listen string `yaml:"listen,omitempty"`
}

// NotifyConfig enables NATS events for synced posts.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// GitConfig enables committing the destination after a run.
type GitConfig struct {
	Commit      bool   `yaml:"commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
	Message     string `yaml:"message"`
}

// WatchConfig tunes watch mode.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Debounce time.Duration `yaml:"debounce"`
}

// MarshalYAML writes durations as strings such as "5m" instead of nanoseconds.
func (w WatchConfig) MarshalYAML() (any, error) {
	return struct {
		Interval string `yaml:"interval"`
		Debounce string `yaml:"debounce"`
	}{formatDuration(w.Interval), formatDuration(w.Debounce)}, nil
}

func formatDuration(d time.Duration) string {
	s := d.String()
	if strings.HasSuffix(s, "m0s") {
		s = strings.TrimSuffix(s, "0s")
	}
	if strings.HasSuffix(s, "h0m") {
		s = strings.TrimSuffix(s, "0m")
	}
	return s
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		SourceDir: "obsidian-posts",
		DestDir:   "hugo-site/content/posts",
		Store:     StoreConfig{Driver: StoreDriverSQLite, DSN: "postsync.db"},
		Journal:   JournalConfig{Enabled: true, Path: "postsync-journal.db"},
		Sync:      SyncConfig{DefaultStatus: "draft"},
		Logging: LoggingConfig{
			Level:      LogLevelInfo,
			Format:     LogFormatText,
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		Notify: NotifyConfig{Subject: "postsync.post.synced"},
		Git: GitConfig{
			AuthorName:  "postsync",
			AuthorEmail: "postsync@localhost",
			Message:     "postsync: publish synced posts",
		},
		Watch: WatchConfig{Interval: 5 * time.Minute, Debounce: 2 * time.Second},
	}
}

// Load reads configPath over the defaults, expanding ${VAR} references from
// the environment (after loading .env files). A missing file yields the
// defaults.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to load .env file").
			Fatal().
			UserAction().
			Build()
	}

	cfg := Default()
	data, err := os.ReadFile(configPath)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		slog.Debug("Configuration file not found, using defaults", "path", configPath)
	case err != nil:
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	default:
		if err := decode(data, cfg); err != nil {
			return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse config file").
				Fatal().
				UserAction().
				WithContext("path", configPath).
				Build()
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").
			Fatal().
			UserAction().
			WithContext("path", configPath).
			Build()
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid configuration").
			Fatal().
			UserAction().
			WithContext("path", configPath).
			Build()
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) normalize() error {
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
	driver, err := ParseStoreDriver(string(c.Store.Driver))
	if err != nil {
		return fmt.Errorf("store.driver: %w", err)
	}
	c.Store.Driver = driver
	return nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Default()
	example.Notify.NATSURL = "${NATS_URL}"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	var buf bytes.Buffer
	buf.WriteString("# postsync configuration. ${VAR} references are expanded from the environment and .env files.\n")
	buf.Write(data)

	if err := os.WriteFile(configPath, buf.Bytes(), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
