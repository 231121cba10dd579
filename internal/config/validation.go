package config

import (
	"path/filepath"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var errDirRequired = validation.NewError("config.dir_required", "directory is required")

func notBlank(value any) error {
	if s, _ := value.(string); strings.TrimSpace(s) == "" {
		return errDirRequired
	}
	return nil
}

// Validate checks the configuration after defaults and normalization.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SourceDir, validation.By(notBlank)),
		validation.Field(&c.DestDir, validation.By(notBlank), validation.By(func(any) error {
			if filepath.Clean(c.DestDir) == filepath.Clean(c.SourceDir) {
				return validation.NewError("config.dest_equals_source", "must differ from source_dir")
			}
			return nil
		})),
		validation.Field(&c.Store),
		validation.Field(&c.Journal),
		validation.Field(&c.Logging),
		validation.Field(&c.Git),
		validation.Field(&c.Watch),
	)
}

func (s StoreConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Driver, validation.In(StoreDriverSQLite, StoreDriverPostgres)),
		validation.Field(&s.DSN, validation.Required),
	)
}

func (j JournalConfig) Validate() error {
	return validation.ValidateStruct(&j,
		validation.Field(&j.Path, validation.When(j.Enabled, validation.Required)),
	)
}

func (l LoggingConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.MaxSizeMB, validation.Min(0)),
		validation.Field(&l.MaxBackups, validation.Min(0)),
		validation.Field(&l.MaxAgeDays, validation.Min(0)),
	)
}

func (g GitConfig) Validate() error {
	return validation.ValidateStruct(&g,
		validation.Field(&g.AuthorName, validation.When(g.Commit, validation.Required)),
		validation.Field(&g.AuthorEmail, validation.When(g.Commit, validation.Required)),
	)
}

func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Interval, validation.By(func(any) error {
			if w.Interval < 0 {
				return validation.NewError("config.watch.interval_negative", "must not be negative")
			}
			return nil
		})),
		validation.Field(&w.Debounce, validation.By(func(any) error {
			if w.Debounce < 0 || w.Debounce > time.Minute {
				return validation.NewError("config.watch.debounce_range", "must be between 0 and 1m")
			}
			return nil
		})),
	)
}
