package config

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevels = newEnum(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

func NormalizeLogLevel(raw string) LogLevel {
	return logLevels.normalize(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormats = newEnum(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormats.normalize(raw)
}

// StoreDriver enumerates record store backends.
type StoreDriver string

const (
	StoreDriverSQLite   StoreDriver = "sqlite"
	StoreDriverPostgres StoreDriver = "postgres"
)

var storeDrivers = newEnum(map[string]StoreDriver{
	"sqlite":     StoreDriverSQLite,
	"sqlite3":    StoreDriverSQLite,
	"postgres":   StoreDriverPostgres,
	"postgresql": StoreDriverPostgres,
	"pgx":        StoreDriverPostgres,
}, StoreDriverSQLite)

// ParseStoreDriver accepts common aliases; blank means sqlite.
func ParseStoreDriver(raw string) (StoreDriver, error) {
	return storeDrivers.parse(raw)
}

