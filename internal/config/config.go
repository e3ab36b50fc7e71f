package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/urltodo/internal/logger"
)

const (
	// EnvPrefix is prepended to every environment variable, e.g. URLTODO_DATABASE.
	EnvPrefix = "URLTODO"
	// DefaultConfigFile is read from the working directory when present.
	DefaultConfigFile = "urltodo.yaml"
)

// Notifier backend names.
const (
	NotifierStdout  = "stdout"
	NotifierDesktop = "desktop"
	NotifierRedis   = "redis"
)

// Keys, shared with the CLI flag bindings.
const (
	KeyDatabase    = "database"
	KeyLogLevel    = "log_level"
	KeyPrettyLog   = "pretty_log"
	KeyPIDFile     = "pid_file"
	KeyServiceName = "service_name"
	KeyModules     = "modules"
	KeyNotifiers   = "notifiers"
	KeyReminder    = "reminder_interval"
)

type Config struct {
	Database string // path of the SQLite file, ":memory:" for a throwaway store

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	PIDFile     string // where the background service records its pid
	ServiceName string // display name of the background service

	ReminderInterval time.Duration // background service: time between two reading reminders

	Modules   []string // modules offered at startup, in menu order
	Notifiers []string // "stdout" | "desktop" | "redis"

	Redis RedisConfig
}

// RedisConfig is only used when the redis notifier is enabled.
type RedisConfig struct {
	Addr           string        // ex: "localhost:6379"
	User           string        // optional
	Password       string        // optional
	DB             int           // Redis DB number
	Channel        string        // pub/sub channel reminders are published to
	ConnectTimeout time.Duration // Total time to retry connecting (ex: 5s)
	RetryInterval  time.Duration // Initial wait between retries (grows exponentially)
	MaxWait        time.Duration // max wait between retries
	PingTimeout    time.Duration // timeout for each ping attempt
	WarnThreshold  int           // warn after this many attempts
}

// New returns a viper instance carrying the defaults and the environment
// bindings. Callers may bind command line flags onto it before Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault(KeyDatabase, "todos.db")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyPrettyLog, true)
	v.SetDefault(KeyPIDFile, "service.pid")
	v.SetDefault(KeyServiceName, "UrlTodoListService")
	v.SetDefault(KeyReminder, 24*time.Hour)
	v.SetDefault(KeyModules, "url_todo_list")
	v.SetDefault(KeyNotifiers, NotifierStdout)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel", "urltodo:reminders")
	v.SetDefault("redis.connect_timeout", 5*time.Second)
	v.SetDefault("redis.retry_interval", 500*time.Millisecond)
	v.SetDefault("redis.max_wait", 2*time.Second)
	v.SetDefault("redis.ping_timeout", time.Second)
	v.SetDefault("redis.warn_threshold", 3)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the optional config file and builds a validated Config.
// An explicit configFile must exist; otherwise URLTODO_CONFIG and then
// DefaultConfigFile are tried, and a missing file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	path, explicit := configFile, configFile != ""
	if !explicit {
		path, explicit = getenv(EnvPrefix+"_CONFIG", DefaultConfigFile), os.Getenv(EnvPrefix+"_CONFIG") != ""
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	cfg := &Config{
		Database: strings.TrimSpace(v.GetString(KeyDatabase)),

		LogLevel:  strings.ToLower(v.GetString(KeyLogLevel)),
		PrettyLog: v.GetBool(KeyPrettyLog),

		PIDFile:     v.GetString(KeyPIDFile),
		ServiceName: v.GetString(KeyServiceName),

		ReminderInterval: v.GetDuration(KeyReminder),

		Modules:   stringList(v.Get(KeyModules)),
		Notifiers: stringList(v.Get(KeyNotifiers)),

		Redis: RedisConfig{
			Addr:           v.GetString("redis.addr"),
			User:           v.GetString("redis.username"),
			Password:       v.GetString("redis.password"),
			DB:             v.GetInt("redis.db"),
			Channel:        v.GetString("redis.channel"),
			ConnectTimeout: v.GetDuration("redis.connect_timeout"),
			RetryInterval:  v.GetDuration("redis.retry_interval"),
			MaxWait:        v.GetDuration("redis.max_wait"),
			PingTimeout:    v.GetDuration("redis.ping_timeout"),
			WarnThreshold:  v.GetInt("redis.warn_threshold"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values Load cannot default.
func (c *Config) Validate() error {
	var errs []error

	if c.Database == "" {
		errs = append(errs, errors.New("database path must not be empty"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.LogLevel))
	}
	if c.PIDFile == "" {
		errs = append(errs, errors.New("pid file must not be empty"))
	}
	if c.ReminderInterval <= 0 {
		errs = append(errs, fmt.Errorf("reminder interval must be > 0, got %v", c.ReminderInterval))
	}
	if len(c.Modules) == 0 {
		errs = append(errs, errors.New("at least one module must be configured"))
	}
	for _, n := range c.Notifiers {
		switch n {
		case NotifierStdout, NotifierDesktop, NotifierRedis:
		default:
			errs = append(errs, fmt.Errorf("unknown notifier %q", n))
		}
	}
	if c.HasNotifier(NotifierRedis) && c.Redis.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required by the redis notifier"))
	}

	return errors.Join(errs...)
}

// HasNotifier reports whether the named backend is enabled.
func (c *Config) HasNotifier(name string) bool {
	for _, n := range c.Notifiers {
		if n == name {
			return true
		}
	}
	return false
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = "***REDACTED***"
	}
	return c
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// stringList accepts a YAML list or a comma separated string
// (the only shape an environment variable can take).
func stringList(raw any) []string {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return splitAndTrim(v)
	case []string:
		return splitAndTrim(strings.Join(v, ","))
	case []any:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return splitAndTrim(strings.Join(parts, ","))
	default:
		return splitAndTrim(fmt.Sprint(v))
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
