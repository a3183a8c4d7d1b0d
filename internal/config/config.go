package config

import (
	stderrors "errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vango-dev/routeview/internal/errors"
)

const (
	// ConfigName is the config file looked up in the working directory
	// when no file is given explicitly.
	ConfigName = "routeview"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "ROUTEVIEW"
)

// Config is the complete configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Routes  RoutesConfig  `mapstructure:"routes"`
	View    ViewConfig    `mapstructure:"view"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Trace   TraceConfig   `mapstructure:"trace"`
	Log     LogConfig     `mapstructure:"log"`

	// path is the config file that was read, if any.
	path string
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr        string        `mapstructure:"addr"`
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
}

// RoutesConfig configures the route table.
type RoutesConfig struct {
	// File is a YAML route table.
	File string `mapstructure:"file"`

	// Watch reloads File when it changes.
	Watch bool `mapstructure:"watch"`

	// CacheTTL caches resolved locations. Zero disables the cache.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// ViewConfig configures the root RouterView.
type ViewConfig struct {
	KeepAlive    bool `mapstructure:"keep_alive"`
	KeepAliveMax int  `mapstructure:"keep_alive_max"`
}

// MetricsConfig configures Prometheus metrics.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
}

// TraceConfig configures tracing.
type TraceConfig struct {
	// Stdout exports spans to standard output.
	Stdout bool `mapstructure:"stdout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Addr:        ":8080",
			ReadTimeout: 10 * time.Second,
		},
		Routes: RoutesConfig{
			File:     "routes.yaml",
			CacheTTL: time.Minute,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "routeview",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// SetDefaults registers the defaults on v. Keys must be known to v for
// environment overrides to apply.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("routes.file", d.Routes.File)
	v.SetDefault("routes.watch", d.Routes.Watch)
	v.SetDefault("routes.cache_ttl", d.Routes.CacheTTL)
	v.SetDefault("view.keep_alive", d.View.KeepAlive)
	v.SetDefault("view.keep_alive_max", d.View.KeepAliveMax)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.namespace", d.Metrics.Namespace)
	v.SetDefault("trace.stdout", d.Trace.Stdout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Load reads configuration into a Config. When file is empty,
// routeview.yaml in dir is read if present; a missing default file is
// not an error, a missing explicit file is.
func Load(v *viper.Viper, file, dir string) (*Config, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if dir == "" {
			dir = "."
		}
		v.AddConfigPath(dir)
		v.SetConfigName(ConfigName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stderrors.As(err, &notFound) {
			return nil, errors.New("E106").WithDetail("reading config").Wrap(err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("E106").WithDetail("decoding config").Wrap(err)
	}
	cfg.path = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Path returns the config file that was read, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Server.Addr == "":
		return invalid("server.addr must not be empty")
	case c.Server.ReadTimeout < 0:
		return invalid("server.read_timeout must not be negative")
	case c.Routes.CacheTTL < 0:
		return invalid("routes.cache_ttl must not be negative")
	case c.View.KeepAliveMax < 0:
		return invalid("view.keep_alive_max must not be negative")
	case c.Routes.Watch && c.Routes.File == "":
		return invalid("routes.watch needs routes.file")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json, got " + c.Log.Format)
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("E106").WithDetail(detail)
}

// ParseLevel converts a level name to a slog level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, invalid("log.level must be debug, info, warn or error, got " + name)
	}
	return level, nil
}

// NewLogger builds the logger described by c, writing to w.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
