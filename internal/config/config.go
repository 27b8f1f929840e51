package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"foodlog/internal/flow"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. FOODLOG_PORT.
const EnvPrefix = "FOODLOG"

// Config is the full runtime configuration.
type Config struct {
	Port    string        `mapstructure:"port"`
	DB      DBConfig      `mapstructure:"db"`
	Log     LogConfig     `mapstructure:"log"`
	Server  ServerConfig  `mapstructure:"server"`
	Session SessionConfig `mapstructure:"session"`
	Flow    FlowConfig    `mapstructure:"flow"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type SessionConfig struct {
	TTL          time.Duration `mapstructure:"ttl"`
	ReapInterval time.Duration `mapstructure:"reap_interval"`
	SigningKey   string        `mapstructure:"signing_key"`
}

type FlowConfig struct {
	ProcessingDelay  time.Duration `mapstructure:"processing_delay"`
	ProgressInterval time.Duration `mapstructure:"progress_interval"`
	ProgressStep     int           `mapstructure:"progress_step"`
	StepInterval     time.Duration `mapstructure:"step_interval"`
	SaveDelay        time.Duration `mapstructure:"save_delay"`
	MaxImageBytes    int64         `mapstructure:"max_image_bytes"`
}

// Timings converts the flow section into flow.Timings.
func (f FlowConfig) Timings() flow.Timings {
	return flow.Timings{
		ProcessingDelay:  f.ProcessingDelay,
		ProgressInterval: f.ProgressInterval,
		ProgressStep:     f.ProgressStep,
		StepInterval:     f.StepInterval,
		SaveDelay:        f.SaveDelay,
	}
}

// DefaultSigningKey is the placeholder shipped in configs/config.yml. It is
// only accepted at debug log level.
const DefaultSigningKey = "change-me"

var (
	errEmptySigningKey   = errors.New("session.signing_key must not be empty")
	errDefaultSigningKey = errors.New("session.signing_key is the shipped placeholder; set FOODLOG_SESSION_SIGNING_KEY or use log.level debug")
)

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "foodlog.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("server.read_header_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("session.reap_interval", time.Minute)
	v.SetDefault("session.signing_key", DefaultSigningKey)

	v.SetDefault("flow.processing_delay", flow.DefaultProcessingDelay)
	v.SetDefault("flow.progress_interval", flow.DefaultProgressInterval)
	v.SetDefault("flow.progress_step", flow.DefaultProgressStep)
	v.SetDefault("flow.step_interval", flow.DefaultStepInterval)
	v.SetDefault("flow.save_delay", flow.DefaultSaveDelay)
	v.SetDefault("flow.max_image_bytes", 10<<20)
}

// BindEnv enables FOODLOG_* overrides, with dots mapped to underscores.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load reads the config file (if set or found) and decodes v into Config.
// A missing config file is not an error; defaults apply.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	BindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// UsesDefaultSigningKey reports whether tokens are signed with the
// placeholder key.
func (c Config) UsesDefaultSigningKey() bool {
	return c.Session.SigningKey == DefaultSigningKey
}

// Validate rejects settings the service cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Session.SigningKey) == "" {
		return errEmptySigningKey
	}
	if c.UsesDefaultSigningKey() && !strings.EqualFold(c.Log.Level, "debug") {
		return errDefaultSigningKey
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", c.Session.TTL)
	}
	if c.Session.ReapInterval <= 0 {
		return fmt.Errorf("session.reap_interval must be positive, got %s", c.Session.ReapInterval)
	}
	if c.Flow.MaxImageBytes <= 0 {
		return fmt.Errorf("flow.max_image_bytes must be positive, got %d", c.Flow.MaxImageBytes)
	}
	return nil
}
