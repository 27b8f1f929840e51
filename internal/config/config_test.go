package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"foodlog/internal/flow"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FOODLOG_SESSION_SIGNING_KEY", "test-key")
	v := viper.New()
	v.AddConfigPath(t.TempDir()) // nothing there
	v.SetConfigName("config")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Path != "foodlog.db" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if got := cfg.Flow.Timings(); got != flow.DefaultTimings() {
		t.Fatalf("flow timings = %+v, want %+v", got, flow.DefaultTimings())
	}
	if cfg.Session.TTL != 30*time.Minute || cfg.Flow.MaxImageBytes != 10<<20 {
		t.Fatalf("unexpected session/flow defaults: %+v", cfg)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := []byte(`
port: "9090"
flow:
  processing_delay: 1s
  progress_step: 5
session:
  ttl: 5m
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), yml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FOODLOG_DB_PATH", "/tmp/override.db")
	t.Setenv("FOODLOG_SESSION_SIGNING_KEY", "test-key")

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.Flow.ProcessingDelay != time.Second || cfg.Flow.ProgressStep != 5 {
		t.Fatalf("flow = %+v", cfg.Flow)
	}
	if cfg.Flow.SaveDelay != flow.DefaultSaveDelay {
		t.Fatalf("unset key lost its default: %v", cfg.Flow.SaveDelay)
	}
	if cfg.Session.TTL != 5*time.Minute {
		t.Fatalf("ttl = %v", cfg.Session.TTL)
	}
	if cfg.DB.Path != "/tmp/override.db" {
		t.Fatalf("env override ignored: %q", cfg.DB.Path)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Session: SessionConfig{TTL: time.Minute, ReapInterval: time.Second, SigningKey: "k"},
		Flow:    FlowConfig{MaxImageBytes: 1},
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(c *Config){
		"empty key":    func(c *Config) { c.Session.SigningKey = "  " },
		"zero ttl":     func(c *Config) { c.Session.TTL = 0 },
		"zero reap":    func(c *Config) { c.Session.ReapInterval = 0 },
		"zero max img": func(c *Config) { c.Flow.MaxImageBytes = 0 },
		"default key":  func(c *Config) { c.Session.SigningKey = DefaultSigningKey },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := base
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestValidate_DefaultSigningKeyAllowedInDebug(t *testing.T) {
	c := Config{
		Log:     LogConfig{Level: "debug"},
		Session: SessionConfig{TTL: time.Minute, ReapInterval: time.Second, SigningKey: DefaultSigningKey},
		Flow:    FlowConfig{MaxImageBytes: 1},
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("debug config rejected: %v", err)
	}
	if !c.UsesDefaultSigningKey() {
		t.Fatalf("placeholder key not reported")
	}
}

func TestLoad_RejectsShippedSigningKey(t *testing.T) {
	t.Setenv("FOODLOG_LOG_LEVEL", "info")
	v := viper.New()
	v.AddConfigPath(t.TempDir())
	v.SetConfigName("config")

	if _, err := Load(v); !errors.Is(err, errDefaultSigningKey) {
		t.Fatalf("Load err = %v, want placeholder key rejection", err)
	}
}
