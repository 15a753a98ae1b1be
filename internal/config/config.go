// Package config loads server configuration from an optional YAML file and
// BIGTWO_* environment variables, with working defaults for every knob.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Room   RoomConfig   `mapstructure:"room"`
	Event  EventConfig  `mapstructure:"event"`
	Bot    BotConfig    `mapstructure:"bot"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	// Secret signs guest tokens. The default is for local development only.
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type RoomConfig struct {
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	IdleAfter     time.Duration `mapstructure:"idle_after"`
}

type EventConfig struct {
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	BackoffBase    time.Duration `mapstructure:"backoff_base"`
	QueueSize      int           `mapstructure:"queue_size"`
	PoolSize       int           `mapstructure:"pool_size"`
}

type BotConfig struct {
	ThinkMin      time.Duration `mapstructure:"think_min"`
	ThinkMax      time.Duration `mapstructure:"think_max"`
	DecideTimeout time.Duration `mapstructure:"decide_timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("BIGTWO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("auth.secret", "dev-only-secret")
	v.SetDefault("auth.token_ttl", 24*time.Hour)

	v.SetDefault("room.sweep_interval", time.Minute)
	v.SetDefault("room.idle_after", 30*time.Minute)

	v.SetDefault("event.handler_timeout", 5*time.Second)
	v.SetDefault("event.max_retries", 3)
	v.SetDefault("event.backoff_base", 100*time.Millisecond)
	v.SetDefault("event.queue_size", 64)
	v.SetDefault("event.pool_size", 256)

	v.SetDefault("bot.think_min", 100*time.Millisecond)
	v.SetDefault("bot.think_max", 500*time.Millisecond)
	v.SetDefault("bot.decide_timeout", 5*time.Second)

	v.SetDefault("log.level", "info")
}

func (c *Config) validate() error {
	if c.Bot.ThinkMin > c.Bot.ThinkMax {
		return fmt.Errorf("config: bot.think_min exceeds bot.think_max")
	}
	if c.Event.MaxRetries < 0 {
		return fmt.Errorf("config: event.max_retries must not be negative")
	}
	if c.Room.IdleAfter <= 0 {
		return fmt.Errorf("config: room.idle_after must be positive")
	}
	return nil
}
