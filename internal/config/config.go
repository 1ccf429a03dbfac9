package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// global configuration structure
type Config struct {
	Bot       BotConfig       `mapstructure:"bot"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Reactions ReactionsConfig `mapstructure:"reactions"`
	Broadcast BroadcastConfig `mapstructure:"broadcast"`
	Health    HealthConfig    `mapstructure:"health"`
}

// Telegram bot configuration
type BotConfig struct {
	Token string `mapstructure:"token"`
	// MainChannel is the username (without @) of the channel that gates
	// access to the bot.
	MainChannel string `mapstructure:"main_channel"`
	// AdminIDs is parsed from the comma-separated admin_ids value.
	AdminIDs []int64 `mapstructure:"-"`
}

// logging configuration
type LoggerConfig struct {
	Directory string            `mapstructure:"directory"`
	Rotation  LogRotationConfig `mapstructure:"rotation"`
	Level     string            `mapstructure:"level"`
}

// log rotation settings
type LogRotationConfig struct {
	MaxSize    int  `mapstructure:"max_size"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAge     int  `mapstructure:"max_age"`
	Compress   bool `mapstructure:"compress"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// emoji pools for the auto-reaction engine
type ReactionsConfig struct {
	Positive    []string `mapstructure:"positive"`
	Fallback    []string `mapstructure:"fallback"`
	MaxAttempts int      `mapstructure:"max_attempts"`
}

type BroadcastConfig struct {
	SendsPerSecond int `mapstructure:"sends_per_second"`
}

// liveness HTTP server configuration
type HealthConfig struct {
	ListenPort string `mapstructure:"listen_port"`
}

// Load reads configuration from the optional YAML file at configPath and the
// process environment. Environment values win over file values.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	bindEnv(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			if _, statErr := os.Stat(configPath); statErr == nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
			log.Printf("Config file %s not found, using environment and defaults", configPath)
		} else {
			log.Printf("Using config file: %s", v.ConfigFileUsed())
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	adminIDs, err := parseAdminIDs(v.GetString("bot.admin_ids"))
	if err != nil {
		return nil, fmt.Errorf("invalid bot.admin_ids: %w", err)
	}
	cfg.Bot.AdminIDs = adminIDs

	if cfg.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required (set BOT_TOKEN)")
	}

	return cfg, nil
}

// IsAdmin reports whether userID is on the configured admin allow-list.
func (c *Config) IsAdmin(userID int64) bool {
	for _, id := range c.Bot.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func parseAdminIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad admin ID %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("bot.token", "BOT_TOKEN")
	v.BindEnv("bot.main_channel", "MAIN_CHANNEL_USERNAME")
	v.BindEnv("bot.admin_ids", "ADMIN_IDS")
	v.BindEnv("database.dsn", "DATABASE_DSN")
	v.BindEnv("health.listen_port", "PORT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.directory", "logs")
	v.SetDefault("logger.rotation.max_size", 10)
	v.SetDefault("logger.rotation.max_backups", 30)
	v.SetDefault("logger.rotation.max_age", 90)
	v.SetDefault("logger.rotation.compress", true)
	v.SetDefault("logger.level", "INFO")

	v.SetDefault("reactions.positive", []string{
		"👍", "❤️", "🔥", "🎉", "👏", "🤩", "💯", "🙏", "💘", "😘", "🤗", "🆒", "😇", "⚡", "🫡",
	})
	v.SetDefault("reactions.fallback", []string{"👌", "😁", "❤️‍🔥", "🥰", "💋"})
	v.SetDefault("reactions.max_attempts", 3)

	v.SetDefault("broadcast.sends_per_second", 20)

	v.SetDefault("health.listen_port", "8080")
}
