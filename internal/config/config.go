package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"mockabot/internal/models"
)

// Config holds the application configuration
type Config struct {
	// Default bot identity; its webhook receives the updates
	Bot models.Identity

	// Extra identities loaded from BotsFile, each registered on its own
	ExtraBots []models.Identity
	BotsFile  string

	// Bot mode configuration
	WebhookMode bool   // If true, use webhook mode; if false, use polling mode
	WebhookURL  string // Base URL for webhooks (required if WebhookMode is true)
	Port        string

	// Telegram Bot API
	APIEndpoint  string // tgbotapi endpoint format, empty for the public API
	RelayTimeout time.Duration

	// Logging
	LogLevel  string
	LogFormat string // "json" or "console"
}

// Bots returns the default identity followed by the extra ones
func (c *Config) Bots() []models.Identity {
	return append([]models.Identity{c.Bot}, c.ExtraBots...)
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	// Telegram Bot Token (required)
	config.Bot.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	if config.Bot.Token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	// Telegram Bot Username (required, routes the webhook)
	config.Bot.Username = strings.TrimPrefix(os.Getenv("TELEGRAM_BOT_USERNAME"), "@")
	if config.Bot.Username == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_USERNAME is required")
	}

	// Bot mode configuration
	config.WebhookMode = os.Getenv("WEBHOOK_MODE") == "true"
	config.Bot.Secret = os.Getenv("TELEGRAM_BOT_SECRET")
	if config.WebhookMode {
		config.WebhookURL = os.Getenv("WEBHOOK_URL")
		if config.WebhookURL == "" {
			return nil, fmt.Errorf("WEBHOOK_URL is required when WEBHOOK_MODE is true")
		}
		if config.Bot.Secret == "" {
			return nil, fmt.Errorf("TELEGRAM_BOT_SECRET is required when WEBHOOK_MODE is true")
		}
	} else if config.Bot.Secret == "" {
		// Polling never exposes the secret, any value will do
		config.Bot.Secret = uuid.NewString()
	}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080" // Default port
	}

	config.APIEndpoint = os.Getenv("TELEGRAM_API_ENDPOINT")

	config.RelayTimeout = 30 * time.Second
	if timeoutStr := os.Getenv("RELAY_TIMEOUT"); timeoutStr != "" {
		timeout, err := parseDuration(timeoutStr)
		if err != nil {
			return nil, fmt.Errorf("invalid RELAY_TIMEOUT: %w", err)
		}
		config.RelayTimeout = timeout
	}

	config.LogLevel = os.Getenv("LOG_LEVEL")
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	config.LogFormat = os.Getenv("LOG_FORMAT")
	if config.LogFormat == "" {
		config.LogFormat = "json"
	}
	if config.LogFormat != "json" && config.LogFormat != "console" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q (use json or console)", config.LogFormat)
	}

	// Extra bots (optional)
	config.BotsFile = os.Getenv("BOTS_FILE")
	if config.BotsFile != "" {
		bots, err := LoadBotsFile(config.BotsFile, config.WebhookMode)
		if err != nil {
			return nil, err
		}
		config.ExtraBots = bots
	}

	return config, nil
}

// parseDuration accepts Go durations ("45s") and plain seconds ("45")
func parseDuration(s string) (time.Duration, error) {
	if seconds, err := strconv.Atoi(s); err == nil {
		if seconds <= 0 {
			return 0, fmt.Errorf("must be positive, got %d", seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}

// botsFile is the YAML layout of BOTS_FILE
type botsFile struct {
	Bots []models.Identity `yaml:"bots"`
}

// LoadBotsFile reads extra bot identities from a YAML file:
//
//	bots:
//	  - username: other_bot
//	    token: "123:abc"
//	    secret: s3cret
func LoadBotsFile(path string, requireSecret bool) ([]models.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bots file: %w", err)
	}

	var file botsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse bots file %s: %w", path, err)
	}

	for i := range file.Bots {
		bot := &file.Bots[i]
		bot.Username = strings.TrimPrefix(bot.Username, "@")
		if bot.Username == "" || bot.Token == "" {
			return nil, fmt.Errorf("bots file %s: entry %d needs username and token", path, i+1)
		}
		if bot.Secret == "" {
			if requireSecret {
				return nil, fmt.Errorf("bots file %s: bot %s needs a secret in webhook mode", path, bot.Username)
			}
			bot.Secret = uuid.NewString()
		}
	}
	return file.Bots, nil
}
