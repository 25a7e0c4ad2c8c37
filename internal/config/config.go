package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type FilesConfig struct {
	RootDir  string `yaml:"root_dir" env:"TUNTUN_FILES_ROOT"`
	FontPath string `yaml:"font_path" env:"TUNTUN_FILES_FONT"`
}

type MobizonConfig struct {
	APIKey   string `yaml:"api_key" env:"TUNTUN_MOBIZON_API_KEY"`
	SenderID string `yaml:"sender_id" env:"TUNTUN_MOBIZON_SENDER"`
	DryRun   bool   `yaml:"dry_run" env:"TUNTUN_MOBIZON_DRY_RUN"`
	Enabled  bool   `yaml:"enabled" env:"TUNTUN_MOBIZON_ENABLED"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token" env:"TUNTUN_TELEGRAM_TOKEN"`
	ChatID   int64  `yaml:"chat_id" env:"TUNTUN_TELEGRAM_CHAT_ID"`
}

type SecurityConfig struct {
	StorePath    string        `yaml:"store_path" env:"TUNTUN_SECURE_STORE"`
	MasterSecret string        `yaml:"master_secret" env:"TUNTUN_MASTER_SECRET"`
	JWTSecret    string        `yaml:"jwt_secret" env:"TUNTUN_JWT_SECRET"`
	TokenTTL     time.Duration `yaml:"token_ttl" env:"TUNTUN_TOKEN_TTL"`
	MaxAttempts  int           `yaml:"max_attempts" env:"TUNTUN_PIN_MAX_ATTEMPTS"`
	Lockout      time.Duration `yaml:"lockout" env:"TUNTUN_PIN_LOCKOUT"`
	// AttemptsPerMinute bounds PIN checks per caller.
	AttemptsPerMinute int `yaml:"attempts_per_minute" env:"TUNTUN_PIN_RATE"`
}

type DuesConfig struct {
	Schedule  string `yaml:"schedule" env:"TUNTUN_DUES_SCHEDULE"`
	GraceDays int    `yaml:"grace_days" env:"TUNTUN_DUES_GRACE_DAYS"`

	// OwnerEmail receives the digest by mail in addition to Telegram.
	OwnerEmail string `yaml:"owner_email" env:"TUNTUN_DUES_OWNER_EMAIL"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port" env:"TUNTUN_PORT"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url" env:"TUNTUN_DATABASE_URL"`
	} `yaml:"database"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host" env:"TUNTUN_SMTP_HOST"`
		SMTPPort     int    `yaml:"smtp_port" env:"TUNTUN_SMTP_PORT"`
		SMTPUser     string `yaml:"smtp_user" env:"TUNTUN_SMTP_USER"`
		SMTPPassword string `yaml:"smtp_password" env:"TUNTUN_SMTP_PASSWORD"`
		FromEmail    string `yaml:"from_email" env:"TUNTUN_FROM_EMAIL"`
	} `yaml:"email"`
	Log struct {
		Level string `yaml:"level" env:"TUNTUN_LOG_LEVEL"`
	} `yaml:"log"`
	Files    FilesConfig    `yaml:"files"`
	Mobizon  MobizonConfig  `yaml:"mobizon"`
	Telegram TelegramConfig `yaml:"telegram"`
	Security SecurityConfig `yaml:"security"`
	Dues     DuesConfig     `yaml:"dues"`
}

// LoadConfig reads the YAML file at path (a missing file is not an error),
// then applies .env and TUNTUN_* environment overrides and fills defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}
	_ = godotenv.Load()

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("env overrides: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Files.RootDir == "" {
		c.Files.RootDir = "./files"
	}
	if c.Security.StorePath == "" {
		c.Security.StorePath = "./data/secure_prefs"
	}
	if c.Security.TokenTTL <= 0 {
		c.Security.TokenTTL = 12 * time.Hour
	}
	if c.Security.MaxAttempts <= 0 {
		c.Security.MaxAttempts = 5
	}
	if c.Security.Lockout <= 0 {
		c.Security.Lockout = 5 * time.Minute
	}
	if c.Security.AttemptsPerMinute <= 0 {
		c.Security.AttemptsPerMinute = 10
	}
	if c.Dues.Schedule == "" {
		c.Dues.Schedule = "0 9 * * *"
	}
	if c.Dues.GraceDays <= 0 {
		c.Dues.GraceDays = 30
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}
