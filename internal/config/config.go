package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration accepts Go duration strings such as "90s" or "24h" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config application configuration, loaded from a YAML file with
// environment variable overrides for secrets.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Upload   UploadConfig   `yaml:"upload"`
	Posting  PostingConfig  `yaml:"posting"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

// DatabaseConfig MySQL settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN builds the MySQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

// JWTConfig token settings
type JWTConfig struct {
	Secret          string        `yaml:"secret"`
	AccessTokenTTL  Duration `yaml:"access_token_ttl"`
	RefreshTokenTTL Duration `yaml:"refresh_token_ttl"`
}

// UploadConfig attachment staging and storage limits
type UploadConfig struct {
	Dir          string        `yaml:"dir"`         // permanent attachment storage
	StagingDir   string        `yaml:"staging_dir"` // temp files awaiting promotion
	MaxFileSize  int64         `yaml:"max_file_size"`
	MaxTotalSize int64         `yaml:"max_total_size"`
	MaxFiles     int           `yaml:"max_files"`
	AllowedExts  []string      `yaml:"allowed_exts"`
	StagingTTL   Duration      `yaml:"staging_ttl"`
}

// PostingConfig post pipeline policy
type PostingConfig struct {
	MaxMessageLength int      `yaml:"max_message_length"`
	EditGraceWindow  Duration `yaml:"edit_grace_window"` // unstamped self-edits within this window
	WarnNewReplies   bool     `yaml:"warn_new_replies"`
	SpamWindow       Duration `yaml:"spam_window"` // min interval between posts per actor
	TokenTTL         Duration `yaml:"token_ttl"`   // submit-once token lifetime
	ReservedNames    []string `yaml:"reserved_names"`
	BannedEmails     []string `yaml:"banned_emails"`
}

// Load reads the YAML config file and applies env overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{Port: 8082, Env: "local"},
		Upload: UploadConfig{
			Dir:          "data/attachments",
			StagingDir:   "data/staging",
			MaxFileSize:  10 * 1024 * 1024,
			MaxTotalSize: 50 * 1024 * 1024,
			MaxFiles:     8,
			AllowedExts:  []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".pdf", ".zip", ".txt"},
			StagingTTL:   Duration(24 * time.Hour),
		},
		Posting: PostingConfig{
			MaxMessageLength: 65534,
			EditGraceWindow:  Duration(90 * time.Second),
			WarnNewReplies:   true,
			SpamWindow:       Duration(15 * time.Second),
			TokenTTL:         Duration(6 * time.Hour),
			ReservedNames:    []string{"admin", "administrator", "moderator", "guest"},
		},
	}
}

// applyEnvOverrides lets secrets come from the environment instead of the
// YAML file. OS env vars always win.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("DB_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = p
		}
	}
	if v := os.Getenv("DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		cfg.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}
