package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Uploads    UploadsConfig    `yaml:"uploads"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// AuthConfig holds token signing and lifetime settings.
type AuthConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	AccessTTLMinutes   int           `yaml:"access_ttl_minutes"`
	RefreshTTLHours    int           `yaml:"refresh_ttl_hours"`
	ResetTokenTTLHours int           `yaml:"reset_token_ttl_hours"`
	AccessTTL          time.Duration `yaml:"-"`
	RefreshTTL         time.Duration `yaml:"-"`
	ResetTokenTTL      time.Duration `yaml:"-"`
}

// UploadsConfig holds settings for multipart file storage.
type UploadsConfig struct {
	Dir             string `yaml:"dir"`
	MaxDocumentMB   int    `yaml:"max_document_mb"`
	MaxDocumentSize int64  `yaml:"-"`
}

// PushConfig holds the VAPID keys for web push notifications.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 20
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}

	if cfg.Auth.AccessTTLMinutes <= 0 {
		cfg.Auth.AccessTTLMinutes = 15
	}
	if cfg.Auth.RefreshTTLHours <= 0 {
		cfg.Auth.RefreshTTLHours = 24 * 7
	}
	if cfg.Auth.ResetTokenTTLHours <= 0 {
		cfg.Auth.ResetTokenTTLHours = 24
	}
	cfg.Auth.AccessTTL = time.Duration(cfg.Auth.AccessTTLMinutes) * time.Minute
	cfg.Auth.RefreshTTL = time.Duration(cfg.Auth.RefreshTTLHours) * time.Hour
	cfg.Auth.ResetTokenTTL = time.Duration(cfg.Auth.ResetTokenTTLHours) * time.Hour

	if cfg.Uploads.Dir == "" {
		cfg.Uploads.Dir = "./uploads"
	}
	if cfg.Uploads.MaxDocumentMB <= 0 {
		cfg.Uploads.MaxDocumentMB = 5
	}
	cfg.Uploads.MaxDocumentSize = int64(cfg.Uploads.MaxDocumentMB) << 20

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		cfg.WorkerPool.Size = 1
	}

	return &cfg, nil
}
