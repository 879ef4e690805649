package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all PartsDesk configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Inventory InventoryConfig `yaml:"inventory"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the gorm dialector and DSN.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres, sqlite
	DSN    string `yaml:"dsn"`
}

// AuthConfig configures tokens and the password-reset flow.
type AuthConfig struct {
	JWTSecret        string `yaml:"jwt_secret"`
	TokenTTL         string `yaml:"token_ttl"`
	ResetCodeTTL     string `yaml:"reset_code_ttl"`
	ResetMaxAttempts int    `yaml:"reset_max_attempts"`
	ExposeResetCodes bool   `yaml:"expose_reset_codes"`
}

// StorageConfig configures the profile image bucket.
type StorageConfig struct {
	Root          string `yaml:"root"`
	PublicBaseURL string `yaml:"public_base_url"`
	MaxUploadMB   int64  `yaml:"max_upload_mb"`
}

type InventoryConfig struct {
	LowStockThreshold int `yaml:"low_stock_threshold"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			AllowedOrigins:  []string{"http://localhost:5173"},
			ShutdownTimeout: "10s",
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "data/partsdesk.db",
		},
		Auth: AuthConfig{
			TokenTTL:         "1h",
			ResetCodeTTL:     "15m",
			ResetMaxAttempts: 5,
		},
		Storage: StorageConfig{
			Root:          "data/storage",
			PublicBaseURL: "http://localhost:8080/media",
			MaxUploadMB:   5,
		},
		Inventory: InventoryConfig{
			LowStockThreshold: 5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (c *Config) applyEnvOverrides() {
	if addr := os.Getenv("PARTSDESK_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if origins := os.Getenv("PARTSDESK_ALLOWED_ORIGINS"); origins != "" {
		c.Server.AllowedOrigins = strings.Split(origins, ",")
	}
	if driver := os.Getenv("PARTSDESK_DATABASE_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("PARTSDESK_DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("PARTSDESK_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if root := os.Getenv("PARTSDESK_STORAGE_ROOT"); root != "" {
		c.Storage.Root = root
	}
	if base := os.Getenv("PARTSDESK_PUBLIC_BASE_URL"); base != "" {
		c.Storage.PublicBaseURL = base
	}
	if level := os.Getenv("PARTSDESK_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetTokenTTL returns the JWT lifetime.
func (c *Config) GetTokenTTL() time.Duration {
	return parseDuration(c.Auth.TokenTTL, time.Hour)
}

// GetResetCodeTTL returns how long a password-reset code stays valid.
func (c *Config) GetResetCodeTTL() time.Duration {
	return parseDuration(c.Auth.ResetCodeTTL, 15*time.Minute)
}

func (c *Config) GetShutdownTimeout() time.Duration {
	return parseDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// MaxUploadBytes returns the avatar upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	if c.Storage.MaxUploadMB <= 0 {
		return 5 << 20
	}
	return c.Storage.MaxUploadMB << 20
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// Validate checks the configuration before the server starts.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return errors.New("database dsn is required")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return errors.New("jwt secret must be at least 16 characters")
	}
	if c.Auth.ResetMaxAttempts < 1 {
		return errors.New("reset_max_attempts must be at least 1")
	}
	if c.Storage.Root == "" {
		return errors.New("storage root is required")
	}
	return nil
}
