package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"nfl-pool-go/logging"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`

	// Application configuration
	App AppConfig `json:"app"`

	// Pool rules and aliases
	Pool PoolConfig `json:"pool"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string `json:"port"`
	Host        string `json:"host"`
	UseTLS      bool   `json:"use_tls"`
	BehindProxy bool   `json:"behind_proxy"`
	CertFile    string `json:"cert_file"`
	KeyFile     string `json:"key_file"`
	Environment string `json:"environment"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
	LogDir      string `json:"log_dir"`
	EnableFile  bool   `json:"enable_file"`
}

// AuthConfig holds authentication configuration. The admin account is
// seeded on start when both email and password are set.
type AuthConfig struct {
	JWTSecret     string        `json:"jwt_secret"`
	TokenExpiry   time.Duration `json:"token_expiry"`
	AdminName     string        `json:"admin_name"`
	AdminEmail    string        `json:"admin_email"`
	AdminPassword string        `json:"-"`
}

// AppConfig holds application-specific configuration
type AppConfig struct {
	CurrentSeason            int           `json:"current_season"`
	IsDevelopment            bool          `json:"is_development"`
	BackgroundUpdaterEnabled bool          `json:"background_updater_enabled"`
	ChangeStreamEnabled      bool          `json:"change_stream_enabled"`
	LoadOnStartup            bool          `json:"load_on_startup"`
	PollInterval             time.Duration `json:"poll_interval"`
	ESPNBaseURL              string        `json:"espn_base_url"`
	OutcomeCacheTTL          time.Duration `json:"outcome_cache_ttl"`
	RecomputeConcurrency     int           `json:"recompute_concurrency"`
}

// PoolConfig points at the optional pool settings file and holds what was loaded from it
type PoolConfig struct {
	SettingsFile string       `json:"settings_file"`
	Settings     PoolSettings `json:"settings"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		logging.Debugf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	serverPort := getEnv("SERVER_PORT", "8080")
	if isDevelopment {
		if develPort := getEnv("DEVEL_SERVER_PORT", ""); develPort != "" {
			serverPort = develPort
		}
	}

	config := &Config{
		Server: ServerConfig{
			Port:        serverPort,
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			UseTLS:      getBoolEnv("USE_TLS", false),
			BehindProxy: getBoolEnv("BEHIND_PROXY", false),
			CertFile:    getEnv("TLS_CERT_FILE", "server.crt"),
			KeyFile:     getEnv("TLS_KEY_FILE", "server.key"),
			Environment: environment,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "nfl_pool"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "nfl-pool"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
			LogDir:      getEnv("LOG_DIR", "./logs"),
			EnableFile:  getBoolEnv("LOG_FILE", false),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
			TokenExpiry:   getDurationEnv("JWT_EXPIRY", 24*time.Hour),
			AdminName:     getEnv("ADMIN_NAME", "Pool Admin"),
			AdminEmail:    getEnv("ADMIN_EMAIL", ""),
			AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		},
		App: AppConfig{
			CurrentSeason:            getIntEnv("CURRENT_SEASON", 2025),
			IsDevelopment:            isDevelopment,
			BackgroundUpdaterEnabled: getBoolEnv("BACKGROUND_UPDATER_ENABLED", true),
			ChangeStreamEnabled:      getBoolEnv("CHANGE_STREAM_ENABLED", true),
			LoadOnStartup:            getBoolEnv("LOAD_ON_STARTUP", true),
			PollInterval:             getDurationEnv("POLL_INTERVAL", 0),
			ESPNBaseURL:              getEnv("ESPN_BASE_URL", ""),
			OutcomeCacheTTL:          getDurationEnv("OUTCOME_CACHE_TTL", 5*time.Minute),
			RecomputeConcurrency:     getIntEnv("RECOMPUTE_CONCURRENCY", 8),
		},
		Pool: PoolConfig{
			SettingsFile: getEnv("POOL_SETTINGS_FILE", ""),
		},
	}

	settings, err := LoadPoolSettings(config.Pool.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load pool settings: %w", err)
	}
	config.Pool.Settings = *settings

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Server.UseTLS && !c.Server.BehindProxy {
		if c.Server.CertFile == "" || c.Server.KeyFile == "" {
			return fmt.Errorf("TLS certificate and key files are required when USE_TLS=true")
		}
		if _, err := os.Stat(c.Server.CertFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS certificate file not found: %s", c.Server.CertFile)
		}
		if _, err := os.Stat(c.Server.KeyFile); os.IsNotExist(err) {
			return fmt.Errorf("TLS key file not found: %s", c.Server.KeyFile)
		}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == defaultJWTSecret && !c.App.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.App.CurrentSeason < 1920 || c.App.CurrentSeason > 2100 {
		return fmt.Errorf("current season must be between 1920 and 2100, got: %d", c.App.CurrentSeason)
	}
	if c.App.RecomputeConcurrency < 1 {
		return fmt.Errorf("recompute concurrency must be positive, got: %d", c.App.RecomputeConcurrency)
	}

	return nil
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// ShouldSeedAdmin returns true when admin credentials are configured
func (c *Config) ShouldSeedAdmin() bool {
	return strings.TrimSpace(c.Auth.AdminEmail) != "" && c.Auth.AdminPassword != ""
}

// LogConfiguration logs the current configuration (without sensitive data)
func (c *Config) LogConfiguration() {
	logging.Info("=== Application Configuration ===")
	logging.Infof("Server: %s (TLS: %t, Behind Proxy: %t, Environment: %s)",
		c.GetServerAddress(), c.Server.UseTLS, c.Server.BehindProxy, c.Server.Environment)
	logging.Infof("Database: %s:%s/%s (Username: %s, Auth: %t)",
		c.Database.Host, c.Database.Port, c.Database.Database,
		c.Database.Username, c.Database.Password != "")
	logging.Infof("Logging: Level=%s, Prefix=%s, Color=%t",
		c.Logging.Level, c.Logging.Prefix, c.Logging.EnableColor)
	logging.Infof("Auth: TokenExpiry=%v, SeedAdmin=%t", c.Auth.TokenExpiry, c.ShouldSeedAdmin())
	logging.Infof("App: Season=%d, Development=%t, BackgroundUpdater=%t, ChangeStream=%t, CacheTTL=%v, Concurrency=%d",
		c.App.CurrentSeason, c.App.IsDevelopment, c.App.BackgroundUpdaterEnabled, c.App.ChangeStreamEnabled,
		c.App.OutcomeCacheTTL, c.App.RecomputeConcurrency)
	r := c.Pool.Settings.Rules
	logging.Infof("Pool: File=%q, TieSurvives=%t, TieCredits=%t, UniqueTeams=%t, MissingPickEliminates=%t, ExtraAliases=%d",
		c.Pool.SettingsFile, r.TieSurvives, r.TieCreditsConfidence, r.UniqueTeams, r.MissingPickEliminates,
		len(c.Pool.Settings.Aliases))
	logging.Info("================================")
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
