package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	OAuth     OAuthConfig
	Logging   LoggingConfig
	Worker    WorkerConfig
	Dashboard DashboardConfig
}

// ServerConfig contains HTTP server configuration for the API
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	FrontendURL     string
	PublicURL       string
	Environment     string
	RateLimitRPS    float64
	RateLimitBurst  int
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// For SQLite
	Path string
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	JWTSecret          string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BCryptCost         int
}

// OAuthConfig contains OAuth provider configuration
type OAuthConfig struct {
	Google GoogleOAuthConfig
}

// GoogleOAuthConfig contains Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Enabled reports whether Google sign-in is configured
func (g GoogleOAuthConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != ""
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string
}

// WorkerConfig contains background job configuration
type WorkerConfig struct {
	AnalyticsEnabled  bool
	AnalyticsSchedule string
	SMSUnitCost       float64
}

// DashboardConfig contains configuration for the dashboard application
type DashboardConfig struct {
	Host            string
	Port            int
	APIBaseURL      string
	PublicURL       string
	PreferencesPath string
	RefreshSchedule string
	ColorScheme     string // platform preference: light or dark
	APITimeout      time.Duration
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// LoadDatabase loads configuration for tools that only need the database
func LoadDatabase() (*Config, error) {
	cfg := loadFromEnv()

	if cfg.Database.Driver != "sqlite" && cfg.Database.Driver != "postgres" {
		return nil, fmt.Errorf("invalid configuration: unsupported database driver: %s", cfg.Database.Driver)
	}

	return cfg, nil
}

// LoadDashboard loads configuration for the dashboard process, which never
// touches the database or signs tokens and so skips API validation
func LoadDashboard() (*Config, error) {
	cfg := loadFromEnv()

	if cfg.Dashboard.Port < 1 || cfg.Dashboard.Port > 65535 {
		return nil, fmt.Errorf("invalid configuration: invalid dashboard port: %d", cfg.Dashboard.Port)
	}
	if cfg.Dashboard.APIBaseURL == "" {
		return nil, fmt.Errorf("invalid configuration: API_BASE_URL must be set")
	}

	return cfg, nil
}

func loadFromEnv() *Config {
	// .env is optional
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
			PublicURL:       getEnv("PUBLIC_URL", "http://localhost:8080"),
			Environment:     getEnv("ENVIRONMENT", "development"),
			RateLimitRPS:    getEnvAsFloat("RATE_LIMIT_RPS", 100),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 200),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "reminderflow"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			Path:            getEnv("DB_PATH", "./reminderflow.db"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", ""),
			AccessTokenExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshTokenExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
			BCryptCost:         getEnvAsInt("BCRYPT_COST", 12),
		},
		OAuth: OAuthConfig{
			Google: GoogleOAuthConfig{
				ClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
				ClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
				RedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/v1/auth/google/callback"),
				Scopes: []string{
					"openid",
					"https://www.googleapis.com/auth/userinfo.email",
					"https://www.googleapis.com/auth/calendar.readonly",
				},
			},
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
		},
		Worker: WorkerConfig{
			AnalyticsEnabled:  getEnvAsBool("ANALYTICS_ROLLUP_ENABLED", true),
			AnalyticsSchedule: getEnv("ANALYTICS_ROLLUP_SCHEDULE", "@every 1h"),
			SMSUnitCost:       getEnvAsFloat("SMS_UNIT_COST", 0.0079),
		},
		Dashboard: DashboardConfig{
			Host:            getEnv("DASHBOARD_HOST", "127.0.0.1"),
			Port:            getEnvAsInt("DASHBOARD_PORT", 5173),
			APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:8080"),
			PublicURL:       getEnv("DASHBOARD_PUBLIC_URL", "http://localhost:5173"),
			PreferencesPath: getEnv("PREFERENCES_PATH", defaultPreferencesPath()),
			RefreshSchedule: getEnv("TOKEN_REFRESH_SCHEDULE", "@every 10m"),
			ColorScheme:     getEnv("COLOR_SCHEME", "light"),
			APITimeout:      getEnvAsDuration("API_TIMEOUT", 30*time.Second),
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Auth.BCryptCost < 4 || c.Auth.BCryptCost > 31 {
		return fmt.Errorf("invalid bcrypt cost: %d", c.Auth.BCryptCost)
	}

	return nil
}

func defaultPreferencesPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "preferences.yaml"
	}
	return filepath.Join(home, ".reminderflow", "preferences.yaml")
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
