package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.Equal(t, "@every 1h", cfg.Worker.AnalyticsSchedule)
	assert.False(t, cfg.OAuth.Google.Enabled())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("JWT_ACCESS_EXPIRY", "5m")
	t.Setenv("ANALYTICS_ROLLUP_ENABLED", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenExpiry)
	assert.False(t, cfg.Worker.AnalyticsEnabled)
	assert.Equal(t, 2.5, cfg.Server.RateLimitRPS)
	assert.True(t, cfg.OAuth.Google.Enabled())
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SERVER_PORT", "eighty")
	t.Setenv("JWT_ACCESS_EXPIRY", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenExpiry)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Driver: "sqlite"},
			Auth:     AuthConfig{JWTSecret: "secret", BCryptCost: 10},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: "invalid server port"},
		{name: "bad driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: "unsupported database driver"},
		{name: "bad cost", mutate: func(c *Config) { c.Auth.BCryptCost = 2 }, wantErr: "invalid bcrypt cost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDashboard(t *testing.T) {
	t.Setenv("DASHBOARD_PORT", "0")
	_, err := LoadDashboard()
	require.Error(t, err)

	t.Setenv("DASHBOARD_PORT", "5174")
	t.Setenv("COLOR_SCHEME", "dark")
	cfg, err := LoadDashboard()
	require.NoError(t, err)
	assert.Equal(t, 5174, cfg.Dashboard.Port)
	assert.Equal(t, "dark", cfg.Dashboard.ColorScheme)
}
