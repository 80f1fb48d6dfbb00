package config_test

import (
	"testing"
	"time"

	"github.com/medilearn/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() config.Config {
	return config.Config{
		ServerPort: 8080,
		Database: config.DatabaseConfig{
			Driver:          config.DriverMongo,
			MongoURI:        "mongodb://localhost:27017/medilearn",
			ConnectAttempts: 3,
		},
		Session: config.SessionConfig{
			Secret:     testSecret,
			CookieName: "auth-token",
			TTL:        7 * 24 * time.Hour,
		},
		Content: config.ContentConfig{
			Timeout:        5 * time.Second,
			RequestsPerSec: 5,
		},
		Storage: config.StorageConfig{Backend: config.BackendNone},
		MQ:      config.MQConfig{Backend: config.BackendNone},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "port out of range",
			mutate:        func(c *config.Config) { c.ServerPort = 0 },
			expectedError: "SERVER_PORT",
		},
		{
			name:          "unknown driver",
			mutate:        func(c *config.Config) { c.Database.Driver = "sqlite" },
			expectedError: "DB_DRIVER",
		},
		{
			name:          "empty mongo uri",
			mutate:        func(c *config.Config) { c.Database.MongoURI = " " },
			expectedError: "MONGODB_URI",
		},
		{
			name: "postgres without host",
			mutate: func(c *config.Config) {
				c.Database.Driver = config.DriverPostgres
				c.Database.Host = ""
			},
			expectedError: "DB_HOST",
		},
		{
			name:          "missing secret",
			mutate:        func(c *config.Config) { c.Session.Secret = "" },
			expectedError: "SESSION_SECRET is required",
		},
		{
			name:          "short secret",
			mutate:        func(c *config.Config) { c.Session.Secret = "short" },
			expectedError: "at least 32 bytes",
		},
		{
			name:          "zero attempts",
			mutate:        func(c *config.Config) { c.Database.ConnectAttempts = 0 },
			expectedError: "DB_CONNECT_ATTEMPTS",
		},
		{
			name:          "unknown storage backend",
			mutate:        func(c *config.Config) { c.Storage.Backend = "s3" },
			expectedError: "STORAGE_BACKEND",
		},
		{
			name:          "unknown mq backend",
			mutate:        func(c *config.Config) { c.MQ.Backend = "kafka" },
			expectedError: "MQ_BACKEND",
		},
		{
			name: "mq without channel",
			mutate: func(c *config.Config) {
				c.MQ.Backend = config.BackendRabbitMQ
				c.MQ.ActivityChannel = ""
			},
			expectedError: "MQ_ACTIVITY_CHANNEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.ServerPort = -1
	cfg.Session.Secret = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_SECRET", testSecret)

	cfg := config.LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, config.DriverMongo, cfg.Database.Driver)
	assert.Equal(t, "mongodb://localhost:27017/medilearn", cfg.Database.MongoURI)
	assert.Equal(t, uint64(10), cfg.Database.MongoMaxPoolSize)
	assert.Equal(t, 3, cfg.Database.ConnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.Database.ConnectDelay)
	assert.Equal(t, "auth-token", cfg.Session.CookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, config.BackendNone, cfg.Storage.Backend)
	assert.Equal(t, config.BackendNone, cfg.MQ.Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SESSION_SECRET", testSecret)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://medilearn.example ,")
	t.Setenv("CONTENT_REQUESTS_PER_SEC", "2.5")
	t.Setenv("DB_CONNECT_ATTEMPTS", "not-a-number")

	cfg := config.LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.False(t, cfg.Session.Secure)
	assert.Equal(t, []string{"http://localhost:3000", "https://medilearn.example"}, cfg.Server.CORSOrigins)
	assert.InDelta(t, 2.5, cfg.Content.RequestsPerSec, 0.0001)
	assert.Equal(t, 3, cfg.Database.ConnectAttempts)
}
