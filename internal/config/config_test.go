package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:                   "3000",
		DBPassword:             "secure-password",
		DBSSLMode:              "require",
		DBMaxOpenConns:         20,
		DBMaxIdleConns:         5,
		RateLimitMax:           100,
		RateLimitWindowMinutes: 15,
		TracingSampleRatio:     1,
	}
}

func TestConfig_ValidateSSLMode(t *testing.T) {
	tests := []struct {
		name        string
		env         string
		sslMode     string
		expectError bool
	}{
		{"Production with empty SSL mode", "production", "", true},
		{"Production with disable SSL mode", "production", "disable", true},
		{"Production with require SSL mode", "production", "require", false},
		{"Prod with disable SSL mode", "prod", "disable", true},
		{"Prod with verify-full SSL mode", "prod", "verify-full", false},
		{"Development with disable SSL mode", "development", "disable", false},
		{"Test with empty SSL mode", "test", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = tt.env
			c.DBSSLMode = tt.sslMode

			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateProductionPassword(t *testing.T) {
	c := validConfig()
	c.Env = "production"
	c.DBPassword = defaultDBPassword
	assert.Error(t, c.Validate())

	c.DBPassword = ""
	assert.Error(t, c.Validate())
}

func TestConfig_ValidateLimits(t *testing.T) {
	c := validConfig()
	c.DBMaxIdleConns = 50
	assert.Error(t, c.Validate())

	c = validConfig()
	c.RateLimitMax = 0
	assert.Error(t, c.Validate())

	c = validConfig()
	c.TracingSampleRatio = 1.5
	assert.Error(t, c.Validate())

	c = validConfig()
	c.Port = ""
	assert.EqualError(t, c.Validate(), "PORT is required")
}

func TestLoadConfig_DefaultsAndNormalization(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "development")
	t.Setenv("DB_SSLMODE", "  DISABLE  ")
	t.Setenv("DB_NAME", "")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, "postgres", c.DBUser)
	assert.Equal(t, 100, c.RateLimitMax)
	assert.Equal(t, 15, c.RateLimitWindowMinutes)
	assert.Equal(t, "hybrid", c.DBSchemaMode)
	assert.True(t, c.IsDevelopment())
	assert.False(t, c.IsProduction())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "8080")
	t.Setenv("RATE_LIMIT_MAX", "7")
	t.Setenv("DB_READ_HOST", "replica.internal")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 7, c.RateLimitMax)
	assert.Contains(t, c.ReadDSN(), "host=replica.internal")
}

func TestDSN(t *testing.T) {
	c := &Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "pw", DBName: "access_request_db"}
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=access_request_db sslmode=disable", c.DSN())
	assert.Empty(t, c.ReadDSN())

	c.DBReadHost = "replica"
	assert.Equal(t, "host=replica port=5432 user=app password=pw dbname=access_request_db sslmode=disable", c.ReadDSN())
}
