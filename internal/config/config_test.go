package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Run("RequiresJWTSecret", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "JWT_SECRET")
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 8080, cfg.HTTPPort)
		assert.Equal(t, 3, cfg.ReaderMaxItems)
		assert.False(t, cfg.AtomicLoanWrites)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("Overrides", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("READERS_MAX_ITEMS_AT_ONCE", "5")
		t.Setenv("LIBRARY_ATOMIC_WRITES", "true")
		t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, 5, cfg.ReaderMaxItems)
		assert.True(t, cfg.AtomicLoanWrites)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("InvalidInteger", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("READERS_MAX_ITEMS_AT_ONCE", "three")

		_, err := LoadConfig()
		assert.ErrorContains(t, err, "READERS_MAX_ITEMS_AT_ONCE")
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		HTTPPort:       70000,
		DBMaxConns:     1,
		LogLevel:       "verbose",
		LogFormat:      "json",
		JWTSecret:      "short",
		ReaderMaxItems: 0,
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "READERS_MAX_ITEMS_AT_ONCE")
	assert.NotContains(t, err.Error(), "LOG_FORMAT")
	assert.NotContains(t, err.Error(), "ADMIN_")

	t.Run("AdminPairIncomplete", func(t *testing.T) {
		cfg := &Config{
			HTTPPort:       8080,
			DBMaxConns:     1,
			LogLevel:       "info",
			LogFormat:      "text",
			JWTSecret:      "0123456789abcdef0123456789abcdef",
			ReaderMaxItems: 3,
			RateLimitRPS:   1,
			RateLimitBurst: 1,
			AdminEmail:     "root@library.test",
		}
		assert.ErrorContains(t, cfg.Validate(), "ADMIN_EMAIL and ADMIN_PASSWORD")

		cfg.AdminPassword = "s3cret-enough"
		assert.NoError(t, cfg.Validate())
	})
}
