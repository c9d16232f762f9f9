package config

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, "postgres", cfg.Database.Password)
	assert.Equal(t, "postgres", cfg.Database.Name)
	assert.Equal(t, "damon", cfg.App.DefaultUser)
	assert.Equal(t, "America/Los_Angeles", cfg.App.Timezone)
	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, time.Minute, cfg.Security.RateLimitWindow)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "6543")
	t.Setenv("POSTGRES_USER", "aria")
	t.Setenv("POSTGRES_PASSWORD", "s3cret")
	t.Setenv("POSTGRES_DB", "assistant")
	t.Setenv("ARIA_USER", "sam")
	t.Setenv("ARIA_TIMEZONE", "Europe/Berlin")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=db.internal port=6543 user=aria password=s3cret dbname=assistant sslmode=disable", cfg.Database.GetDSN())
	assert.Equal(t, "sam", cfg.App.DefaultUser)
	assert.Equal(t, "Europe/Berlin", cfg.App.Timezone)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 3, cfg.Redis.ConnectAttempts)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("ARIA_TIMEZONE", "Nowhere/Special")
		_, err := Load()
		assert.ErrorContains(t, err, "invalid timezone")
	})

	t.Run("store driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "sqlite")
		_, err := Load()
		assert.ErrorContains(t, err, "unknown store driver")
	})
}

func TestValidateForServer(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Error(t, cfg.ValidateForServer())

	cfg.JWT.Secret = "a-real-secret"
	assert.NoError(t, cfg.ValidateForServer())

	cfg.Server.Port = 0
	assert.Error(t, cfg.ValidateForServer())
}
