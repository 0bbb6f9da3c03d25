package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, PrimalityMillerRabin, cfg.Primality)
	assert.Equal(t, 5, cfg.MillerRabinRounds)
	assert.Equal(t, 400*time.Millisecond, cfg.SlotDuration)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.False(t, cfg.AllowAirdrop)
	assert.Equal(t, int64(1_700_000_000), cfg.Genesis().Unix())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("PRIMALITY", "trial")
	t.Setenv("SLOT_DURATION", "1s")
	t.Setenv("ALLOW_AIRDROP", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, PrimalityTrial, cfg.Primality)
	assert.Equal(t, time.Second, cfg.SlotDuration)
	assert.True(t, cfg.AllowAirdrop)
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"STORE_BACKEND":       "etcd",
		"PRIMALITY":           "aks",
		"MILLER_RABIN_ROUNDS": "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("ENV", "production")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	_, err = Load()
	assert.NoError(t, err)
}
