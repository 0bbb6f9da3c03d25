package services_test

import (
	"testing"
	"time"

	"prime-slot-backend/internal/chain"
	"prime-slot-backend/internal/config"
	"prime-slot-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService(t *testing.T) {
	svc := services.NewJWTService(&config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour})

	token, claims, err := svc.GenerateToken(addr(4))
	require.NoError(t, err)
	assert.NotEmpty(t, claims.SessionID)

	parsed, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, addr(4).String(), parsed.Address)
	assert.Equal(t, claims.SessionID, parsed.SessionID)

	other := services.NewJWTService(&config.Config{JWTSecret: "another-secret"})
	_, err = other.ValidateToken(token)
	assert.Error(t, err, "token signed with a different secret")

	_, err = svc.ValidateToken(token + "x")
	assert.Error(t, err)
}

func TestJWTService_DefaultTTL(t *testing.T) {
	svc := services.NewJWTService(&config.Config{JWTSecret: "test-secret", JWTTTL: -time.Minute})
	// A non-positive TTL falls back to the default lifetime.
	token, _, err := svc.GenerateToken(addr(4))
	require.NoError(t, err)
	_, err = svc.ValidateToken(token)
	assert.NoError(t, err)
}

func TestNewOracle(t *testing.T) {
	trial := services.NewOracle(&config.Config{Primality: config.PrimalityTrial}, nil)
	assert.True(t, trial.IsPrime(1033))

	mr := services.NewOracle(&config.Config{Primality: config.PrimalityMillerRabin, MillerRabinRounds: 3}, &chain.FixedClock{Unix: 1_700_000_000})
	assert.True(t, mr.IsPrime(1033))
	assert.False(t, mr.IsPrime(1035))
}
