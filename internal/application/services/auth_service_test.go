package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/logger"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:    "test-secret",
		ExpiresIn: time.Hour,
		Issuer:    "aria-reminders",
	}
}

func TestAuthService_IssueAndValidate(t *testing.T) {
	auth := NewAuthService(testJWTConfig(), logger.NewNop())

	token, expiresAt, err := auth.IssueToken("damon")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	owner, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "damon", owner)
}

func TestAuthService_IssueRequiresUser(t *testing.T) {
	auth := NewAuthService(testJWTConfig(), logger.NewNop())

	_, _, err := auth.IssueToken("")
	assert.True(t, entities.IsDomainError(err, entities.ErrCodeInvalid))
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	auth := NewAuthService(testJWTConfig(), logger.NewNop())

	otherCfg := testJWTConfig()
	otherCfg.Secret = "someone-else"
	forged, _, err := NewAuthService(otherCfg, logger.NewNop()).IssueToken("damon")
	require.NoError(t, err)

	expired := NewAuthService(testJWTConfig(), logger.NewNop())
	expired.clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, _, err := expired.IssueToken("damon")
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "damon"}})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"garbage":      "not.a.token",
		"wrong secret": forged,
		"expired":      stale,
		"alg none":     unsigned,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := auth.ValidateToken(token)
			require.Error(t, err)
			assert.True(t, entities.IsDomainError(err, entities.ErrCodeUnauthorized))
		})
	}
}
