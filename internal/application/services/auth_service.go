package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aria/reminders/internal/domain/entities"
	"github.com/aria/reminders/internal/infrastructure/config"
	"github.com/aria/reminders/internal/infrastructure/logger"
)

// Claims represents the JWT claims. The subject is the reminder owner.
type Claims struct {
	jwt.RegisteredClaims
}

// AuthService issues and validates bearer tokens for the HTTP API
type AuthService struct {
	jwtConfig config.JWTConfig
	logger    *logger.Logger
	clock     func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(jwtConfig config.JWTConfig, logger *logger.Logger) *AuthService {
	return &AuthService{
		jwtConfig: jwtConfig,
		logger:    logger,
		clock:     time.Now,
	}
}

// IssueToken signs a token whose subject is userID
func (s *AuthService) IssueToken(userID string) (string, time.Time, error) {
	if userID == "" {
		return "", time.Time{}, entities.InvalidInput("user id is required", nil)
	}

	now := s.clock()
	expiresAt := now.Add(s.jwtConfig.ExpiresIn)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.jwtConfig.Issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	s.logger.LogSecurityEvent("token_issued", userID, "", map[string]interface{}{
		"expires_at": expiresAt.Format(time.RFC3339),
	})
	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the owner it was issued for
func (s *AuthService) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtConfig.Secret), nil
	}, jwt.WithIssuer(s.jwtConfig.Issuer), jwt.WithTimeFunc(s.clock))
	if err != nil {
		return "", entities.WrapError(entities.ErrCodeUnauthorized, "invalid token", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return "", entities.NewError(entities.ErrCodeUnauthorized, "invalid token claims")
	}

	return claims.Subject, nil
}
