package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	accessTokenTTL = 1 * time.Hour
	accessPrefix   = "access:"
	issuer         = "speshway-platform"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrRevokedToken = errors.New("token revoked or expired")
)

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 access tokens. Every issued token's
// JTI is stored in Redis so it can be revoked before it expires.
type TokenManager struct {
	secret []byte
	rdb    *redis.Client
	ttl    time.Duration
}

func NewTokenManager(secret string, rdb *redis.Client) (*TokenManager, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("ACCESS_SECRET must be configured and at least 32 characters")
	}
	if rdb == nil {
		return nil, errors.New("redis client is required for token revocation")
	}
	return &TokenManager{secret: []byte(secret), rdb: rdb, ttl: accessTokenTTL}, nil
}

func (m *TokenManager) IssueAccessToken(ctx context.Context, userID, role string) (string, time.Time, error) {
	now := time.Now()
	jti := uuid.NewString()
	exp := now.Add(m.ttl)

	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	if err := m.rdb.Set(ctx, accessPrefix+jti, userID, m.ttl).Err(); err != nil {
		return "", time.Time{}, fmt.Errorf("store token id: %w", err)
	}

	return signed, exp, nil
}

func (m *TokenManager) ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Prevent algorithm confusion attacks
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	exists, err := m.rdb.Exists(ctx, accessPrefix+claims.ID).Result()
	if err != nil || exists != 1 {
		return nil, ErrRevokedToken
	}

	return claims, nil
}

func (m *TokenManager) RevokeToken(ctx context.Context, jti string) error {
	return m.rdb.Del(ctx, accessPrefix+jti).Err()
}
