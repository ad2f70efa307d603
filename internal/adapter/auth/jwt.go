package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/ports"
)

const clockSkew = 2 * time.Minute

type claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver resolves callers from HS256 bearer tokens signed with a shared
// secret by the upstream auth service.
type JWTResolver struct {
	signingKey []byte
	now        func() time.Time
}

var _ ports.IdentityResolver = (*JWTResolver)(nil)

func NewJWTResolver(secret string) *JWTResolver {
	return &JWTResolver{signingKey: []byte(secret), now: time.Now}
}

func (r *JWTResolver) ResolveIdentity(_ context.Context, token string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return r.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithLeeway(clockSkew),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		zap.L().Debug("token rejected", zap.Error(err))
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	userID := c.UserID
	if userID == "" {
		userID = c.Subject
	}
	if userID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}

	return domain.Identity{UserID: userID}, nil
}

// IssueToken signs a token for userID. The API never issues tokens itself;
// this backs the development token command and tests.
func (r *JWTResolver) IssueToken(userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", errors.New("user id is required")
	}

	now := r.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	})

	signed, err := token.SignedString(r.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
