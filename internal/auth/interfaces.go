package auth

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/user"
)

// TokenService defines the interface for token creation and validation.
// Implementations include PasetoService (PASETO v4.local) and JWTService (HS256).
type TokenService interface {
	CreateToken(userID uuid.UUID, role user.Role, duration time.Duration) (string, error)
	VerifyToken(tokenStr string) (*TokenClaims, error)
}

// Verifier turns a bearer token into the identity it carries
type Verifier interface {
	Verify(token string) (*Principal, error)
}

// RateLimiter throttles unauthenticated auth endpoints per client IP
type RateLimiter interface {
	CheckIPRateLimitWithPurpose(ctx context.Context, ip, purpose string) (bool, error)
	RecordIPRequestWithPurpose(ctx context.Context, ip, purpose string) error
}

// TokenClaims represents the claims stored in an access token
type TokenClaims struct {
	UserID    string    `json:"user_id"` // UUID stored as string in token
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// Principal is the verified identity behind a request
type Principal struct {
	UserID uuid.UUID
	Role   user.Role
}

// AuthTokens is the login response body
type AuthTokens struct {
	Token     string    `json:"token"`
	TokenType string    `json:"tokenType"`
	ExpiresIn int64     `json:"expiresIn"` // seconds
	ExpiresAt time.Time `json:"expiresAt"`
}

func principalFromClaims(claims *TokenClaims) (*Principal, error) {
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Principal{UserID: userID, Role: user.ParseRole(claims.Role)}, nil
}
