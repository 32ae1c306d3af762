package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/redmonkez12/pheafer-api/internal/logging"
	"github.com/redmonkez12/pheafer-api/internal/user"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrInvalidEmailFormat = errors.New("invalid email format")
)

// Service handles registration, login and token verification
type Service struct {
	users         user.Store
	tokens        TokenService
	logger        *logging.Logger
	tokenDuration time.Duration
	bcryptCost    int

	// dummyHash is compared against on unknown emails so those logins
	// spend the same bcrypt time as real ones
	dummyHash []byte
}

func NewService(
	users user.Store,
	tokens TokenService,
	logger *logging.Logger,
	tokenDuration time.Duration,
	bcryptCost int,
) (*Service, error) {
	dummyHash, err := bcrypt.GenerateFromPassword([]byte("pheafer-dummy-password"), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to build dummy password hash: %w", err)
	}

	return &Service{
		users:         users,
		tokens:        tokens,
		logger:        logger,
		tokenDuration: tokenDuration,
		bcryptCost:    bcryptCost,
		dummyHash:     dummyHash,
	}, nil
}

// Register creates a new account. It never issues a token.
func (s *Service) Register(ctx context.Context, email, password, role string) (*user.User, error) {
	email = user.NormalizeEmail(email)

	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmailFormat
	}
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.users.Create(ctx, email, string(hash), user.ParseRole(role))
	if err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, user.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return newUser, nil
}

// Login authenticates a user and returns an access token. Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthTokens, error) {
	email = user.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existingUser, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// Spend the same bcrypt time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existingUser.ID, existingUser.Role, s.tokenDuration)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	return &AuthTokens{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.tokenDuration.Seconds()),
		ExpiresAt: time.Now().Add(s.tokenDuration).UTC(),
	}, nil
}

// Verify validates a bearer token and returns the identity it carries.
// Expired tokens yield ErrExpiredToken; every other failure ErrInvalidToken.
func (s *Service) Verify(token string) (*Principal, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	return principalFromClaims(claims)
}
