package auth

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/user"
)

var testKey = bytes.Repeat([]byte("k"), 32)

func newTestTokenServices(t *testing.T) map[string]TokenService {
	t.Helper()

	pasetoSvc, err := NewPasetoService(testKey)
	if err != nil {
		t.Fatalf("NewPasetoService() error = %v", err)
	}
	jwtSvc, err := NewJWTService(testKey)
	if err != nil {
		t.Fatalf("NewJWTService() error = %v", err)
	}
	return map[string]TokenService{"paseto": pasetoSvc, "jwt": jwtSvc}
}

func TestTokenRoundTrip(t *testing.T) {
	for name, svc := range newTestTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			userID := uuid.New()

			token, err := svc.CreateToken(userID, user.RoleDeveloper, 8*time.Hour)
			if err != nil {
				t.Fatalf("CreateToken() error = %v", err)
			}
			if token == "" {
				t.Fatal("expected non-empty token")
			}

			claims, err := svc.VerifyToken(token)
			if err != nil {
				t.Fatalf("VerifyToken() error = %v", err)
			}
			if claims.UserID != userID.String() {
				t.Errorf("UserID = %q, want %q", claims.UserID, userID)
			}
			if claims.Role != string(user.RoleDeveloper) {
				t.Errorf("Role = %q, want developer", claims.Role)
			}
			if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != 8*time.Hour {
				t.Errorf("lifetime = %v, want 8h", got)
			}
		})
	}
}

func TestTokenRejectsTamperedAndEmpty(t *testing.T) {
	for name, svc := range newTestTokenServices(t) {
		t.Run(name, func(t *testing.T) {
			token, err := svc.CreateToken(uuid.New(), user.RoleTenant, time.Hour)
			if err != nil {
				t.Fatalf("CreateToken() error = %v", err)
			}

			tampered := []byte(token)
			last := len(tampered) - 2
			if tampered[last] == 'A' {
				tampered[last] = 'B'
			} else {
				tampered[last] = 'A'
			}

			if _, err := svc.VerifyToken(string(tampered)); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("tampered token: got %v, want ErrInvalidToken", err)
			}
			if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("garbage token: got %v, want ErrInvalidToken", err)
			}
			if _, err := svc.VerifyToken(""); !errors.Is(err, ErrMissingToken) {
				t.Errorf("empty token: got %v, want ErrMissingToken", err)
			}
		})
	}
}

func TestTokenFromOtherKeyIsRejected(t *testing.T) {
	other := bytes.Repeat([]byte("z"), 32)

	pasetoA, _ := NewPasetoService(testKey)
	pasetoB, _ := NewPasetoService(other)
	token, _ := pasetoA.CreateToken(uuid.New(), user.RoleTenant, time.Hour)
	if _, err := pasetoB.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("paseto: got %v, want ErrInvalidToken", err)
	}

	jwtA, _ := NewJWTService(testKey)
	jwtB, _ := NewJWTService(other)
	token, _ = jwtA.CreateToken(uuid.New(), user.RoleTenant, time.Hour)
	if _, err := jwtB.VerifyToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("jwt: got %v, want ErrInvalidToken", err)
	}
}

func TestPasetoExpiry(t *testing.T) {
	svc, _ := NewPasetoService(testKey)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.CreateToken(uuid.New(), user.RoleTenant, 8*time.Hour)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	svc.now = func() time.Time { return issued.Add(8*time.Hour - time.Minute) }
	if _, err := svc.VerifyToken(token); err != nil {
		t.Fatalf("token should still be valid: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(8*time.Hour + time.Second) }
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("got %v, want ErrExpiredToken", err)
	}
}

func TestJWTExpiry(t *testing.T) {
	svc, _ := NewJWTService(testKey)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.CreateToken(uuid.New(), user.RoleTenant, 8*time.Hour)
	if err != nil {
		t.Fatalf("CreateToken() error = %v", err)
	}

	svc.now = func() time.Time { return issued.Add(8*time.Hour + time.Minute) }
	if _, err := svc.VerifyToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("got %v, want ErrExpiredToken", err)
	}
}

func TestNewTokenServiceKeyLength(t *testing.T) {
	if _, err := NewPasetoService([]byte("short")); err == nil {
		t.Error("expected error for short paseto key")
	}
	if _, err := NewJWTService([]byte("short")); err == nil {
		t.Error("expected error for short jwt secret")
	}
}
