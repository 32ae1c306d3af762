package config

import (
	"strings"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PASETO_KEY", testKey)

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Auth.TokenDuration != 8*time.Hour {
		t.Errorf("TokenDuration = %v, want 8h", cfg.Auth.TokenDuration)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.Auth.BcryptCost)
	}
	if cfg.Auth.TokenFormat != TokenFormatPaseto {
		t.Errorf("TokenFormat = %q, want paseto", cfg.Auth.TokenFormat)
	}
	if cfg.Listings.MutationPolicy != "any-authenticated" {
		t.Errorf("MutationPolicy = %q", cfg.Listings.MutationPolicy)
	}
	if cfg.Redis.Enabled() {
		t.Errorf("Redis should be disabled without REDIS_HOST")
	}
	if !cfg.Server.IsDevelopment() {
		t.Errorf("default env should be dev")
	}
}

func TestFromEnvValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "short paseto key",
			env:     map[string]string{"PASETO_KEY": "short"},
			wantErr: "PASETO_KEY",
		},
		{
			name:    "short jwt secret",
			env:     map[string]string{"AUTH_TOKEN_FORMAT": "jwt", "JWT_SECRET": "short"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown token format",
			env:     map[string]string{"AUTH_TOKEN_FORMAT": "opaque", "PASETO_KEY": testKey},
			wantErr: "AUTH_TOKEN_FORMAT",
		},
		{
			name:    "weak bcrypt cost",
			env:     map[string]string{"PASETO_KEY": testKey, "BCRYPT_COST": "4"},
			wantErr: "BCRYPT_COST",
		},
		{
			name:    "unknown driver",
			env:     map[string]string{"PASETO_KEY": testKey, "DB_DRIVER": "mongo"},
			wantErr: "DB_DRIVER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("FromEnv() error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestFromEnvJWT(t *testing.T) {
	t.Setenv("AUTH_TOKEN_FORMAT", "JWT")
	t.Setenv("JWT_SECRET", testKey+testKey)
	t.Setenv("TOKEN_DURATION", "60")
	t.Setenv("TRUSTED_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if cfg.Auth.TokenFormat != TokenFormatJWT {
		t.Errorf("TokenFormat = %q", cfg.Auth.TokenFormat)
	}
	if cfg.Auth.TokenDuration != time.Minute {
		t.Errorf("TokenDuration = %v", cfg.Auth.TokenDuration)
	}
	if got := cfg.Server.TrustedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("TrustedOrigins = %v", got)
	}
}
