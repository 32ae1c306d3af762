package user

import (
	"context"
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := map[string]Role{
		"developer":     RoleDeveloper,
		" Developer ":   RoleDeveloper,
		"tenant":        RoleTenant,
		"":              RoleTenant,
		"administrator": RoleTenant,
	}
	for in, want := range tests {
		if got := ParseRole(in); got != want {
			t.Errorf("ParseRole(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  A@B.Com "); got != "a@b.com" {
		t.Fatalf("NormalizeEmail() = %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	created, err := store.Create(ctx, "a@b.com", "hash", RoleDeveloper)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := store.Create(ctx, "a@b.com", "other", RoleTenant); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	byEmail, err := store.GetByEmail(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != created.ID || byEmail.Role != RoleDeveloper {
		t.Fatalf("GetByEmail() = %+v, want %+v", byEmail, created)
	}

	byID, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if s := byID.Summary(); s.Email != "a@b.com" || s.Role != RoleDeveloper {
		t.Fatalf("Summary() = %+v", s)
	}

	if _, err := store.GetByEmail(ctx, "missing@b.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
