package listing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/redmonkez12/pheafer-api/internal/auth"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("only the creator of a listing may modify it")
)

// Policy decides who may update or delete an existing listing
type Policy string

const (
	PolicyAnyAuthenticated Policy = "any-authenticated"
	PolicyCreatorOnly      Policy = "creator-only"
)

// ParsePolicy accepts the LISTING_MUTATION_POLICY values. Empty means
// any-authenticated.
func ParsePolicy(raw string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(raw))); p {
	case "", PolicyAnyAuthenticated:
		return PolicyAnyAuthenticated, nil
	case PolicyCreatorOnly:
		return PolicyCreatorOnly, nil
	default:
		return "", fmt.Errorf("unknown listing mutation policy %q", raw)
	}
}

// Gate guards mutations. Reads never pass through it.
type Gate struct {
	policy Policy
}

func NewGate(policy Policy) *Gate {
	return &Gate{policy: policy}
}

// RequiresExisting reports whether Authorize needs the stored listing
func (g *Gate) RequiresExisting() bool {
	return g.policy == PolicyCreatorOnly
}

// Authenticate rejects callers without a verified identity
func (g *Gate) Authenticate(p *auth.Principal) error {
	if p == nil {
		return ErrUnauthenticated
	}
	return nil
}

// Authorize checks that p may modify existing
func (g *Gate) Authorize(p *auth.Principal, existing *Listing) error {
	if err := g.Authenticate(p); err != nil {
		return err
	}
	if g.policy == PolicyCreatorOnly && (existing == nil || existing.CreatedBy != p.UserID) {
		return ErrForbidden
	}
	return nil
}
