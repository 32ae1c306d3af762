package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/auth"
	"github.com/redmonkez12/pheafer-api/internal/logging"
	"github.com/redmonkez12/pheafer-api/internal/user"
)

// Service validates input, applies the Gate and delegates to the Store
type Service struct {
	store  Store
	users  user.Store
	gate   *Gate
	logger *logging.Logger
}

func NewService(store Store, users user.Store, gate *Gate, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		users:  users,
		gate:   gate,
		logger: logger,
	}
}

// Create stores a new listing owned by p
func (s *Service) Create(ctx context.Context, p *auth.Principal, in Input) (*Listing, error) {
	if err := s.gate.Authenticate(p); err != nil {
		return nil, err
	}

	fields, err := in.Validate()
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, fields, p.UserID)
	if err != nil {
		return nil, err
	}

	s.attachCreator(ctx, created)
	return created, nil
}

// Get returns one listing. Malformed ids are reported as ErrNotFound.
func (s *Service) Get(ctx context.Context, rawID string) (*Listing, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	found, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.attachCreator(ctx, found)
	return found, nil
}

// List returns every listing, or those whose city contains the trimmed filter
// ignoring case.
func (s *Service) List(ctx context.Context, city string) ([]Listing, error) {
	return s.store.List(ctx, strings.TrimSpace(city))
}

// Update replaces every mutable field of a listing
func (s *Service) Update(ctx context.Context, p *auth.Principal, rawID string, in Input) (*Listing, error) {
	if err := s.gate.Authenticate(p); err != nil {
		return nil, err
	}

	fields, err := in.Validate()
	if err != nil {
		return nil, err
	}

	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, p, id); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.attachCreator(ctx, updated)
	return updated, nil
}

// Delete removes a listing
func (s *Service) Delete(ctx context.Context, p *auth.Principal, rawID string) error {
	if err := s.gate.Authenticate(p); err != nil {
		return err
	}

	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, p, id); err != nil {
		return err
	}

	return s.store.Delete(ctx, id)
}

func (s *Service) authorize(ctx context.Context, p *auth.Principal, id uuid.UUID) error {
	if !s.gate.RequiresExisting() {
		return s.gate.Authorize(p, nil)
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.gate.Authorize(p, existing)
}

// attachCreator resolves the creator projection. A missing creator is not an error.
func (s *Service) attachCreator(ctx context.Context, l *Listing) {
	if s.users == nil || l.CreatedBy == uuid.Nil {
		return
	}

	creator, err := s.users.GetByID(ctx, l.CreatedBy)
	if err != nil {
		if !errors.Is(err, user.ErrNotFound) {
			s.logger.Warn("failed to resolve listing creator", "listing_id", l.ID, "error", err)
		}
		return
	}
	l.Creator = creator.Summary()
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed id", ErrNotFound)
	}
	return id, nil
}
