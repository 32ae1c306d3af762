package listing

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps listings in process memory in insertion order. It backs
// DB_DRIVER=memory and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	listings []Listing
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, fields Fields, createdBy uuid.UUID) (*Listing, error) {
	l := Listing{
		ID:        uuid.New(),
		Fields:    fields,
		CreatedAt: m.now().UTC(),
		CreatedBy: createdBy,
	}

	m.mu.Lock()
	m.listings = append(m.listings, l)
	m.mu.Unlock()

	return &l, nil
}

func (m *MemoryStore) GetByID(_ context.Context, id uuid.UUID) (*Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	l := m.listings[i]
	return &l, nil
}

func (m *MemoryStore) List(_ context.Context, city string) ([]Listing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(city)
	out := make([]Listing, 0, len(m.listings))
	for _, l := range m.listings {
		if needle == "" || strings.Contains(strings.ToLower(l.City), needle) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, id uuid.UUID, fields Fields) (*Listing, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	m.listings[i].Fields = fields
	l := m.listings[i]
	return &l, nil
}

func (m *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.listings = append(m.listings[:i], m.listings[i+1:]...)
	return nil
}

func (m *MemoryStore) indexOf(id uuid.UUID) int {
	for i := range m.listings {
		if m.listings[i].ID == id {
			return i
		}
	}
	return -1
}
