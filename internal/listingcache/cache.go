// Package listingcache keeps a client-side copy of the listing collection in
// step with the server and derives the list, map and detail views from it.
package listingcache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/client"
	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// API is the part of client.Client the cache talks to
type API interface {
	ListListings(ctx context.Context, city string) ([]listing.Listing, error)
	CreateListing(ctx context.Context, s *client.Session, fields listing.Fields) (*listing.Listing, error)
	UpdateListing(ctx context.Context, s *client.Session, id string, fields listing.Fields) (*listing.Listing, error)
	DeleteListing(ctx context.Context, s *client.Session, id string) error
}

type State int

const (
	StateEmpty State = iota
	StateLoaded
	StatePendingCreate
	StatePendingEdit
)

func (s State) String() string {
	switch s {
	case StateLoaded:
		return "loaded"
	case StatePendingCreate:
		return "pending-create"
	case StatePendingEdit:
		return "pending-edit"
	default:
		return "empty"
	}
}

// Cache owns the one collection every view is projected from. It is safe for
// concurrent use and allows one mutation in flight at a time.
type Cache struct {
	api API

	mu         sync.RWMutex
	loaded     bool
	listings   []listing.Listing
	cityFilter string
	focusID    uuid.UUID
	createForm *Form
	editID     uuid.UUID
	editForm   *Form
	inFlight   bool
}

func New(api API) *Cache {
	return &Cache{api: api}
}

// State reports the lifecycle state. An open edit form outranks an open
// create form.
func (c *Cache) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case !c.loaded:
		return StateEmpty
	case c.editForm != nil:
		return StatePendingEdit
	case c.createForm != nil:
		return StatePendingCreate
	default:
		return StateLoaded
	}
}

// Load fetches the unfiltered collection. Once loaded it does nothing. On
// failure the cache stays empty and the error is returned; it is not retried.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	listings, err := c.api.ListListings(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		c.listings = listings
		c.loaded = true
	}
	return nil
}

// BeginCreate opens an empty create form
func (c *Cache) BeginCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createForm = &Form{}
}

// BeginEdit opens an edit form pre-filled from the cached listing
func (c *Cache) BeginEdit(id uuid.UUID) (Form, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(id)
	if i < 0 {
		return Form{}, false
	}
	f := FormFromListing(c.listings[i])
	c.editID, c.editForm = id, &f
	return f, true
}

// PendingCreate returns the open create form, if any
func (c *Cache) PendingCreate() (Form, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.createForm == nil {
		return Form{}, false
	}
	return *c.createForm, true
}

// PendingEdit returns the open edit form and the listing it edits, if any
func (c *Cache) PendingEdit() (uuid.UUID, Form, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.editForm == nil {
		return uuid.Nil, Form{}, false
	}
	return c.editID, *c.editForm, true
}

func (c *Cache) CancelCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.createForm = nil
}

func (c *Cache) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editID, c.editForm = uuid.Nil, nil
}

// Create submits f. On success exactly the returned record is appended and
// the form is cleared; on failure the collection is untouched and the form
// stays open.
func (c *Cache) Create(ctx context.Context, s *client.Session, f Form) Result {
	if err := c.begin(); err != nil {
		return Failed(err)
	}
	defer c.end()

	c.mu.Lock()
	c.createForm = &f
	c.mu.Unlock()

	fields, err := f.Validate()
	if err != nil {
		return Failed(err)
	}

	created, err := c.api.CreateListing(ctx, s, fields)
	if err != nil {
		return Failed(err)
	}

	c.mu.Lock()
	c.listings = append(c.listings, *created)
	c.createForm = nil
	c.mu.Unlock()

	return Ok(created)
}

// Update submits f for listing id and replaces that one record in place
func (c *Cache) Update(ctx context.Context, s *client.Session, id uuid.UUID, f Form) Result {
	if err := c.begin(); err != nil {
		return Failed(err)
	}
	defer c.end()

	c.mu.Lock()
	c.editID, c.editForm = id, &f
	c.mu.Unlock()

	fields, err := f.Validate()
	if err != nil {
		return Failed(err)
	}

	updated, err := c.api.UpdateListing(ctx, s, id.String(), fields)
	if err != nil {
		return Failed(err)
	}

	c.mu.Lock()
	if i := c.find(updated.ID); i >= 0 {
		c.listings[i] = *updated
	}
	c.editID, c.editForm = uuid.Nil, nil
	c.mu.Unlock()

	return Ok(updated)
}

// Delete removes listing id on the server and then from the collection
func (c *Cache) Delete(ctx context.Context, s *client.Session, id uuid.UUID) Result {
	if err := c.begin(); err != nil {
		return Failed(err)
	}
	defer c.end()

	if err := c.api.DeleteListing(ctx, s, id.String()); err != nil {
		return Failed(err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var removed *listing.Listing
	if i := c.find(id); i >= 0 {
		l := c.listings[i]
		removed = &l
		c.listings = append(c.listings[:i], c.listings[i+1:]...)
	}
	if c.focusID == id {
		c.focusID = uuid.Nil
	}
	if c.editID == id {
		c.editID, c.editForm = uuid.Nil, nil
	}

	if removed == nil {
		removed = &listing.Listing{ID: id}
	}
	return Ok(removed)
}

// Focus centers the map on listing id and narrows the city filter to its
// city. The collection is not modified.
func (c *Cache) Focus(id uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(id)
	if i < 0 {
		return false
	}
	c.focusID = id
	c.cityFilter = c.listings[i].City
	return true
}

// SetCityFilter replaces the map filter and drops any focus so the map
// centers on the first match
func (c *Cache) SetCityFilter(city string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cityFilter = strings.TrimSpace(city)
	c.focusID = uuid.Nil
}

func (c *Cache) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inFlight {
		return ErrMutationInFlight
	}
	c.inFlight = true
	return nil
}

func (c *Cache) end() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

// find returns the index of id or -1. Callers hold mu.
func (c *Cache) find(id uuid.UUID) int {
	if id == uuid.Nil {
		return -1
	}
	for i := range c.listings {
		if c.listings[i].ID == id {
			return i
		}
	}
	return -1
}
