package listingcache

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/client"
	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// fakeAPI serves a fixed collection and records mutation calls
type fakeAPI struct {
	mu        sync.Mutex
	listings  []listing.Listing
	listErr   error
	mutateErr error
	listCalls int
	mutations int
	block     chan struct{}
}

func (f *fakeAPI) ListListings(_ context.Context, _ string) ([]listing.Listing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]listing.Listing, len(f.listings))
	copy(out, f.listings)
	return out, nil
}

func (f *fakeAPI) mutate() error {
	f.mu.Lock()
	f.mutations++
	block, err := f.block, f.mutateErr
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return err
}

func (f *fakeAPI) CreateListing(_ context.Context, _ *client.Session, fields listing.Fields) (*listing.Listing, error) {
	if err := f.mutate(); err != nil {
		return nil, err
	}
	return &listing.Listing{ID: uuid.New(), Fields: fields, CreatedAt: time.Now()}, nil
}

func (f *fakeAPI) UpdateListing(_ context.Context, _ *client.Session, id string, fields listing.Fields) (*listing.Listing, error) {
	if err := f.mutate(); err != nil {
		return nil, err
	}
	return &listing.Listing{ID: uuid.MustParse(id), Fields: fields}, nil
}

func (f *fakeAPI) DeleteListing(_ context.Context, _ *client.Session, _ string) error {
	return f.mutate()
}

func fields(name, city string, lat, lng float64) listing.Fields {
	return listing.Fields{
		Name: name, City: city, Latitude: lat, Longitude: lng, Price: 100, SquareFootage: 1000,
		Specs: listing.Specs{CeilingHeight: 20, DockDoors: 2, PowerCapacity: "200A", ZoningType: "M1"},
	}
}

func seed() []listing.Listing {
	return []listing.Listing{
		{ID: uuid.New(), Fields: fields("A", "Dallas", 32.78, -96.8)},
		{ID: uuid.New(), Fields: fields("B", "Chicago", 41.88, -87.63)},
		{ID: uuid.New(), Fields: fields("C", "Los Angeles", 34.05, -118.24)},
	}
}

func validForm(name, city string) Form {
	return Form{
		Name: name, City: city, Latitude: "30", Longitude: "-97", Price: "250000", SquareFootage: "5000",
		CeilingHeight: "28", DockDoors: "6", PowerCapacity: "480V", ZoningType: "Industrial",
	}
}

func setupTestCache(t *testing.T) (*Cache, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{listings: seed()}
	c := New(api)
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return c, api
}

func ids(ls []listing.Listing) []uuid.UUID {
	out := make([]uuid.UUID, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func TestLoadOnce(t *testing.T) {
	c, api := setupTestCache(t)

	if c.State() != StateLoaded {
		t.Fatalf("State() = %s", c.State())
	}
	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("second Load() error = %v", err)
	}
	if api.listCalls != 1 {
		t.Errorf("list called %d times, want 1", api.listCalls)
	}
	if got := c.ListView(); len(got) != 3 || got[0].Name != "A" {
		t.Errorf("ListView() = %+v", got)
	}
}

func TestLoadFailureStaysEmpty(t *testing.T) {
	api := &fakeAPI{listErr: &client.Error{Kind: client.KindNetwork, Message: "connection refused"}}
	c := New(api)

	if err := c.Load(context.Background()); err == nil {
		t.Fatal("expected Load() to fail")
	}
	if c.State() != StateEmpty || len(c.ListView()) != 0 {
		t.Fatalf("state = %s, listings = %d", c.State(), len(c.ListView()))
	}
	if api.listCalls != 1 {
		t.Errorf("list called %d times, want no retry", api.listCalls)
	}
}

func TestCreateAppendsServerRecord(t *testing.T) {
	c, _ := setupTestCache(t)
	before := ids(c.ListView())

	c.BeginCreate()
	if c.State() != StatePendingCreate {
		t.Fatalf("State() = %s", c.State())
	}

	res := c.Create(context.Background(), nil, validForm("W1", "Dallas"))
	if !res.IsOk() {
		t.Fatalf("Create() = %+v", res)
	}

	after := c.ListView()
	if len(after) != len(before)+1 || after[len(after)-1].ID != res.Listing.ID {
		t.Fatalf("record not appended: %v", ids(after))
	}
	for i, id := range before {
		if after[i].ID != id {
			t.Fatal("existing order changed")
		}
	}
	if _, open := c.PendingCreate(); open || c.State() != StateLoaded {
		t.Error("form should be cleared on success")
	}
}

func TestFailedMutationKeepsCollectionAndForm(t *testing.T) {
	c, api := setupTestCache(t)
	api.mutateErr = &client.Error{Status: http.StatusBadRequest, Kind: client.KindValidation, Message: "price is required"}
	before := c.ListView()

	form := validForm("W1", "Dallas")
	res := c.Create(context.Background(), nil, form)
	if res.IsOk() || res.Kind != client.KindValidation || res.Message != "price is required" {
		t.Fatalf("Create() = %+v", res)
	}
	if got, open := c.PendingCreate(); !open || got != form {
		t.Errorf("create form not kept: %+v", got)
	}

	target := before[1]
	edit := validForm("B2", "Chicago")
	res = c.Update(context.Background(), nil, target.ID, edit)
	if res.IsOk() || res.Message != "price is required" {
		t.Fatalf("Update() = %+v", res)
	}
	if id, got, open := c.PendingEdit(); !open || id != target.ID || got != edit {
		t.Errorf("edit form not kept")
	}

	if res := c.Delete(context.Background(), nil, target.ID); res.IsOk() {
		t.Fatalf("Delete() = %+v", res)
	}

	after := c.ListView()
	if len(after) != len(before) {
		t.Fatalf("collection changed: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if after[i].ID != before[i].ID || after[i].Fields != before[i].Fields {
			t.Fatalf("record %d changed", i)
		}
	}
}

func TestInvalidFormNeverReachesServer(t *testing.T) {
	c, api := setupTestCache(t)

	form := validForm("W1", "Dallas")
	form.DockDoors = ""
	res := c.Create(context.Background(), nil, form)

	if res.IsOk() || res.Kind != client.KindValidation || res.Message != "specs.dockDoors is required" {
		t.Fatalf("Create() = %+v", res)
	}
	if api.mutations != 0 {
		t.Errorf("server called %d times", api.mutations)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	c, _ := setupTestCache(t)
	before := c.ListView()
	target := before[1]

	form, ok := c.BeginEdit(target.ID)
	if !ok || form.Name != "B" || form.DockDoors != "2" || c.State() != StatePendingEdit {
		t.Fatalf("BeginEdit() = %+v, %v", form, ok)
	}
	form.Name = "B2"

	res := c.Update(context.Background(), nil, target.ID, form)
	if !res.IsOk() {
		t.Fatalf("Update() = %+v", res)
	}

	after := c.ListView()
	if len(after) != 3 || after[1].ID != target.ID || after[1].Name != "B2" {
		t.Fatalf("unexpected collection: %+v", after)
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Error("other records changed")
	}
	if _, _, open := c.PendingEdit(); open {
		t.Error("edit form should be cleared on success")
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	c, _ := setupTestCache(t)
	before := c.ListView()
	target := before[0]
	c.Focus(target.ID)
	c.BeginEdit(target.ID)

	res := c.Delete(context.Background(), nil, target.ID)
	if !res.IsOk() || res.Listing.ID != target.ID {
		t.Fatalf("Delete() = %+v", res)
	}

	after := c.ListView()
	if len(after) != 2 || after[0].ID != before[1].ID || after[1].ID != before[2].ID {
		t.Fatalf("unexpected collection: %v", ids(after))
	}
	if _, ok := c.DetailView(target.ID); ok {
		t.Error("deleted listing still visible in detail view")
	}
	if _, _, open := c.PendingEdit(); open {
		t.Error("edit of a deleted listing should be closed")
	}
	if c.MapView().Center == (LatLng{Lat: target.Latitude, Lng: target.Longitude}) {
		t.Error("map still centered on deleted listing")
	}
}

func TestSecondMutationWhileInFlight(t *testing.T) {
	c, api := setupTestCache(t)
	api.block = make(chan struct{})

	done := make(chan Result)
	go func() {
		done <- c.Create(context.Background(), nil, validForm("W1", "Dallas"))
	}()

	// wait until the first request reaches the server
	for {
		api.mu.Lock()
		n := api.mutations
		api.mu.Unlock()
		if n == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	res := c.Delete(context.Background(), nil, c.ListView()[0].ID)
	if res.IsOk() || !errors.Is(res.Err(), ErrMutationInFlight) || res.Kind != KindBusy {
		t.Fatalf("second mutation = %+v", res)
	}

	close(api.block)
	if first := <-done; !first.IsOk() {
		t.Fatalf("first mutation = %+v", first)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	if api.mutations != 1 {
		t.Errorf("server saw %d mutations, want 1", api.mutations)
	}
	if len(c.ListView()) != 4 {
		t.Errorf("collection has %d listings, want 4", len(c.ListView()))
	}
}

func TestFocusAndMapView(t *testing.T) {
	c, _ := setupTestCache(t)
	listings := c.ListView()

	view := c.MapView()
	if view.Center != DefaultCenter || len(view.Markers) != 3 {
		t.Fatalf("initial map = %+v", view)
	}

	chicago := listings[1]
	if !c.Focus(chicago.ID) {
		t.Fatal("Focus() = false")
	}
	view = c.MapView()
	if view.Center != (LatLng{Lat: 41.88, Lng: -87.63}) || view.CityFilter != "Chicago" {
		t.Fatalf("focused map = %+v", view)
	}
	if len(view.Markers) != 1 || view.Markers[0].ID != chicago.ID {
		t.Fatalf("markers = %+v", view.Markers)
	}
	if len(c.ListView()) != 3 {
		t.Fatal("focus must not change the collection")
	}

	c.SetCityFilter(" los ")
	view = c.MapView()
	if view.Center != (LatLng{Lat: 34.05, Lng: -118.24}) || len(view.Markers) != 1 {
		t.Fatalf("search map = %+v", view)
	}

	c.SetCityFilter("Paris")
	view = c.MapView()
	if view.Center != DefaultCenter || len(view.Markers) != 0 {
		t.Fatalf("no-match map = %+v", view)
	}

	if c.Focus(uuid.New()) {
		t.Error("focus on unknown id should fail")
	}
}

func TestFormRoundTripsThroughValidate(t *testing.T) {
	l := listing.Listing{ID: uuid.New(), Fields: fields("W1", "Dallas", 32.78, -96.8)}

	got, err := FormFromListing(l).Validate()
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != l.Fields {
		t.Fatalf("got %+v, want %+v", got, l.Fields)
	}
}
