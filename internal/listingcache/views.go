package listingcache

import (
	"strings"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// DefaultCenter is the map center when nothing is focused or matched
var DefaultCenter = LatLng{Lat: 37.0902, Lng: -95.7129}

type LatLng struct {
	Lat float64
	Lng float64
}

// Marker is one pin on the map
type Marker struct {
	ID       uuid.UUID
	Name     string
	City     string
	Position LatLng
}

// MapView is the map projection: markers for listings matching the city
// filter and the point the map is centered on
type MapView struct {
	Center     LatLng
	CityFilter string
	Markers    []Marker
}

// ListView returns every cached listing in server order
func (c *Cache) ListView() []listing.Listing {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]listing.Listing, len(c.listings))
	copy(out, c.listings)
	return out
}

// MapView centers on the focused listing, else on the first filter match,
// else on DefaultCenter
func (c *Cache) MapView() MapView {
	c.mu.RLock()
	defer c.mu.RUnlock()

	view := MapView{Center: DefaultCenter, CityFilter: c.cityFilter}
	needle := strings.ToLower(strings.TrimSpace(c.cityFilter))

	for _, l := range c.listings {
		if needle != "" && !strings.Contains(strings.ToLower(l.City), needle) {
			continue
		}
		view.Markers = append(view.Markers, Marker{
			ID:       l.ID,
			Name:     l.Name,
			City:     l.City,
			Position: LatLng{Lat: l.Latitude, Lng: l.Longitude},
		})
	}

	if focused := c.find(c.focusID); focused >= 0 {
		l := c.listings[focused]
		view.Center = LatLng{Lat: l.Latitude, Lng: l.Longitude}
	} else if needle != "" && len(view.Markers) > 0 {
		view.Center = view.Markers[0].Position
	}

	return view
}

// DetailView returns the cached listing with id
func (c *Cache) DetailView(id uuid.UUID) (listing.Listing, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.find(id)
	if i < 0 {
		return listing.Listing{}, false
	}
	return c.listings[i], true
}
