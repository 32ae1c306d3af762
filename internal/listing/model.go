package listing

import (
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/pheafer-api/internal/user"
)

// Specs are the physical attributes every listing must carry
type Specs struct {
	CeilingHeight float64 `json:"ceilingHeight"`
	DockDoors     int     `json:"dockDoors"`
	PowerCapacity string  `json:"powerCapacity"`
	ZoningType    string  `json:"zoningType"`
}

// Fields are the caller-supplied, validated attributes of a listing. Update
// replaces all of them at once.
type Fields struct {
	Name          string  `json:"name"`
	City          string  `json:"city"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Price         float64 `json:"price"`
	SquareFootage float64 `json:"squareFootage"`
	Specs         Specs   `json:"specs"`
}

// Listing is an industrial property as returned by the API
type Listing struct {
	ID uuid.UUID `json:"id"`
	Fields
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy uuid.UUID `json:"createdBy"`

	// Creator is resolved at read time and never persisted
	Creator *user.Summary `json:"creator,omitempty"`
}
