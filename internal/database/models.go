package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted row for an account
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull,default:'tenant'"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Listing is the persisted row for an industrial property. Specs are
// flattened into spec_* columns.
type Listing struct {
	bun.BaseModel `bun:"table:listings,alias:l"`

	ID            uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Name          string    `bun:"name,notnull"`
	City          string    `bun:"city,notnull"`
	Latitude      float64   `bun:"latitude,notnull"`
	Longitude     float64   `bun:"longitude,notnull"`
	Price         float64   `bun:"price,notnull"`
	SquareFootage float64   `bun:"square_footage,notnull"`
	CeilingHeight float64   `bun:"spec_ceiling_height,notnull"`
	DockDoors     int       `bun:"spec_dock_doors,notnull"`
	PowerCapacity string    `bun:"spec_power_capacity,notnull"`
	ZoningType    string    `bun:"spec_zoning_type,notnull"`
	CreatedAt     time.Time `bun:"created_at,notnull,default:current_timestamp"`
	CreatedBy     uuid.UUID `bun:"created_by,type:uuid"`
}
