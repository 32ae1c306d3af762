package listing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/redmonkez12/pheafer-api/internal/database"
)

var ErrNotFound = errors.New("listing not found")

// Store persists listings. List returns records in creation order.
type Store interface {
	Create(ctx context.Context, fields Fields, createdBy uuid.UUID) (*Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	List(ctx context.Context, city string) ([]Listing, error)
	Update(ctx context.Context, id uuid.UUID, fields Fields) (*Listing, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository handles listing persistence in Postgres
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// mutableColumns are rewritten by Update; id, created_at and created_by are not
var mutableColumns = []string{
	"name", "city", "latitude", "longitude", "price", "square_footage",
	"spec_ceiling_height", "spec_dock_doors", "spec_power_capacity", "spec_zoning_type",
}

func (r *Repository) Create(ctx context.Context, fields Fields, createdBy uuid.UUID) (*Listing, error) {
	row := toDBListing(fields)
	row.CreatedBy = createdBy

	if _, err := r.db.NewInsert().
		Model(row).
		ExcludeColumn("id", "created_at").
		Returning("*").
		Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return fromDBListing(row), nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	row := new(database.Listing)
	err := r.db.NewSelect().
		Model(row).
		Where("l.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get listing: %w", err)
	}

	return fromDBListing(row), nil
}

func (r *Repository) List(ctx context.Context, city string) ([]Listing, error) {
	var rows []database.Listing
	if err := r.listQuery(&rows, city).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list listings: %w", err)
	}

	listings := make([]Listing, 0, len(rows))
	for i := range rows {
		listings = append(listings, *fromDBListing(&rows[i]))
	}
	return listings, nil
}

// listQuery matches city as a literal case-insensitive substring. strpos has
// no wildcard characters so the filter needs no escaping.
func (r *Repository) listQuery(rows *[]database.Listing, city string) *bun.SelectQuery {
	q := r.db.NewSelect().
		Model(rows).
		OrderExpr("l.created_at ASC, l.id ASC")

	if city != "" {
		q = q.Where("strpos(lower(l.city), lower(?)) > 0", city)
	}
	return q
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, fields Fields) (*Listing, error) {
	row := toDBListing(fields)
	row.ID = id

	err := r.db.NewUpdate().
		Model(row).
		Column(mutableColumns...).
		WherePK().
		Returning("*").
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	return fromDBListing(row), nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*database.Listing)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toDBListing(f Fields) *database.Listing {
	return &database.Listing{
		Name:          f.Name,
		City:          f.City,
		Latitude:      f.Latitude,
		Longitude:     f.Longitude,
		Price:         f.Price,
		SquareFootage: f.SquareFootage,
		CeilingHeight: f.Specs.CeilingHeight,
		DockDoors:     f.Specs.DockDoors,
		PowerCapacity: f.Specs.PowerCapacity,
		ZoningType:    f.Specs.ZoningType,
	}
}

func fromDBListing(row *database.Listing) *Listing {
	return &Listing{
		ID: row.ID,
		Fields: Fields{
			Name:          row.Name,
			City:          row.City,
			Latitude:      row.Latitude,
			Longitude:     row.Longitude,
			Price:         row.Price,
			SquareFootage: row.SquareFootage,
			Specs: Specs{
				CeilingHeight: row.CeilingHeight,
				DockDoors:     row.DockDoors,
				PowerCapacity: row.PowerCapacity,
				ZoningType:    row.ZoningType,
			},
		},
		CreatedAt: row.CreatedAt,
		CreatedBy: row.CreatedBy,
	}
}
