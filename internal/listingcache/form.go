package listingcache

import (
	"strconv"

	"github.com/redmonkez12/pheafer-api/internal/listing"
)

// Form is a listing as typed by a user, every field still text
type Form struct {
	Name          string
	City          string
	Latitude      string
	Longitude     string
	Price         string
	SquareFootage string
	CeilingHeight string
	DockDoors     string
	PowerCapacity string
	ZoningType    string
}

// FormFromListing pre-fills an edit form
func FormFromListing(l listing.Listing) Form {
	return Form{
		Name:          l.Name,
		City:          l.City,
		Latitude:      formatFloat(l.Latitude),
		Longitude:     formatFloat(l.Longitude),
		Price:         formatFloat(l.Price),
		SquareFootage: formatFloat(l.SquareFootage),
		CeilingHeight: formatFloat(l.Specs.CeilingHeight),
		DockDoors:     strconv.Itoa(l.Specs.DockDoors),
		PowerCapacity: l.Specs.PowerCapacity,
		ZoningType:    l.Specs.ZoningType,
	}
}

// Validate applies the server's rules so incomplete forms never leave the
// client
func (f Form) Validate() (listing.Fields, error) {
	return listing.Input{
		Name:          f.Name,
		City:          f.City,
		Latitude:      listing.ParseNumber(f.Latitude),
		Longitude:     listing.ParseNumber(f.Longitude),
		Price:         listing.ParseNumber(f.Price),
		SquareFootage: listing.ParseNumber(f.SquareFootage),
		Specs: &listing.SpecsInput{
			CeilingHeight: listing.ParseNumber(f.CeilingHeight),
			DockDoors:     listing.ParseNumber(f.DockDoors),
			PowerCapacity: f.PowerCapacity,
			ZoningType:    f.ZoningType,
		},
	}.Validate()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
