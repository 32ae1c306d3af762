package main

import (
	"github.com/spf13/cobra"

	"github.com/redmonkez12/pheafer-api/internal/listingcache"
)

// listingFlags maps flag names to the form field they fill
var listingFlags = []struct {
	name  string
	usage string
	field func(*listingcache.Form) *string
}{
	{"name", "Listing name", func(f *listingcache.Form) *string { return &f.Name }},
	{"city", "City", func(f *listingcache.Form) *string { return &f.City }},
	{"lat", "Latitude (-90..90)", func(f *listingcache.Form) *string { return &f.Latitude }},
	{"lng", "Longitude (-180..180)", func(f *listingcache.Form) *string { return &f.Longitude }},
	{"price", "Asking price", func(f *listingcache.Form) *string { return &f.Price }},
	{"sqft", "Square footage", func(f *listingcache.Form) *string { return &f.SquareFootage }},
	{"ceiling-height", "Ceiling height in feet", func(f *listingcache.Form) *string { return &f.CeilingHeight }},
	{"dock-doors", "Number of dock doors", func(f *listingcache.Form) *string { return &f.DockDoors }},
	{"power", "Power capacity", func(f *listingcache.Form) *string { return &f.PowerCapacity }},
	{"zoning", "Zoning type", func(f *listingcache.Form) *string { return &f.ZoningType }},
}

// Flags for non-interactive mode (CI/scripting)
func addListingFlags(cmd *cobra.Command) {
	for _, lf := range listingFlags {
		cmd.Flags().String(lf.name, "", lf.usage)
	}
}

// applyListingFlags copies every flag set on the command line into f and
// reports whether any was set
func applyListingFlags(cmd *cobra.Command, f *listingcache.Form) bool {
	changed := false
	for _, lf := range listingFlags {
		if !cmd.Flags().Changed(lf.name) {
			continue
		}
		v, _ := cmd.Flags().GetString(lf.name)
		*lf.field(f) = v
		changed = true
	}
	return changed
}
