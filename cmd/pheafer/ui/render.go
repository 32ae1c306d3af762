package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/redmonkez12/pheafer-api/internal/client"
	"github.com/redmonkez12/pheafer-api/internal/listing"
	"github.com/redmonkez12/pheafer-api/internal/listingcache"
)

// PrintListings renders the list view, one line per listing
func PrintListings(listings []listing.Listing, city string) {
	title := "Listings"
	if city != "" {
		title = fmt.Sprintf("Listings in %q", city)
	}
	fmt.Println(titleStyle.Render(title))

	if len(listings) == 0 {
		fmt.Println(subtleStyle.Render("  No listings found."))
		return
	}

	for _, l := range listings {
		fmt.Printf("  %s  %s\n", nameStyle.Render(l.Name), subtleStyle.Render(l.ID.String()))
		fmt.Printf("    %s · %s · %s sq ft\n", l.City, money(l.Price), grouped(int64(l.SquareFootage)))
	}
	fmt.Println()
}

// PrintListing renders the detail view
func PrintListing(l listing.Listing) {
	rows := []string{
		nameStyle.Render(l.Name),
		row("ID", l.ID.String()),
		row("City", l.City),
		row("Location", fmt.Sprintf("%.4f, %.4f", l.Latitude, l.Longitude)),
		row("Price", money(l.Price)),
		row("Square footage", grouped(int64(l.SquareFootage))),
		row("Ceiling height", strconv.FormatFloat(l.Specs.CeilingHeight, 'f', -1, 64)+" ft"),
		row("Dock doors", strconv.Itoa(l.Specs.DockDoors)),
		row("Power capacity", l.Specs.PowerCapacity),
		row("Zoning", l.Specs.ZoningType),
	}
	if l.Creator != nil {
		rows = append(rows, row("Listed by", l.Creator.Email))
	}
	if !l.CreatedAt.IsZero() {
		rows = append(rows, row("Created", l.CreatedAt.Local().Format("2006-01-02 15:04")))
	}

	fmt.Println(cardStyle.Render(strings.Join(rows, "\n")))
}

// PrintMap renders the map view as its center and visible markers
func PrintMap(view listingcache.MapView) {
	fmt.Println(titleStyle.Render("Map"))
	fmt.Println(row("Center", fmt.Sprintf("%.4f, %.4f", view.Center.Lat, view.Center.Lng)))
	if view.CityFilter != "" {
		fmt.Println(row("City filter", view.CityFilter))
	}

	if len(view.Markers) == 0 {
		fmt.Println(subtleStyle.Render("  No markers."))
		return
	}
	for _, m := range view.Markers {
		fmt.Printf("  ● %s %s\n", nameStyle.Render(m.Name),
			subtleStyle.Render(fmt.Sprintf("(%s, %.4f, %.4f)", m.City, m.Position.Lat, m.Position.Lng)))
	}
	fmt.Println()
}

// PrintSuccess prints a confirmation line
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintError prints an error message.
func PrintError(msg string) {
	fmt.Println(errorStyle.Render("Error: " + msg))
}

// Describe turns a client error into the message shown to the user
func Describe(err error) string {
	switch client.KindOf(err) {
	case client.KindUnauthenticated:
		return "not logged in or session expired, run `pheafer login`"
	case client.KindNetwork:
		return "cannot reach the API: " + err.Error()
	default:
		return err.Error()
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + value
}

func money(v float64) string {
	return "$" + grouped(int64(v))
}

func grouped(v int64) string {
	s := strconv.FormatInt(v, 10)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
