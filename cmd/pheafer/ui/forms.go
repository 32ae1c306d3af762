package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/redmonkez12/pheafer-api/internal/listingcache"
	"github.com/redmonkez12/pheafer-api/internal/user"
)

// Credentials holds the values collected by the account forms
type Credentials struct {
	Email    string
	Password string
	Role     string
}

// RunLoginForm asks for the fields of creds that are still empty
func RunLoginForm(creds *Credentials) error {
	var fields []huh.Field
	if creds.Email == "" {
		fields = append(fields, emailInput(&creds.Email))
	}
	if creds.Password == "" {
		fields = append(fields, passwordInput(&creds.Password))
	}
	if len(fields) == 0 {
		return nil
	}

	return huh.NewForm(huh.NewGroup(fields...)).WithTheme(huh.ThemeCatppuccin()).Run()
}

// RunRegisterForm collects email, password and role
func RunRegisterForm(creds *Credentials) error {
	if err := RunLoginForm(creds); err != nil {
		return err
	}
	if creds.Role != "" {
		return nil
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Role").
				Options(RoleOptions()...).
				Value(&creds.Role),
		),
	).WithTheme(huh.ThemeCatppuccin()).Run()
}

// RoleOptions lists the account roles the API accepts
func RoleOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("Tenant", string(user.RoleTenant)),
		huh.NewOption("Developer", string(user.RoleDeveloper)),
	}
}

// RunListingForm edits f in place. Fields already filled are shown as the
// starting value.
func RunListingForm(title string, f *listingcache.Form) error {
	form := huh.NewForm(
		huh.NewGroup(
			textInput("Name", "Warehouse 12", &f.Name),
			textInput("City", "Dallas", &f.City),
			numberInput("Latitude", "32.7767", &f.Latitude),
			numberInput("Longitude", "-96.7970", &f.Longitude),
			numberInput("Price", "2500000", &f.Price),
			numberInput("Square footage", "50000", &f.SquareFootage),
		).Title(title),
		huh.NewGroup(
			numberInput("Ceiling height (ft)", "32", &f.CeilingHeight),
			numberInput("Dock doors", "8", &f.DockDoors),
			textInput("Power capacity", "2000A 480V", &f.PowerCapacity),
			textInput("Zoning type", "M-1", &f.ZoningType),
		).Title("Specs"),
	).WithTheme(huh.ThemeCatppuccin())

	return form.Run()
}

// ConfirmDelete asks before a listing is removed
func ConfirmDelete(name string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(fmt.Sprintf("Delete %q?", name)).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	return ok, err
}

func emailInput(value *string) huh.Field {
	return huh.NewInput().
		Title("Email").
		Placeholder("you@example.com").
		Value(value).
		Validate(required("email"))
}

func passwordInput(value *string) huh.Field {
	return huh.NewInput().
		Title("Password").
		EchoMode(huh.EchoModePassword).
		Value(value).
		Validate(required("password"))
}

func textInput(title, placeholder string, value *string) huh.Field {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(required(strings.ToLower(title)))
}

func numberInput(title, placeholder string, value *string) huh.Field {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s is required", strings.ToLower(title))
			}
			if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				return fmt.Errorf("%s must be a number", strings.ToLower(title))
			}
			return nil
		})
}

func required(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
