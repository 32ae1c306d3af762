package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/redmonkez12/pheafer-api/cmd/pheafer/ui"
	"github.com/redmonkez12/pheafer-api/internal/client"
	"github.com/redmonkez12/pheafer-api/internal/listingcache"
)

var errListingNotFound = errors.New("listing not found")

type app struct {
	baseURL     string
	sessionPath string

	api *client.Client
}

func (a *app) init() error {
	api, err := client.New(a.baseURL)
	if err != nil {
		return err
	}
	a.api = api

	if a.sessionPath == "" {
		path, err := client.DefaultSessionPath()
		if err != nil {
			return err
		}
		a.sessionPath = path
	}
	return nil
}

func (a *app) runRegister(cmd *cobra.Command, args []string) error {
	var creds ui.Credentials
	creds.Email, _ = cmd.Flags().GetString("email")
	creds.Password, _ = cmd.Flags().GetString("password")
	creds.Role, _ = cmd.Flags().GetString("role")

	if err := ui.RunRegisterForm(&creds); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	u, err := a.api.Register(cmd.Context(), creds.Email, creds.Password, creds.Role)
	if err != nil {
		return fail(err)
	}

	ui.PrintSuccess(fmt.Sprintf("Registered %s as %s. Run `pheafer login` to sign in.", u.Email, u.Role))
	return nil
}

func (a *app) runLogin(cmd *cobra.Command, args []string) error {
	var creds ui.Credentials
	creds.Email, _ = cmd.Flags().GetString("email")
	creds.Password, _ = cmd.Flags().GetString("password")

	if err := ui.RunLoginForm(&creds); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	session, err := a.api.Login(cmd.Context(), creds.Email, creds.Password)
	if err != nil {
		return fail(err)
	}
	if err := client.SaveSession(a.sessionPath, session); err != nil {
		return fail(err)
	}

	ui.PrintSuccess(fmt.Sprintf("Logged in as %s until %s.", session.Email, session.ExpiresAt.Local().Format("15:04")))
	return nil
}

func (a *app) runLogout(cmd *cobra.Command, args []string) error {
	if err := client.RemoveSession(a.sessionPath); err != nil {
		return fail(err)
	}
	ui.PrintSuccess("Logged out.")
	return nil
}

func (a *app) runList(cmd *cobra.Command, args []string) error {
	city, _ := cmd.Flags().GetString("city")

	listings, err := a.api.ListListings(cmd.Context(), city)
	if err != nil {
		return fail(err)
	}

	ui.PrintListings(listings, strings.TrimSpace(city))
	return nil
}

func (a *app) runShow(cmd *cobra.Command, args []string) error {
	l, err := a.api.GetListing(cmd.Context(), args[0])
	if err != nil {
		return fail(err)
	}

	ui.PrintListing(*l)
	return nil
}

func (a *app) runCreate(cmd *cobra.Command, args []string) error {
	cache, err := a.loadCache(cmd)
	if err != nil {
		return err
	}

	cache.BeginCreate()
	form, _ := cache.PendingCreate()
	if !applyListingFlags(cmd, &form) {
		if err := ui.RunListingForm("New listing", &form); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
	}

	res := cache.Create(cmd.Context(), a.session(), form)
	if err := a.check(res); err != nil {
		return err
	}

	ui.PrintSuccess("Listing created.")
	ui.PrintListing(*res.Listing)
	return nil
}

func (a *app) runUpdate(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cache, err := a.loadCache(cmd)
	if err != nil {
		return err
	}

	form, ok := cache.BeginEdit(id)
	if !ok {
		return fail(errListingNotFound)
	}
	if !applyListingFlags(cmd, &form) {
		if err := ui.RunListingForm("Edit listing", &form); err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
	}

	res := cache.Update(cmd.Context(), a.session(), id, form)
	if err := a.check(res); err != nil {
		return err
	}

	ui.PrintSuccess("Listing updated.")
	ui.PrintListing(*res.Listing)
	return nil
}

func (a *app) runDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cache, err := a.loadCache(cmd)
	if err != nil {
		return err
	}

	l, ok := cache.DetailView(id)
	if !ok {
		return fail(errListingNotFound)
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		confirmed, err := ui.ConfirmDelete(l.Name)
		if err != nil {
			return fmt.Errorf("form cancelled: %w", err)
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := a.check(cache.Delete(cmd.Context(), a.session(), id)); err != nil {
		return err
	}

	ui.PrintSuccess(fmt.Sprintf("Deleted %q.", l.Name))
	return nil
}

func (a *app) runFocus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	cache, err := a.loadCache(cmd)
	if err != nil {
		return err
	}

	if !cache.Focus(id) {
		return fail(errListingNotFound)
	}

	l, _ := cache.DetailView(id)
	ui.PrintListing(l)
	ui.PrintMap(cache.MapView())
	return nil
}

func (a *app) runMap(cmd *cobra.Command, args []string) error {
	city, _ := cmd.Flags().GetString("city")

	cache, err := a.loadCache(cmd)
	if err != nil {
		return err
	}

	cache.SetCityFilter(city)
	ui.PrintMap(cache.MapView())
	return nil
}

func (a *app) loadCache(cmd *cobra.Command) (*listingcache.Cache, error) {
	cache := listingcache.New(a.api)
	if err := cache.Load(cmd.Context()); err != nil {
		return nil, fail(err)
	}
	return cache, nil
}

// session returns the stored session, or nil when there is none. The
// client rejects mutations without a session before any request is sent.
func (a *app) session() *client.Session {
	s, err := client.LoadSession(a.sessionPath)
	if err != nil {
		return nil
	}
	return s
}

// check reports a failed mutation and drops a session the server no
// longer accepts
func (a *app) check(res listingcache.Result) error {
	if res.IsOk() {
		return nil
	}
	if res.Kind == client.KindUnauthenticated {
		_ = client.RemoveSession(a.sessionPath)
	}
	return fail(res.Err())
}

func fail(err error) error {
	ui.PrintError(ui.Describe(err))
	return err
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, fail(errListingNotFound)
	}
	return id, nil
}
