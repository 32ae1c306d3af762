package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redmonkez12/pheafer-api/internal/client"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "pheafer",
		Short:         "Browse and manage industrial real-estate listings",
		Long:          "Command-line client for the Pheafer listings API: sign in, search listings by city and create, edit or delete listings.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.baseURL, "api", defaultBaseURL(), "API base URL (env PHEAFER_API_URL)")
	rootCmd.PersistentFlags().StringVar(&a.sessionPath, "session", "", "Session file (default: user config dir)")

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE:  a.runRegister,
	}
	registerCmd.Flags().String("email", "", "Account email")
	registerCmd.Flags().String("password", "", "Account password")
	registerCmd.Flags().String("role", "", "Account role (tenant, developer)")

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE:  a.runLogin,
	}
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().String("password", "", "Account password")

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE:  a.runLogout,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List listings, optionally filtered by city",
		Args:  cobra.NoArgs,
		RunE:  a.runList,
	}
	listCmd.Flags().String("city", "", "Case-insensitive city substring")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runShow,
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a listing",
		Args:  cobra.NoArgs,
		RunE:  a.runCreate,
	}
	addListingFlags(createCmd)

	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of a listing",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runUpdate,
	}
	addListingFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runDelete,
	}
	deleteCmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	focusCmd := &cobra.Command{
		Use:   "focus <id>",
		Short: "Center the map on a listing and show its city",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runFocus,
	}

	mapCmd := &cobra.Command{
		Use:   "map",
		Short: "Show map markers, optionally filtered by city",
		Args:  cobra.NoArgs,
		RunE:  a.runMap,
	}
	mapCmd.Flags().String("city", "", "Case-insensitive city substring")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, listCmd, showCmd,
		createCmd, updateCmd, deleteCmd, focusCmd, mapCmd)

	return rootCmd
}

func defaultBaseURL() string {
	if v := os.Getenv("PHEAFER_API_URL"); v != "" {
		return v
	}
	return client.DefaultBaseURL
}
