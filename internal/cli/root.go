// Package cli defines the cobra command tree for garage.
package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/client"
	"github.com/evcraddock/garage/internal/db"
	"github.com/evcraddock/garage/internal/logging"
)

var (
	flagFormat string
	flagDB     string
)

// NewRootCmd creates the root cobra command with global flags.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "garage",
		Short:         "Register and edit vehicles and service visits",
		Long:          "A client for the garage backend. Register vehicles for customers, record service visits with their services and parts, and review prices in other currencies.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flagFormat != "text" && flagFormat != "json" {
				return fmt.Errorf("invalid --format %q (want text or json)", flagFormat)
			}
			s, err := loadSettings()
			if err != nil {
				return err
			}
			return logging.Setup(s.DevMode, s.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logging.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flagFormat, "format", "text", "output format (text|json)")
	root.PersistentFlags().StringVar(&flagDB, "db", "", "SQLite database path for serve (default: ~/.garage/garage.db)")

	root.AddCommand(
		newVehicleCmd(),
		newVisitCmd(),
		newModelsCmd(),
		newServeCmd(),
		newLoginCmd(),
		newLogoutCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

// openDB opens the SQLite database using the --db flag or default path.
func openDB() (*sql.DB, error) {
	path := flagDB
	if path == "" {
		var err error
		path, err = db.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return db.Open(path)
}

// newAPIClient creates an HTTP client for the garage API.
func newAPIClient() (*client.Client, settings, error) {
	s, err := loadSettings()
	if err != nil {
		return nil, settings{}, err
	}
	return client.New(s.ServerURL, s.tokenProvider()), s, nil
}

// isJSON returns true if the --format flag is set to json.
func isJSON() bool {
	return flagFormat == "json"
}

// printJSON marshals v as indented JSON and writes it to w.
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// closeDB closes the database, logging any error to stderr.
func closeDB(cmd *cobra.Command, database *sql.DB) {
	if err := database.Close(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing database: %v\n", err)
	}
}
