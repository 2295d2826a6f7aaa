package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/auth"
	"github.com/evcraddock/garage/internal/db"
	"github.com/evcraddock/garage/internal/web"
)

func newServeCmd() *cobra.Command {
	var (
		port       int
		issueToken string
		tokenTTL   time.Duration
		customers  int
		seed       uint64
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the development API server",
		Long: `Start an HTTP server implementing the garage API over a local SQLite
database. On first start the database is seeded with a model, service, and
part catalog and a set of sample customers.

With --issue-token NAME a new bearer token is printed and the server is not started.
Set GARAGE_SIGNING_KEY to keep tokens readable across restarts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings()
			if err != nil {
				return err
			}

			database, err := openDB()
			if err != nil {
				return err
			}
			defer closeDB(cmd, database)

			if err := db.Seed(database, customers, seed); err != nil {
				return err
			}

			tokens, err := auth.NewTokenStore(database, []byte(s.SigningKey))
			if err != nil {
				return err
			}

			if issueToken != "" {
				raw, tok, err := tokens.Issue(issueToken, tokenTTL)
				if err != nil {
					return err
				}
				if isJSON() {
					return printJSON(cmd.OutOrStdout(), map[string]interface{}{
						"id":         tok.ID,
						"name":       tok.Name,
						"token":      raw,
						"expires_at": tok.ExpiresAt,
					})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Token %q issued. It is shown only once:\n\n  %s\n\nRun 'garage login --token <token>' to use it.\n", tok.Name, raw)
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting garage API on http://localhost:%d\n", port)
			return web.NewServer(database, tokens).Run(ctx, fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&issueToken, "issue-token", "", "issue a bearer token with this name and exit")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", 30*24*time.Hour, "lifetime of issued tokens (0 = never expires)")
	cmd.Flags().IntVar(&customers, "seed-customers", 20, "sample customers created when seeding a new database")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "random seed for sample data")

	return cmd
}
