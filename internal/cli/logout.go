package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/session"
)

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Long:  "Removes the stored bearer token from the config file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(cmd)
		},
	}
}

func runLogout(cmd *cobra.Command) error {
	store := session.NewStore(configPersister{})

	sess, err := store.Current()
	if err != nil {
		return err
	}
	if sess.Token == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
		return nil
	}

	if err := store.Logout(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "✓ Logged out. Token removed.")
	return nil
}
