package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/garage/internal/client"
	"github.com/evcraddock/garage/internal/session"
)

const statusTimeout = 5 * time.Second

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check connection and auth status",
		Long:  "Tests the connection to the server and checks if the stored token is valid.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd)
		},
	}
}

func runStatus(cmd *cobra.Command) error {
	api, s, err := newAPIClient()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Server:  %s\n", s.ServerURL)

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()

	token, err := s.tokenProvider().Token(ctx)
	switch {
	case errors.Is(err, session.ErrNotLoggedIn):
		fmt.Fprintln(out, "Token:   not configured")
		fmt.Fprintln(out, "\nRun 'garage login' to authenticate.")
		return nil
	case errors.Is(err, session.ErrExpired):
		fmt.Fprintln(out, "Token:   expired")
		fmt.Fprintln(out, "\nRun 'garage login' to re-authenticate.")
		return nil
	case err != nil:
		return err
	}

	prefix := token
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	fmt.Fprintf(out, "Token:   %s…\n", prefix)
	if exp := session.ExpiryOf(token); !exp.IsZero() {
		fmt.Fprintf(out, "Expires: %s\n", exp.Local().Format("2006-01-02 15:04"))
	}

	_, err = api.ListModels(ctx)
	var domainErr *client.DomainError
	switch {
	case err == nil:
		fmt.Fprintln(out, "Status:  ✓ connected and authenticated")
	case errors.As(err, &domainErr) && domainErr.Status == http.StatusUnauthorized:
		fmt.Fprintln(out, "Status:  ✗ invalid token")
		fmt.Fprintln(out, "\nRun 'garage login' to re-authenticate.")
	default:
		fmt.Fprintf(out, "Status:  ✗ cannot reach server (%v)\n", err)
	}

	return nil
}
