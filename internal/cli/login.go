package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/evcraddock/garage/internal/session"
)

func newLoginCmd() *cobra.Command {
	var (
		server string
		token  string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store a bearer token",
		Long: `Stores a bearer token for API access. Without --token the token is read
from the terminal (hidden) or from standard input. Tokens are issued by
'garage serve --issue-token NAME'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(cmd, server, token)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "server URL to store with the session")
	cmd.Flags().StringVar(&token, "token", "", "bearer token (default: prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, server, token string) error {
	if token == "" {
		var err error
		token, err = readToken(cmd.InOrStdin(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
	}

	if server != "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.ServerURL = strings.TrimRight(server, "/")
		if err := saveConfig(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	sess, err := session.NewStore(configPersister{}).Login(token)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Token saved. You're logged in!")
	if !sess.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "  Expires: %s\n", sess.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// readToken prompts for a token without echo when in is a terminal, and
// reads one line otherwise.
func readToken(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Paste your token: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}
