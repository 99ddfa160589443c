package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ghenv/internal/auth"
	"ghenv/pkg/github"
)

var (
	loginToken  string
	loginWeb    bool
	statusToken string

	browser auth.BrowserOpener = auth.NewBrowserOpener()
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authentication commands",
	Long:  "Commands for storing and checking the GitHub token ghenv uses",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store a GitHub token in the OS keyring",
	Long: `Validate a GitHub token and store it in the OS keyring.

The token is read from --token, or from the terminal without echo, or from
stdin when it is piped. With --web the token creation page is opened first.`,
	Example: `  ghenv auth login --web
  echo "$TOKEN" | ghenv auth login`,
	Args: cobra.NoArgs,
	RunE: runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the GitHub token from the OS keyring",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which token is used and whether GitHub accepts it",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func init() {
	authLoginCmd.Flags().StringVar(&loginToken, "token", "", "GitHub token to store")
	authLoginCmd.Flags().BoolVar(&loginWeb, "web", false, "Open the token creation page in the browser")
	authStatusCmd.Flags().StringVar(&statusToken, "token", "", "GitHub token to check instead of the resolved one")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if loginWeb {
		tokenURL := auth.TokenCreationURL(appConfig.APIBaseURL(apiURL))
		fmt.Fprintf(out, "🌐 Create a token at: %s\n", tokenURL)
		if err := browser.Open(tokenURL); err != nil {
			log.Warnf("Could not open browser: %v", err)
		}
	}

	token := strings.TrimSpace(loginToken)
	if token == "" {
		var err error
		token, err = promptHidden(cmd, "GitHub token: ", "token")
		if err != nil {
			return err
		}
		token = strings.TrimSpace(token)
	}
	if token == "" {
		return github.NewUsageError("no token given: pass --token or paste it when prompted")
	}

	client, err := clientForToken(token)
	if err != nil {
		return err
	}

	info, err := client.ValidateToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("token validation failed: %w", err)
	}

	if err := auth.NewKeyringStore().Set(token); err != nil {
		return err
	}

	fmt.Fprintf(out, "✅ Logged in to GitHub as %s. Token stored in the OS keyring.\n", info.User)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	removed, err := auth.NewKeyringStore().Delete()
	if err != nil {
		return err
	}

	if removed {
		fmt.Fprintln(cmd.OutOrStdout(), "✅ Removed GitHub token from the OS keyring.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "ℹ️ No GitHub token stored in the OS keyring.")
	}
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	token, err := resolveToken(statusToken)
	if err != nil {
		return err
	}

	client, err := clientForToken(token.Value)
	if err != nil {
		return err
	}

	info, err := client.ValidateToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("token from %s was rejected: %w", token.Source, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✅ Logged in to GitHub as %s (token from %s)\n", info.User, token.Source)
	if len(info.Scopes) > 0 {
		fmt.Fprintf(out, "   Scopes: %s\n", strings.Join(info.Scopes, ", "))
	} else {
		fmt.Fprintln(out, "   Scopes: none reported (fine-grained token)")
	}
	return nil
}
