package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ghenv/internal/auth"
	"ghenv/internal/logging"
	"ghenv/pkg/github"
)

// Terminal access, replaced in tests
var (
	isTerminal   = term.IsTerminal
	readPassword = term.ReadPassword
)

// envFlags holds the flags shared by the environment commands
type envFlags struct {
	repo  string
	env   string
	name  string
	value string
	token string

	set flagSet
}

type flagSet int

const (
	withEnv flagSet = 1 << iota
	withName
	withValue
	withOptionalValue
)

// bindEnvFlags registers --repo, --token and the requested operation flags on cmd
func bindEnvFlags(cmd *cobra.Command, f *envFlags, set flagSet) {
	f.set = set
	cmd.Flags().StringVar(&f.repo, "repo", "", "Repository in owner/repo form")
	cmd.Flags().StringVar(&f.token, "token", "", "GitHub token (default $GITHUB_TOKEN, keyring, config)")
	_ = cmd.MarkFlagRequired("repo")

	if set&withEnv != 0 {
		cmd.Flags().StringVar(&f.env, "env", "", "Deployment environment name")
		_ = cmd.MarkFlagRequired("env")
	}
	if set&withName != 0 {
		cmd.Flags().StringVar(&f.name, "name", "", "Variable or secret name")
		_ = cmd.MarkFlagRequired("name")
	}
	switch {
	case set&withValue != 0:
		cmd.Flags().StringVar(&f.value, "value", "", "Value to store")
		_ = cmd.MarkFlagRequired("value")
	case set&withOptionalValue != 0:
		cmd.Flags().StringVar(&f.value, "value", "", "Value to store (read from the terminal or stdin when omitted)")
	}
}

// connect validates the flags and the token and returns a client.
// Nothing is sent to GitHub here.
func connect(f *envFlags) (github.RepositoryRef, *github.Client, error) {
	ref, err := github.ParseRepositoryRef(f.repo)
	if err != nil {
		return github.RepositoryRef{}, nil, err
	}

	if f.set&withEnv != 0 {
		if err := github.ValidateEnvironmentName(f.env); err != nil {
			return github.RepositoryRef{}, nil, err
		}
	}
	if f.set&withName != 0 {
		if err := github.ValidateName(f.name); err != nil {
			return github.RepositoryRef{}, nil, err
		}
	}

	client, err := newGitHubClient(f.token)
	if err != nil {
		return github.RepositoryRef{}, nil, err
	}

	return ref, client, nil
}

func newGitHubClient(flagToken string) (*github.Client, error) {
	token, err := resolveToken(flagToken)
	if err != nil {
		return nil, err
	}
	return clientForToken(token.Value)
}

// resolveToken finds the token to use. A keyring that cannot be read is
// skipped so that the config file still applies.
func resolveToken(flagToken string) (github.ResolvedToken, error) {
	authManager := github.NewAuthManager(auth.NewKeyringStore())
	token, err := authManager.GetToken(flagToken, appConfig)
	if token.StoreErr != nil {
		log.Debugf("Skipping OS keyring: %v", token.StoreErr)
	}
	if err != nil {
		if github.IsUsageError(err) {
			log.Infof("%s", github.GetAuthInstructions())
		}
		return github.ResolvedToken{}, err
	}
	log.Infof("Using GitHub token from %s", token.Source)

	return token, nil
}

// clientForToken builds a client for the configured API URL, tracing
// requests when --debug is set
func clientForToken(token string) (*github.Client, error) {
	var transport http.RoundTripper
	if debug {
		transport = &logging.Transport{Logger: log}
	}

	client := github.NewClientWithTransport(token, transport)
	if err := client.SetBaseURL(appConfig.APIBaseURL(apiURL)); err != nil {
		return nil, github.NewUsageError("%v", err)
	}
	log.Debugf("GitHub API: %s", client.BaseURL())

	return client, nil
}

// secretValue returns --value when given, otherwise reads the value from
// the terminal without echo, or from piped stdin.
func secretValue(cmd *cobra.Command, f *envFlags) (string, error) {
	if cmd.Flags().Changed("value") {
		return f.value, nil
	}
	return promptHidden(cmd, fmt.Sprintf("Value for secret '%s': ", f.name), "value")
}

// promptHidden reads a line from the terminal with echo disabled. Piped
// input is read to EOF instead. flag names the alternative for the error.
func promptHidden(cmd *cobra.Command, prompt, flag string) (string, error) {
	var value string
	in := cmd.InOrStdin()
	if file, ok := in.(*os.File); ok && isTerminal(int(file.Fd())) {
		fmt.Fprint(cmd.ErrOrStderr(), prompt)
		data, err := readPassword(int(file.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", flag, err)
		}
		value = string(data)
	} else {
		var err error
		if value, err = readPiped(in); err != nil {
			return "", err
		}
	}

	if value == "" {
		return "", github.NewUsageError("no %s given: pass --%s or pipe it on stdin", flag, flag)
	}
	return value, nil
}

// readPiped reads all of r and drops a single trailing newline
func readPiped(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}

	value := string(data)
	if strings.HasSuffix(value, "\r\n") {
		return strings.TrimSuffix(value, "\r\n"), nil
	}
	return strings.TrimSuffix(value, "\n"), nil
}
