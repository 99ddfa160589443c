package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"ghenv/internal/logging"
	"ghenv/pkg/config"
	"ghenv/pkg/github"
)

// skipConfigAnnotation marks commands that run without reading the config file
const skipConfigAnnotation = "ghenv/skip-config"

var (
	configFile string
	envFile    string
	apiURL     string
	verbose    bool
	debug      bool

	appConfig *config.Config
	log       logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "ghenv",
	Short: "Manage GitHub Actions environments, variables and secrets",
	Long: `ghenv manages the deployment environments of a GitHub repository from the
command line. It creates environments, manages plain-text environment variables,
and stores environment secrets encrypted with the environment's public key.

Every command works on a single repository (--repo owner/repo) and, except for
get-repo, a single environment (--env).

The GitHub token is taken from --token, the GITHUB_TOKEN environment variable
(also read from ./.env), the OS keyring (ghenv auth login) or the config file,
in that order.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits non-zero on any failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default ~/.ghenv/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultDotEnvFile, "Dotenv file loaded into the environment before running")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "GitHub API base URL (default https://api.github.com/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show informational messages")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Show debug messages and trace HTTP requests")

	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(initCmd)
}

// setup loads the dotenv file and the config file for every command
func setup(cmd *cobra.Command, _ []string) error {
	log = logging.Logger{Verbose: verbose, Debug: debug, Err: cmd.ErrOrStderr()}

	if err := config.LoadDotEnv(envFile, cmd.Flags().Changed("env-file")); err != nil {
		return err
	}

	if _, ok := cmd.Annotations[skipConfigAnnotation]; ok {
		appConfig = &config.Config{}
		return nil
	}

	var err error
	if configFile != "" {
		appConfig, err = config.LoadConfigFromPath(configFile)
	} else {
		appConfig, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Debugf("Configuration loaded")
	return nil
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "❌ %v\n", err)

	if apiErr, ok := github.AsAPIError(err); ok {
		if hint := apiErr.Hint(); hint != "" {
			fmt.Fprintf(w, "💡 %s\n", hint)
		}
		return
	}

	if github.IsUsageError(err) {
		fmt.Fprintln(w, "Run 'ghenv --help' for usage.")
	}
}
