package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"ghenv/pkg/config"
	"ghenv/pkg/github"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize ghenv configuration",
	Long: `Create a default configuration file for ghenv.

The file is written to ~/.ghenv/config.yaml, or to the path given with --config.
It is created readable by the owner only because it may hold a token.`,
	Args:        cobra.NoArgs,
	RunE:        runInit,
	Annotations: map[string]string{skipConfigAnnotation: "true"},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite an existing configuration file without asking")
}

func runInit(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	out := cmd.OutOrStdout()

	// Check if config already exists
	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintf(out, "⚠️  Configuration file already exists at: %s\n", path)
		fmt.Fprint(out, "Do you want to overwrite it? (y/N): ")
		response, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		response = strings.TrimSpace(response)
		if response != "y" && response != "Y" {
			fmt.Fprintln(out, "Configuration initialization cancelled.")
			return nil
		}
	}

	defaultConfig := &config.Config{
		GitHub: config.GitHubConfig{
			BaseURL: github.DefaultBaseURL,
		},
		Variables: config.VariablesConfig{
			UpdatePolicy: string(github.DefaultUpdatePolicy),
		},
	}

	if err := defaultConfig.SaveConfigToPath(path); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(out, "✅ Configuration file created at: %s\n", path)
	fmt.Fprintln(out, "📝 Prefer 'ghenv auth login' or GITHUB_TOKEN over storing a token in this file.")

	return nil
}
