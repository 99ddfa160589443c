package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	getRepoFlags   envFlags
	createEnvFlags envFlags
)

var getRepoCmd = &cobra.Command{
	Use:     "get-repo",
	Short:   "Show repository information",
	Long:    "Fetch a repository and print its full name and visibility. Useful to check that the token can see the repository.",
	Example: `  ghenv get-repo --repo acme/widgets`,
	Args:    cobra.NoArgs,
	RunE:    runGetRepo,
}

var createEnvCmd = &cobra.Command{
	Use:   "create-env",
	Short: "Create a deployment environment",
	Long: `Create a deployment environment in the repository.

The command is idempotent: when the environment already exists nothing is
changed and the command succeeds.`,
	Example: `  ghenv create-env --repo acme/widgets --env prod`,
	Args:    cobra.NoArgs,
	RunE:    runCreateEnv,
}

func init() {
	bindEnvFlags(getRepoCmd, &getRepoFlags, 0)
	bindEnvFlags(createEnvCmd, &createEnvFlags, withEnv)

	rootCmd.AddCommand(getRepoCmd)
	rootCmd.AddCommand(createEnvCmd)
}

func runGetRepo(cmd *cobra.Command, _ []string) error {
	ref, client, err := connect(&getRepoFlags)
	if err != nil {
		return err
	}

	repo, err := client.GetRepository(cmd.Context(), ref)
	if err != nil {
		return fmt.Errorf("failed to get repository: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "📘 Repo: %s, Private: %t\n", repo.FullName, repo.Private)
	return nil
}

func runCreateEnv(cmd *cobra.Command, _ []string) error {
	f := &createEnvFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	created, err := client.EnsureEnvironment(cmd.Context(), ref, f.env)
	if err != nil {
		return fmt.Errorf("failed to create environment: %w", err)
	}

	if created {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created environment: %s\n", f.env)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "ℹ️ Environment '%s' already exists\n", f.env)
	}
	return nil
}
