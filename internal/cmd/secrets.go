package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ghenv/pkg/github"
)

var (
	createSecretFlags envFlags
	updateSecretFlags envFlags
	deleteSecretFlags envFlags
)

var createSecretCmd = &cobra.Command{
	Use:   "create-secret",
	Short: "Create or replace an environment secret",
	Long: `Encrypt a value with the environment's public key and store it as a secret.

The value is sealed locally; GitHub only ever receives the ciphertext. When
--value is omitted the value is read from the terminal without echo, or from
stdin when it is piped.`,
	Example: `  ghenv create-secret --repo acme/widgets --env prod --name API_KEY --value shhh
  printf '%s' "$API_KEY" | ghenv create-secret --repo acme/widgets --env prod --name API_KEY`,
	Args: cobra.NoArgs,
	RunE: runCreateSecret,
}

var updateSecretCmd = &cobra.Command{
	Use:   "update-secret",
	Short: "Replace an environment secret",
	Long: `Delete an environment secret and create it again with a new value.

When the delete fails the secret is left untouched and nothing is created.`,
	Example: `  ghenv update-secret --repo acme/widgets --env prod --name API_KEY --value rotated`,
	Args:    cobra.NoArgs,
	RunE:    runUpdateSecret,
}

var deleteSecretCmd = &cobra.Command{
	Use:     "delete-secret",
	Short:   "Delete an environment secret",
	Long:    "Delete an environment secret. A secret that does not exist is reported and is not an error.",
	Example: `  ghenv delete-secret --repo acme/widgets --env prod --name API_KEY`,
	Args:    cobra.NoArgs,
	RunE:    runDeleteSecret,
}

func init() {
	bindEnvFlags(createSecretCmd, &createSecretFlags, withEnv|withName|withOptionalValue)
	bindEnvFlags(updateSecretCmd, &updateSecretFlags, withEnv|withName|withOptionalValue)
	bindEnvFlags(deleteSecretCmd, &deleteSecretFlags, withEnv|withName)

	rootCmd.AddCommand(createSecretCmd)
	rootCmd.AddCommand(updateSecretCmd)
	rootCmd.AddCommand(deleteSecretCmd)
}

func runCreateSecret(cmd *cobra.Command, _ []string) error {
	f := &createSecretFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	value, err := secretValue(cmd, f)
	if err != nil {
		return err
	}

	if _, err := github.NewSecretManager(client).Create(cmd.Context(), ref, f.env, f.name, value); err != nil {
		return fmt.Errorf("failed to add secret: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Secret '%s' added.\n", f.name)
	return nil
}

func runUpdateSecret(cmd *cobra.Command, _ []string) error {
	f := &updateSecretFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	value, err := secretValue(cmd, f)
	if err != nil {
		return err
	}

	result, err := github.NewSecretManager(client).Update(cmd.Context(), ref, f.env, f.name, value)
	log.Debugf("%s", result)
	printUpdateSteps(cmd.OutOrStdout(), "secret", f.name, result)
	if err != nil {
		return err
	}

	if result.Delete.Outcome == github.OutcomeDeleted {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated environment secret '%s'.\n", f.name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created environment secret '%s'.\n", f.name)
	}
	return nil
}

func runDeleteSecret(cmd *cobra.Command, _ []string) error {
	f := &deleteSecretFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	result, err := github.NewSecretManager(client).Delete(cmd.Context(), ref, f.env, f.name)
	if err != nil {
		return fmt.Errorf("failed to delete secret: %w", err)
	}

	if result.Outcome == github.OutcomeNotFound {
		fmt.Fprintf(cmd.OutOrStdout(), "ℹ️ Secret '%s' not found.\n", f.name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Deleted secret '%s'.\n", f.name)
	}
	return nil
}
