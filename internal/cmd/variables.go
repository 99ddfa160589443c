package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ghenv/pkg/github"
)

var (
	createVarFlags envFlags
	updateVarFlags envFlags
	deleteVarFlags envFlags
	checkVarFlags  envFlags
	listVarsFlags  envFlags

	updatePolicy string
)

var createVarCmd = &cobra.Command{
	Use:     "create-var",
	Short:   "Create an environment variable",
	Long:    "Create a plain-text variable in a deployment environment. Fails when the variable already exists; use update-var to change it.",
	Example: `  ghenv create-var --repo acme/widgets --env prod --name LOG_LEVEL --value info`,
	Args:    cobra.NoArgs,
	RunE:    runCreateVar,
}

var updateVarCmd = &cobra.Command{
	Use:   "update-var",
	Short: "Set an environment variable, creating it when absent",
	Long: `Set the value of an environment variable.

Two update policies are available:

  recreate  delete the variable, then create it with the new value (default)
  put       update the variable in place; create it when GitHub reports 404

The default comes from variables.update_policy in the config file.`,
	Example: `  ghenv update-var --repo acme/widgets --env prod --name LOG_LEVEL --value debug
  ghenv update-var --repo acme/widgets --env prod --name LOG_LEVEL --value debug --policy put`,
	Args: cobra.NoArgs,
	RunE: runUpdateVar,
}

var deleteVarCmd = &cobra.Command{
	Use:     "delete-var",
	Short:   "Delete an environment variable",
	Long:    "Delete an environment variable. A variable that does not exist is reported and is not an error.",
	Example: `  ghenv delete-var --repo acme/widgets --env prod --name DEBUG`,
	Args:    cobra.NoArgs,
	RunE:    runDeleteVar,
}

var checkVarCmd = &cobra.Command{
	Use:     "check-var",
	Short:   "Check whether an environment variable exists",
	Long:    "Report whether a variable with exactly this name exists. Both answers exit with status 0.",
	Example: `  ghenv check-var --repo acme/widgets --env prod --name LOG_LEVEL`,
	Args:    cobra.NoArgs,
	RunE:    runCheckVar,
}

var listVarsCmd = &cobra.Command{
	Use:     "list-vars",
	Short:   "List environment variable names",
	Long:    "Print the names of the environment's variables in the order GitHub returns them. Only the first page of results is shown.",
	Example: `  ghenv list-vars --repo acme/widgets --env prod`,
	Args:    cobra.NoArgs,
	RunE:    runListVars,
}

func init() {
	bindEnvFlags(createVarCmd, &createVarFlags, withEnv|withName|withValue)
	bindEnvFlags(updateVarCmd, &updateVarFlags, withEnv|withName|withValue)
	bindEnvFlags(deleteVarCmd, &deleteVarFlags, withEnv|withName)
	bindEnvFlags(checkVarCmd, &checkVarFlags, withEnv|withName)
	bindEnvFlags(listVarsCmd, &listVarsFlags, withEnv)

	updateVarCmd.Flags().StringVar(&updatePolicy, "policy", "", "Update policy: recreate or put (default from config, else recreate)")

	rootCmd.AddCommand(createVarCmd)
	rootCmd.AddCommand(updateVarCmd)
	rootCmd.AddCommand(deleteVarCmd)
	rootCmd.AddCommand(checkVarCmd)
	rootCmd.AddCommand(listVarsCmd)
}

func runCreateVar(cmd *cobra.Command, _ []string) error {
	f := &createVarFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	if _, err := github.NewVariableManager(client).Create(cmd.Context(), ref, f.env, f.name, f.value); err != nil {
		return fmt.Errorf("failed to add variable: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Environment variable '%s' added.\n", f.name)
	return nil
}

func runUpdateVar(cmd *cobra.Command, _ []string) error {
	f := &updateVarFlags

	selected := updatePolicy
	if selected == "" {
		selected = appConfig.Variables.UpdatePolicy
	}
	policy, err := github.ParseUpdatePolicy(selected)
	if err != nil {
		return err
	}

	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	log.Infof("Updating variable '%s' with the %s policy", f.name, policy)
	result, err := github.NewVariableManager(client).Update(cmd.Context(), ref, f.env, f.name, f.value, policy)
	log.Debugf("%s", result)
	printUpdateSteps(cmd.OutOrStdout(), "variable", f.name, result)
	if err != nil {
		return err
	}

	if result.Final().Outcome == github.OutcomeUpdated || result.Delete.Outcome == github.OutcomeDeleted {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Updated environment variable '%s'.\n", f.name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Created environment variable '%s'.\n", f.name)
	}
	return nil
}

func runDeleteVar(cmd *cobra.Command, _ []string) error {
	f := &deleteVarFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	result, err := github.NewVariableManager(client).Delete(cmd.Context(), ref, f.env, f.name)
	if err != nil {
		return fmt.Errorf("failed to delete variable: %w", err)
	}

	if result.Outcome == github.OutcomeNotFound {
		fmt.Fprintf(cmd.OutOrStdout(), "ℹ️ Variable '%s' not found.\n", f.name)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Deleted variable '%s'.\n", f.name)
	}
	return nil
}

func runCheckVar(cmd *cobra.Command, _ []string) error {
	f := &checkVarFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	exists, err := github.NewVariableManager(client).Exists(cmd.Context(), ref, f.env, f.name)
	if err != nil {
		return fmt.Errorf("failed to check variable: %w", err)
	}

	if exists {
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Variable '%s' exists in environment '%s'.\n", f.name, f.env)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "❌ Variable '%s' does NOT exist in environment '%s'.\n", f.name, f.env)
	}
	return nil
}

func runListVars(cmd *cobra.Command, _ []string) error {
	f := &listVarsFlags
	ref, client, err := connect(f)
	if err != nil {
		return err
	}

	vars, err := github.NewVariableManager(client).List(cmd.Context(), ref, f.env)
	if err != nil {
		return fmt.Errorf("failed to list variables: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(vars) == 0 {
		fmt.Fprintf(out, "No variables found in environment '%s'.\n", f.env)
		return nil
	}

	fmt.Fprintf(out, "Variables in '%s':\n", f.env)
	for _, v := range vars {
		fmt.Fprintf(out, "- %s\n", v.Name)
	}
	return nil
}

// printUpdateSteps reports the steps an update took before its final result
func printUpdateSteps(w io.Writer, kind, name string, result github.UpdateResult) {
	title := strings.ToUpper(kind[:1]) + kind[1:]

	switch result.Delete.Outcome {
	case github.OutcomeDeleted:
		fmt.Fprintf(w, "🗑️ Deleted existing %s '%s' before updating.\n", kind, name)
	case github.OutcomeNotFound:
		fmt.Fprintf(w, "ℹ️ %s '%s' did not exist, proceeding to create.\n", title, name)
	}

	if result.FellBack {
		fmt.Fprintf(w, "ℹ️ %s '%s' did not exist, proceeding to create.\n", title, name)
	}
}
