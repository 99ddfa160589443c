package cmd

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghenv/pkg/github"
)

func TestCreateVarCommand(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	stdout, _, err := runAgainst(t, server, "create-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "info")
	require.NoError(t, err)
	assert.Equal(t, "✅ Environment variable 'LOG_LEVEL' added.\n", stdout)

	value, ok := server.Variable("prod", "LOG_LEVEL")
	require.True(t, ok)
	assert.Equal(t, "info", value)
}

func TestCreateVarCommandConflict(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "LOG_LEVEL", "info")

	stdout, _, err := runAgainst(t, server, "create-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "debug")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, http.StatusConflict, github.StatusCode(err))
	assert.Contains(t, err.Error(), "Already exists")
}

func TestUpdateVarCommand(t *testing.T) {
	tests := []struct {
		name             string
		policy           string
		existing         bool
		expectedOutput   string
		expectedRequests []string
	}{
		{
			name:     "recreate existing",
			policy:   "recreate",
			existing: true,
			expectedOutput: "🗑️ Deleted existing variable 'LOG_LEVEL' before updating.\n" +
				"✅ Updated environment variable 'LOG_LEVEL'.\n",
			expectedRequests: []string{
				"DELETE /repos/acme/widgets/environments/prod/variables/LOG_LEVEL",
				"POST /repos/acme/widgets/environments/prod/variables",
			},
		},
		{
			name: "default policy on absent variable",
			expectedOutput: "ℹ️ Variable 'LOG_LEVEL' did not exist, proceeding to create.\n" +
				"✅ Created environment variable 'LOG_LEVEL'.\n",
			expectedRequests: []string{
				"DELETE /repos/acme/widgets/environments/prod/variables/LOG_LEVEL",
				"POST /repos/acme/widgets/environments/prod/variables",
			},
		},
		{
			name:           "put existing",
			policy:         "put",
			existing:       true,
			expectedOutput: "✅ Updated environment variable 'LOG_LEVEL'.\n",
			expectedRequests: []string{
				"PUT /repos/acme/widgets/environments/prod/variables/LOG_LEVEL",
			},
		},
		{
			name:   "put falls back to create",
			policy: "PUT",
			expectedOutput: "ℹ️ Variable 'LOG_LEVEL' did not exist, proceeding to create.\n" +
				"✅ Created environment variable 'LOG_LEVEL'.\n",
			expectedRequests: []string{
				"PUT /repos/acme/widgets/environments/prod/variables/LOG_LEVEL",
				"POST /repos/acme/widgets/environments/prod/variables",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestEnv(t)
			server.AddEnvironment("prod")
			if tt.existing {
				server.SetVariable("prod", "LOG_LEVEL", "info")
			}

			args := []string{"update-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "debug"}
			if tt.policy != "" {
				args = append(args, "--policy", tt.policy)
			}

			stdout, _, err := runAgainst(t, server, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedOutput, stdout)
			assert.Equal(t, tt.expectedRequests, server.RequestKeys())

			value, ok := server.Variable("prod", "LOG_LEVEL")
			require.True(t, ok)
			assert.Equal(t, "debug", value)
		})
	}
}

func TestUpdateVarCommandDebugShowsSteps(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "LOG_LEVEL", "info")

	_, stderr, err := runAgainst(t, server, "update-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "debug", "--policy", "recreate", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, "recreate update (delete=204 put=0 create=201)")
}

func TestUpdateVarCommandPolicyFromConfig(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "LOG_LEVEL", "info")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("variables:\n  update_policy: put\n"), 0600))

	_, _, err := runAgainst(t, server, "update-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "debug", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, []string{"PUT /repos/acme/widgets/environments/prod/variables/LOG_LEVEL"}, server.RequestKeys())
}

func TestUpdateVarCommandInvalidPolicy(t *testing.T) {
	server := newTestEnv(t)

	_, _, err := runAgainst(t, server, "update-var", "--repo", "acme/widgets", "--env", "prod", "--name", "A", "--value", "1", "--policy", "patch")
	require.Error(t, err)
	assert.True(t, github.IsUsageError(err))
	assert.Empty(t, server.Requests())
}

func TestUpdateVarCommandDeleteFailure(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "LOG_LEVEL", "info")
	server.FailWith(http.MethodDelete, server.EnvPath("prod", "variables", "LOG_LEVEL"), http.StatusInternalServerError)

	stdout, _, err := runAgainst(t, server, "update-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL", "--value", "debug", "--policy", "recreate")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, err.Error(), "failed to delete variable before update")
	assert.Equal(t, []string{"DELETE /repos/acme/widgets/environments/prod/variables/LOG_LEVEL"}, server.RequestKeys())

	value, _ := server.Variable("prod", "LOG_LEVEL")
	assert.Equal(t, "info", value)
}

func TestDeleteVarCommand(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "DEBUG", "1")

	stdout, _, err := runAgainst(t, server, "delete-var", "--repo", "acme/widgets", "--env", "prod", "--name", "DEBUG")
	require.NoError(t, err)
	assert.Equal(t, "✅ Deleted variable 'DEBUG'.\n", stdout)

	_, ok := server.Variable("prod", "DEBUG")
	assert.False(t, ok)
}

func TestDeleteVarCommandNotFound(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	stdout, _, err := runAgainst(t, server, "delete-var", "--repo", "acme/widgets", "--env", "prod", "--name", "DEBUG")
	require.NoError(t, err, "deleting a missing variable is not a failure")
	assert.Equal(t, "ℹ️ Variable 'DEBUG' not found.\n", stdout)
}

func TestCheckVarCommand(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "LOG_LEVEL", "info")

	stdout, _, err := runAgainst(t, server, "check-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG_LEVEL")
	require.NoError(t, err)
	assert.Equal(t, "✅ Variable 'LOG_LEVEL' exists in environment 'prod'.\n", stdout)

	stdout, _, err = runAgainst(t, server, "check-var", "--repo", "acme/widgets", "--env", "prod", "--name", "LOG")
	require.NoError(t, err, "a missing variable is an answer, not a failure")
	assert.Equal(t, "❌ Variable 'LOG' does NOT exist in environment 'prod'.\n", stdout)
}

func TestCheckVarCommandListFailure(t *testing.T) {
	server := newTestEnv(t)

	_, _, err := runAgainst(t, server, "check-var", "--repo", "acme/widgets", "--env", "missing", "--name", "LOG_LEVEL")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, github.StatusCode(err))
}

func TestListVarsCommand(t *testing.T) {
	server := newTestEnv(t)
	server.SetVariable("prod", "A", "1")
	server.SetVariable("prod", "B", "2")

	stdout, _, err := runAgainst(t, server, "list-vars", "--repo", "acme/widgets", "--env", "prod")
	require.NoError(t, err)
	assert.Equal(t, "Variables in 'prod':\n- A\n- B\n", stdout)
	assert.NotContains(t, stdout, "1")
}

func TestListVarsCommandEmpty(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	stdout, _, err := runAgainst(t, server, "list-vars", "--repo", "acme/widgets", "--env", "prod")
	require.NoError(t, err)
	assert.Equal(t, "No variables found in environment 'prod'.\n", stdout)
}
