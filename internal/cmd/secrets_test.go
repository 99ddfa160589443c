package cmd

import (
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghenv/internal/ghtest"
	"ghenv/pkg/github"
)

func TestCreateSecretCommand(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	stdout, _, err := runAgainst(t, server, "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY", "--value", "shhh")
	require.NoError(t, err)
	assert.Equal(t, "✅ Secret 'API_KEY' added.\n", stdout)

	assert.Equal(t, []string{
		"GET /repos/acme/widgets/environments/prod/secrets/public-key",
		"PUT /repos/acme/widgets/environments/prod/secrets/API_KEY",
	}, server.RequestKeys())

	put := server.Requests()[1]
	assert.Equal(t, ghtest.KeyID, put.Body["key_id"])
	assert.NotEqual(t, "shhh", put.Body["encrypted_value"])

	value, ok := server.Secret("prod", "API_KEY")
	require.True(t, ok)
	assert.Equal(t, "shhh", value)
}

func TestCreateSecretCommandFromStdin(t *testing.T) {
	tests := []struct {
		name     string
		stdin    string
		expected string
	}{
		{name: "trailing newline", stdin: "shhh\n", expected: "shhh"},
		{name: "windows newline", stdin: "shhh\r\n", expected: "shhh"},
		{name: "only one newline is dropped", stdin: "line1\nline2\n\n", expected: "line1\nline2\n"},
		{name: "no newline", stdin: "shhh", expected: "shhh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestEnv(t)
			server.AddEnvironment("prod")

			_, _, err := executeCommand(t, tt.stdin, "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY",
				"--api-url", server.URL, "--token", ghtest.Token)
			require.NoError(t, err)

			value, ok := server.Secret("prod", "API_KEY")
			require.True(t, ok)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestCreateSecretCommandEmptyStdin(t *testing.T) {
	server := newTestEnv(t)

	_, _, err := executeCommand(t, "", "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY",
		"--api-url", server.URL, "--token", ghtest.Token)
	require.Error(t, err)
	assert.True(t, github.IsUsageError(err))
	assert.Empty(t, server.Requests())
}

// fakeTerminal makes stdin look like a terminal whose hidden input is typed
func fakeTerminal(t *testing.T, typed string) {
	t.Helper()

	r, w, err := os.Pipe()
	require.NoError(t, err)
	t.Cleanup(func() {
		r.Close()
		w.Close()
	})

	origTerminal, origPassword := isTerminal, readPassword
	isTerminal = func(int) bool { return true }
	readPassword = func(int) ([]byte, error) { return []byte(typed), nil }
	t.Cleanup(func() {
		isTerminal, readPassword = origTerminal, origPassword
	})

	rootCmd.SetIn(r)
}

func executeWithTerminal(t *testing.T, typed string, args ...string) (string, string, error) {
	t.Helper()

	resetFlags(rootCmd)
	fakeTerminal(t, typed)

	var stdout, stderr strings.Builder
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCreateSecretCommandFromTerminal(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	_, stderr, err := executeWithTerminal(t, "typed-secret", "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY",
		"--api-url", server.URL, "--token", ghtest.Token)
	require.NoError(t, err)
	assert.Contains(t, stderr, "Value for secret 'API_KEY': ")

	value, ok := server.Secret("prod", "API_KEY")
	require.True(t, ok)
	assert.Equal(t, "typed-secret", value)
}

func TestCreateSecretCommandEmptyTerminalInput(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	_, _, err := executeWithTerminal(t, "", "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY",
		"--api-url", server.URL, "--token", ghtest.Token)
	require.Error(t, err)
	assert.True(t, github.IsUsageError(err))
	assert.Contains(t, err.Error(), "no value given")
	assert.Empty(t, server.Requests())
}

func TestCreateSecretCommandExplicitEmptyValue(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	_, _, err := runAgainst(t, server, "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "EMPTY", "--value", "")
	require.NoError(t, err)

	value, ok := server.Secret("prod", "EMPTY")
	require.True(t, ok)
	assert.Empty(t, value)
}

func TestCreateSecretCommandPublicKeyFailure(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")
	server.FailWith(http.MethodGet, server.EnvPath("prod", "secrets", "public-key"), http.StatusForbidden)

	stdout, _, err := runAgainst(t, server, "create-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY", "--value", "shhh")
	require.Error(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, err.Error(), "failed to get public key")
	assert.Equal(t, []string{"GET /repos/acme/widgets/environments/prod/secrets/public-key"}, server.RequestKeys())
}

func TestUpdateSecretCommand(t *testing.T) {
	server := newTestEnv(t)
	server.SetSecret("prod", "API_KEY", "old")

	stdout, _, err := runAgainst(t, server, "update-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY", "--value", "new")
	require.NoError(t, err)
	assert.Equal(t, "🗑️ Deleted existing secret 'API_KEY' before updating.\n"+
		"✅ Updated environment secret 'API_KEY'.\n", stdout)

	assert.Equal(t, []string{
		"DELETE /repos/acme/widgets/environments/prod/secrets/API_KEY",
		"GET /repos/acme/widgets/environments/prod/secrets/public-key",
		"PUT /repos/acme/widgets/environments/prod/secrets/API_KEY",
	}, server.RequestKeys())

	value, _ := server.Secret("prod", "API_KEY")
	assert.Equal(t, "new", value)
}

func TestUpdateSecretCommandAbsent(t *testing.T) {
	server := newTestEnv(t)
	server.AddEnvironment("prod")

	stdout, _, err := runAgainst(t, server, "update-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY", "--value", "new")
	require.NoError(t, err)
	assert.Equal(t, "ℹ️ Secret 'API_KEY' did not exist, proceeding to create.\n"+
		"✅ Created environment secret 'API_KEY'.\n", stdout)
}

func TestUpdateSecretCommandCreateFailure(t *testing.T) {
	server := newTestEnv(t)
	server.SetSecret("prod", "API_KEY", "old")
	server.FailWith(http.MethodPut, server.EnvPath("prod", "secrets", "API_KEY"), http.StatusUnprocessableEntity)

	stdout, _, err := runAgainst(t, server, "update-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY", "--value", "new")
	require.Error(t, err)
	assert.Equal(t, "🗑️ Deleted existing secret 'API_KEY' before updating.\n", stdout)
	assert.Contains(t, err.Error(), "failed to create secret")
	assert.Equal(t, http.StatusUnprocessableEntity, github.StatusCode(err))
}

func TestDeleteSecretCommand(t *testing.T) {
	server := newTestEnv(t)
	server.SetSecret("prod", "API_KEY", "shhh")

	stdout, _, err := runAgainst(t, server, "delete-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "✅ Deleted secret 'API_KEY'.\n", stdout)

	stdout, _, err = runAgainst(t, server, "delete-secret", "--repo", "acme/widgets", "--env", "prod", "--name", "API_KEY")
	require.NoError(t, err)
	assert.Equal(t, "ℹ️ Secret 'API_KEY' not found.\n", stdout)
}
