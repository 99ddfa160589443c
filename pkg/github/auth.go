package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ghenv/pkg/config"
)

// TokenEnvVar is the environment variable holding the GitHub token
const TokenEnvVar = "GITHUB_TOKEN"

// Token sources, in precedence order
const (
	TokenSourceFlag    = "flag"
	TokenSourceEnv     = "environment"
	TokenSourceKeyring = "keyring"
	TokenSourceConfig  = "config"
)

// TokenStore is a persistent token location such as the OS keyring.
// Get returns an empty string when no token is stored.
type TokenStore interface {
	Get() (string, error)
}

// AuthManager resolves the GitHub token from its possible sources
type AuthManager struct {
	store TokenStore
}

// NewAuthManager creates a new authentication manager. store may be nil.
func NewAuthManager(store TokenStore) *AuthManager {
	return &AuthManager{store: store}
}

// ResolvedToken is a token together with where it was found. StoreErr
// records a token store failure that resolution skipped past.
type ResolvedToken struct {
	Value    string
	Source   string
	StoreErr error
}

// GetToken returns the first token found in the flag value, GITHUB_TOKEN,
// the token store and the config file. A failing store, such as a keyring
// without a Secret Service, is skipped. No token is a usage error.
func (am *AuthManager) GetToken(flagToken string, cfg *config.Config) (ResolvedToken, error) {
	if token := strings.TrimSpace(flagToken); token != "" {
		return ResolvedToken{Value: token, Source: TokenSourceFlag}, nil
	}

	if token := strings.TrimSpace(os.Getenv(TokenEnvVar)); token != "" {
		return ResolvedToken{Value: token, Source: TokenSourceEnv}, nil
	}

	var storeErr error
	if am.store != nil {
		token, err := am.store.Get()
		if err != nil {
			storeErr = err
		} else if token = strings.TrimSpace(token); token != "" {
			return ResolvedToken{Value: token, Source: TokenSourceKeyring}, nil
		}
	}

	if cfg != nil && strings.TrimSpace(cfg.GitHub.Token) != "" {
		return ResolvedToken{Value: strings.TrimSpace(cfg.GitHub.Token), Source: TokenSourceConfig, StoreErr: storeErr}, nil
	}

	msg := fmt.Sprintf("no GitHub token found: pass --token, set %s, run 'ghenv auth login', or configure github.token in ~/.ghenv/config.yaml", TokenEnvVar)
	if storeErr != nil {
		msg += fmt.Sprintf(" (keyring unavailable: %v)", storeErr)
	}
	return ResolvedToken{StoreErr: storeErr}, &UsageError{Message: msg}
}

// TokenInfo contains information about the authenticated token
type TokenInfo struct {
	User   string   `json:"user"`
	Scopes []string `json:"scopes"`
}

// ValidateToken fetches the authenticated user. Scopes are only reported
// for classic tokens; fine-grained tokens return none.
func (c *Client) ValidateToken(ctx context.Context) (*TokenInfo, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, newAPIError(resp, err, "authenticated user")
	}

	scopes := []string{}
	if scopeHeader := resp.Header.Get("X-OAuth-Scopes"); scopeHeader != "" {
		scopes = strings.Split(strings.ReplaceAll(scopeHeader, " ", ""), ",")
	}

	return &TokenInfo{
		User:   user.GetLogin(),
		Scopes: scopes,
	}, nil
}

// GetAuthInstructions returns instructions for setting up GitHub authentication
func GetAuthInstructions() string {
	return `GitHub authentication is required. Use one of the following methods:

1. Command line flag:
   ghenv <command> --token "your_personal_access_token"

2. Environment Variable (Recommended for CI/CD), also read from ./.env:
   export GITHUB_TOKEN="your_personal_access_token"

3. OS keyring:
   ghenv auth login

4. Configuration File (~/.ghenv/config.yaml):

   github:
     token: "your_personal_access_token"

The token needs the 'repo' scope (classic tokens), or read and write access to
Environments, Variables and Secrets (fine-grained tokens).`
}
