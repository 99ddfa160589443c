package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService is the keyring service name ghenv stores secrets under
	KeyringService = "ghenv"
	// KeyringUser is the account name of the GitHub token entry
	KeyringUser = "github-token"
)

// TokenManager stores a single GitHub token
type TokenManager interface {
	// Get returns the stored token, or an empty string when none is stored
	Get() (string, error)

	// Set stores token, replacing any previous one
	Set(token string) error

	// Delete removes the stored token. It reports whether a token was removed.
	Delete() (bool, error)
}

// KeyringStore keeps the token in the OS keyring
type KeyringStore struct {
	service string
	user    string
}

// NewKeyringStore creates a store for the default ghenv keyring entry
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{service: KeyringService, user: KeyringUser}
}

// Get implements TokenManager
func (s *KeyringStore) Get() (string, error) {
	token, err := keyring.Get(s.service, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read token from OS keyring: %w", err)
	}
	return token, nil
}

// Set implements TokenManager
func (s *KeyringStore) Set(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(s.service, s.user, token); err != nil {
		return fmt.Errorf("failed to store token in OS keyring: %w", err)
	}
	return nil
}

// Delete implements TokenManager
func (s *KeyringStore) Delete() (bool, error) {
	if err := keyring.Delete(s.service, s.user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to remove token from OS keyring: %w", err)
	}
	return true, nil
}

var _ TokenManager = (*KeyringStore)(nil)
