package github

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"

	"ghenv/pkg/sealedbox"
)

// SecretManager manages sealed secrets of a deployment environment
type SecretManager struct {
	client *Client
}

// NewSecretManager creates a secret manager using client
func NewSecretManager(client *Client) *SecretManager {
	return &SecretManager{client: client}
}

func secretResource(ref RepositoryRef, env, name string) string {
	return fmt.Sprintf("secret %s in %s/%s", name, ref, env)
}

// PublicKey fetches the environment's current public key. Keys may rotate,
// so callers fetch it for every write.
func (m *SecretManager) PublicKey(ctx context.Context, ref RepositoryRef, env string) (*github.PublicKey, error) {
	req, err := m.client.newRequest(http.MethodGet, environmentPath(ref, env, "secrets", "public-key"), nil)
	if err != nil {
		return nil, err
	}

	key := new(github.PublicKey)
	resp, err := m.client.do(ctx, req, key)
	if err != nil || statusCode(resp) != http.StatusOK {
		return nil, newAPIError(resp, err, fmt.Sprintf("public key for %s/%s", ref, env))
	}

	return key, nil
}

// Create seals value with the environment public key and stores it. PUT is
// an upsert on GitHub: 201 means created and 204 means replaced.
func (m *SecretManager) Create(ctx context.Context, ref RepositoryRef, env, name, value string) (Result, error) {
	key, err := m.PublicKey(ctx, ref, env)
	if err != nil {
		return Result{StatusCode: StatusCode(err)}, fmt.Errorf("failed to get public key: %w", err)
	}

	encrypted, err := sealedbox.Seal(key.GetKey(), value)
	if err != nil {
		return Result{}, newEncryptionError(err, secretResource(ref, env, name))
	}

	body := &github.EncryptedSecret{
		Name:           name,
		KeyID:          key.GetKeyID(),
		EncryptedValue: encrypted,
	}

	req, err := m.client.newRequest(http.MethodPut, environmentPath(ref, env, "secrets", name), body)
	if err != nil {
		return Result{}, err
	}

	resp, err := m.client.do(ctx, req, nil)
	status := statusCode(resp)
	if err == nil {
		switch status {
		case http.StatusCreated:
			return Result{StatusCode: status, Outcome: OutcomeCreated}, nil
		case http.StatusNoContent:
			return Result{StatusCode: status, Outcome: OutcomeUpdated}, nil
		}
	}

	return Result{StatusCode: status}, newAPIError(resp, err, secretResource(ref, env, name))
}

// Delete removes a secret. A 404 is reported as OutcomeNotFound without error.
func (m *SecretManager) Delete(ctx context.Context, ref RepositoryRef, env, name string) (Result, error) {
	req, err := m.client.newRequest(http.MethodDelete, environmentPath(ref, env, "secrets", name), nil)
	if err != nil {
		return Result{}, err
	}

	resp, err := m.client.do(ctx, req, nil)
	status := statusCode(resp)
	switch {
	case err == nil && status == http.StatusNoContent:
		return Result{StatusCode: status, Outcome: OutcomeDeleted}, nil
	case status == http.StatusNotFound:
		return Result{StatusCode: status, Outcome: OutcomeNotFound}, nil
	}

	return Result{StatusCode: status}, newAPIError(resp, err, secretResource(ref, env, name))
}

// Update deletes the secret and creates it again. When the delete fails
// with anything other than 204 or 404 the create is not attempted.
func (m *SecretManager) Update(ctx context.Context, ref RepositoryRef, env, name, value string) (UpdateResult, error) {
	res := UpdateResult{Policy: UpdatePolicyRecreate}

	del, err := m.Delete(ctx, ref, env, name)
	res.Delete = del
	if err != nil {
		return res, fmt.Errorf("failed to delete secret before update: %w", err)
	}

	created, err := m.Create(ctx, ref, env, name, value)
	res.Create = created
	if err != nil {
		return res, fmt.Errorf("failed to create secret: %w", err)
	}

	return res, nil
}
