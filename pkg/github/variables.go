package github

import (
	"context"
	"fmt"
	"net/http"
)

// VariableManager manages plain-text variables of a deployment environment
type VariableManager struct {
	client *Client
}

// NewVariableManager creates a variable manager using client
func NewVariableManager(client *Client) *VariableManager {
	return &VariableManager{client: client}
}

func variableResource(ref RepositoryRef, env, name string) string {
	if name == "" {
		return fmt.Sprintf("variables in %s/%s", ref, env)
	}
	return fmt.Sprintf("variable %s in %s/%s", name, ref, env)
}

// Create adds a new variable. GitHub answers 201 on success and 409 when
// the name is already taken.
func (m *VariableManager) Create(ctx context.Context, ref RepositoryRef, env, name, value string) (Result, error) {
	req, err := m.client.newRequest(http.MethodPost, environmentPath(ref, env, "variables"), &Variable{Name: name, Value: value})
	if err != nil {
		return Result{}, err
	}

	resp, err := m.client.do(ctx, req, nil)
	status := statusCode(resp)
	if err == nil && status == http.StatusCreated {
		return Result{StatusCode: status, Outcome: OutcomeCreated}, nil
	}

	return Result{StatusCode: status}, newAPIError(resp, err, variableResource(ref, env, name))
}

// Delete removes a variable. A 404 is reported as OutcomeNotFound without error.
func (m *VariableManager) Delete(ctx context.Context, ref RepositoryRef, env, name string) (Result, error) {
	req, err := m.client.newRequest(http.MethodDelete, environmentPath(ref, env, "variables", name), nil)
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

	return Result{StatusCode: status}, newAPIError(resp, err, variableResource(ref, env, name))
}

// Update sets a variable's value using policy
func (m *VariableManager) Update(ctx context.Context, ref RepositoryRef, env, name, value string, policy UpdatePolicy) (UpdateResult, error) {
	switch policy {
	case "", UpdatePolicyRecreate:
		return m.recreate(ctx, ref, env, name, value)
	case UpdatePolicyPut:
		return m.put(ctx, ref, env, name, value)
	default:
		return UpdateResult{Policy: policy}, NewUsageError("invalid update policy %q", policy)
	}
}

// recreate deletes then creates. A failed delete stops before the create.
func (m *VariableManager) recreate(ctx context.Context, ref RepositoryRef, env, name, value string) (UpdateResult, error) {
	res := UpdateResult{Policy: UpdatePolicyRecreate}

	del, err := m.Delete(ctx, ref, env, name)
	res.Delete = del
	if err != nil {
		return res, fmt.Errorf("failed to delete variable before update: %w", err)
	}

	created, err := m.Create(ctx, ref, env, name, value)
	res.Create = created
	if err != nil {
		return res, fmt.Errorf("failed to create variable: %w", err)
	}

	return res, nil
}

// put updates in place and falls back to Create when the variable does not exist
func (m *VariableManager) put(ctx context.Context, ref RepositoryRef, env, name, value string) (UpdateResult, error) {
	res := UpdateResult{Policy: UpdatePolicyPut}

	req, err := m.client.newRequest(http.MethodPut, environmentPath(ref, env, "variables", name), &Variable{Name: name, Value: value})
	if err != nil {
		return res, err
	}

	resp, err := m.client.do(ctx, req, nil)
	status := statusCode(resp)
	switch {
	case err == nil && (status == http.StatusOK || status == http.StatusCreated || status == http.StatusNoContent):
		res.Put = Result{StatusCode: status, Outcome: OutcomeUpdated}
		return res, nil
	case status == http.StatusNotFound:
		res.Put = Result{StatusCode: status, Outcome: OutcomeNotFound}
		res.FellBack = true
	default:
		res.Put = Result{StatusCode: status}
		return res, fmt.Errorf("failed to update variable: %w", newAPIError(resp, err, variableResource(ref, env, name)))
	}

	created, err := m.Create(ctx, ref, env, name, value)
	res.Create = created
	if err != nil {
		return res, fmt.Errorf("failed to create variable after update returned 404: %w", err)
	}

	return res, nil
}

// List returns the variables on the first page of the environment's
// variable list, in the order GitHub returns them
func (m *VariableManager) List(ctx context.Context, ref RepositoryRef, env string) ([]Variable, error) {
	req, err := m.client.newRequest(http.MethodGet, environmentPath(ref, env, "variables"), nil)
	if err != nil {
		return nil, err
	}

	var page variablesPage
	resp, err := m.client.do(ctx, req, &page)
	if err != nil || statusCode(resp) != http.StatusOK {
		return nil, newAPIError(resp, err, variableResource(ref, env, ""))
	}

	if page.Variables == nil {
		return []Variable{}, nil
	}
	return page.Variables, nil
}

// Exists reports whether a variable with exactly this name is on the first page
func (m *VariableManager) Exists(ctx context.Context, ref RepositoryRef, env, name string) (bool, error) {
	vars, err := m.List(ctx, ref, env)
	if err != nil {
		return false, err
	}

	for _, v := range vars {
		if v.Name == name {
			return true, nil
		}
	}
	return false, nil
}
