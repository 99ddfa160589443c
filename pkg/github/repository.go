package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v66/github"
)

// GetRepository retrieves a repository by reference
func (c *Client) GetRepository(ctx context.Context, ref RepositoryRef) (*Repository, error) {
	repo, resp, err := c.client.Repositories.Get(ctx, ref.Owner, ref.Name)
	if err != nil {
		return nil, newAPIError(resp, err, fmt.Sprintf("repository %s", ref))
	}

	return convertGitHubRepository(repo), nil
}

// ListEnvironments returns the names of the repository's deployment
// environments from the first page of results
func (c *Client) ListEnvironments(ctx context.Context, ref RepositoryRef) ([]string, error) {
	opts := &github.EnvironmentListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	envs, resp, err := c.client.Repositories.ListEnvironments(ctx, ref.Owner, ref.Name, opts)
	if err != nil {
		return nil, newAPIError(resp, err, fmt.Sprintf("environments for %s", ref))
	}

	names := make([]string, 0, len(envs.Environments))
	for _, env := range envs.Environments {
		names = append(names, env.GetName())
	}
	return names, nil
}

// EnsureEnvironment creates the environment when it is not already present.
// It reports whether an environment was created.
func (c *Client) EnsureEnvironment(ctx context.Context, ref RepositoryRef, env string) (bool, error) {
	existing, err := c.ListEnvironments(ctx, ref)
	if err != nil {
		return false, err
	}

	for _, name := range existing {
		if name == env {
			return false, nil
		}
	}

	_, resp, err := c.client.Repositories.CreateUpdateEnvironment(ctx, ref.Owner, ref.Name, env, &github.CreateUpdateEnvironment{})
	if err != nil {
		return false, newAPIError(resp, err, fmt.Sprintf("environment %s in %s", env, ref))
	}

	return true, nil
}

// convertGitHubRepository converts a GitHub API repository to our internal type
func convertGitHubRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:       repo.GetID(),
		Name:     repo.GetName(),
		FullName: repo.GetFullName(),
		Private:  repo.GetPrivate(),
	}
}
