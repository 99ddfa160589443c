package github

import "context"

// RepositoryAccessor resolves repositories and their deployment environments
type RepositoryAccessor interface {
	GetRepository(ctx context.Context, ref RepositoryRef) (*Repository, error)
	EnsureEnvironment(ctx context.Context, ref RepositoryRef, env string) (bool, error)
}

// VariableService manages environment variables
type VariableService interface {
	Create(ctx context.Context, ref RepositoryRef, env, name, value string) (Result, error)
	Update(ctx context.Context, ref RepositoryRef, env, name, value string, policy UpdatePolicy) (UpdateResult, error)
	Delete(ctx context.Context, ref RepositoryRef, env, name string) (Result, error)
	Exists(ctx context.Context, ref RepositoryRef, env, name string) (bool, error)
	List(ctx context.Context, ref RepositoryRef, env string) ([]Variable, error)
}

// SecretService manages environment secrets
type SecretService interface {
	Create(ctx context.Context, ref RepositoryRef, env, name, value string) (Result, error)
	Update(ctx context.Context, ref RepositoryRef, env, name, value string) (UpdateResult, error)
	Delete(ctx context.Context, ref RepositoryRef, env, name string) (Result, error)
}

var (
	_ RepositoryAccessor = (*Client)(nil)
	_ VariableService    = (*VariableManager)(nil)
	_ SecretService      = (*SecretManager)(nil)
)
