package github

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a repository by owner and name
type RepositoryRef struct {
	Owner string
	Name  string
}

// String returns the owner/name form
func (r RepositoryRef) String() string {
	return r.Owner + "/" + r.Name
}

// ParseRepositoryRef splits an "owner/repo" string. Anything other than
// exactly one separator with non-empty halves is a usage error.
func ParseRepositoryRef(s string) (RepositoryRef, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return RepositoryRef{}, NewUsageError("invalid repository %q: expected owner/repo", s)
	}
	return RepositoryRef{Owner: parts[0], Name: parts[1]}, nil
}

// Repository represents a GitHub repository
type Repository struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
	Private  bool   `json:"private"`
}

// Variable represents a plain-text environment variable
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// variablesPage is a single page of the list variables endpoint
type variablesPage struct {
	TotalCount int        `json:"total_count"`
	Variables  []Variable `json:"variables"`
}

// Outcome describes what a successful write did on GitHub
type Outcome string

const (
	OutcomeCreated  Outcome = "created"
	OutcomeUpdated  Outcome = "updated"
	OutcomeDeleted  Outcome = "deleted"
	OutcomeNotFound Outcome = "not_found"
)

// Result is the status code and outcome of a single request. A zero
// StatusCode means the request was never sent.
type Result struct {
	StatusCode int     `json:"status_code"`
	Outcome    Outcome `json:"outcome,omitempty"`
}

// Attempted reports whether the request reached GitHub
func (r Result) Attempted() bool {
	return r.StatusCode != 0
}

// UpdatePolicy selects how a variable update is carried out
type UpdatePolicy string

const (
	// UpdatePolicyRecreate deletes the variable and creates it again
	UpdatePolicyRecreate UpdatePolicy = "recreate"
	// UpdatePolicyPut updates in place and creates the variable when the update reports 404
	UpdatePolicyPut UpdatePolicy = "put"
)

// DefaultUpdatePolicy is used when neither flag nor config selects a policy
const DefaultUpdatePolicy = UpdatePolicyRecreate

// ParseUpdatePolicy parses a policy name; the empty string selects the default
func ParseUpdatePolicy(s string) (UpdatePolicy, error) {
	switch UpdatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultUpdatePolicy, nil
	case UpdatePolicyRecreate:
		return UpdatePolicyRecreate, nil
	case UpdatePolicyPut:
		return UpdatePolicyPut, nil
	default:
		return "", NewUsageError("invalid update policy %q: must be %q or %q", s, UpdatePolicyRecreate, UpdatePolicyPut)
	}
}

// UpdateResult records each step of an update. Steps that were not
// attempted keep a zero Result.
type UpdateResult struct {
	Policy   UpdatePolicy `json:"policy"`
	Delete   Result       `json:"delete"`
	Put      Result       `json:"put"`
	Create   Result       `json:"create"`
	FellBack bool         `json:"fell_back"`
}

// Final returns the result of the last attempted step
func (u UpdateResult) Final() Result {
	switch {
	case u.Create.Attempted():
		return u.Create
	case u.Put.Attempted():
		return u.Put
	default:
		return u.Delete
	}
}

func (u UpdateResult) String() string {
	return fmt.Sprintf("%s update (delete=%d put=%d create=%d)", u.Policy, u.Delete.StatusCode, u.Put.StatusCode, u.Create.StatusCode)
}
