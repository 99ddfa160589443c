package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public GitHub REST API endpoint
	DefaultBaseURL = "https://api.github.com/"

	mediaTypeGitHubJSON = "application/vnd.github+json"
)

// Client wraps an authenticated go-github client
type Client struct {
	client *github.Client
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	return NewClientWithTransport(token, nil)
}

// NewClientWithTransport creates a client whose bearer-token transport sits
// on top of base. A nil base uses http.DefaultTransport.
func NewClientWithTransport(token string, base http.RoundTripper) *Client {
	ctx := context.Background()
	if base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Transport: base})
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client: github.NewClient(tc),
	}
}

// SetBaseURL points the client at another API root, such as a GitHub
// Enterprise Server or a test server. An empty string keeps the current URL.
func (c *Client) SetBaseURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.HasSuffix(raw, "/") {
		raw += "/"
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid API URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API URL %q: scheme must be http or https", raw)
	}

	c.client.BaseURL = u
	return nil
}

// BaseURL returns the API root requests are sent to
func (c *Client) BaseURL() string {
	return c.client.BaseURL.String()
}

// newRequest builds a request relative to the base URL with the GitHub JSON media type
func (c *Client) newRequest(method, path string, body any) (*http.Request, error) {
	req, err := c.client.NewRequest(method, path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s %s request: %w", method, path, err)
	}
	req.Header.Set("Accept", mediaTypeGitHubJSON)
	return req, nil
}

// do sends req and decodes a JSON body into v when v is non-nil
func (c *Client) do(ctx context.Context, req *http.Request, v any) (*github.Response, error) {
	return c.client.Do(ctx, req, v)
}

// statusCode returns the response status, or zero without a response
func statusCode(resp *github.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}

// environmentPath builds repos/{owner}/{repo}/environments/{env}/{segments...}
// with each segment path-escaped.
func environmentPath(ref RepositoryRef, env string, segments ...string) string {
	parts := []string{
		"repos",
		url.PathEscape(ref.Owner),
		url.PathEscape(ref.Name),
		"environments",
		url.PathEscape(env),
	}
	for _, s := range segments {
		parts = append(parts, url.PathEscape(s))
	}
	return strings.Join(parts, "/")
}
