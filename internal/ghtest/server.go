// Package ghtest provides an in-memory GitHub REST API for tests.
//
// The server understands the repository, environment, variable and secret
// endpoints used by ghenv. Secrets are opened with the server's private key
// as they arrive, so tests can assert on the plaintext GitHub would store.
package ghtest

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"golang.org/x/crypto/nacl/box"

	"ghenv/pkg/sealedbox"
)

// Token is the bearer token the server accepts
const Token = "test-token"

// KeyID identifies the server's secrets public key
const KeyID = "568250167242549743"

// Variable mirrors the API's variable object
type Variable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Request is a recorded request
type Request struct {
	Method        string
	Path          string
	Authorization string
	Accept        string
	Body          map[string]any
}

// Key returns "METHOD /path"
func (r Request) Key() string {
	return r.Method + " " + r.Path
}

// Server is a fake GitHub API for a single repository
type Server struct {
	*httptest.Server

	Owner   string
	Repo    string
	Private bool

	PublicKey  *[32]byte
	PrivateKey *[32]byte

	mu           sync.Mutex
	environments []string
	variables    map[string][]Variable
	secrets      map[string]map[string]string
	failures     map[string]int
	requests     []Request
}

// NewServer starts a fake API for owner/repo. It is closed with the test.
func NewServer(t *testing.T, owner, repo string) *Server {
	t.Helper()

	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate keypair: %v", err)
	}

	s := &Server{
		Owner:      owner,
		Repo:       repo,
		PublicKey:  pub,
		PrivateKey: priv,
		variables:  map[string][]Variable{},
		secrets:    map[string]map[string]string{},
		failures:   map[string]int{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	return s
}

// BaseURL returns the server URL with a trailing slash
func (s *Server) BaseURL() string {
	return s.URL + "/"
}

// AddEnvironment seeds an environment
func (s *Server) AddEnvironment(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureEnvironment(name)
}

// Environments returns the environment names in creation order
func (s *Server) Environments() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.environments...)
}

// SetVariable seeds or replaces a variable
func (s *Server) SetVariable(env, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureEnvironment(env)
	s.putVariable(env, name, value)
}

// Variable returns a stored variable value
func (s *Server) Variable(env, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.variables[env] {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// SetSecret seeds a secret
func (s *Server) SetSecret(env, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureEnvironment(env)
	if s.secrets[env] == nil {
		s.secrets[env] = map[string]string{}
	}
	s.secrets[env][name] = value
}

// Secret returns the decrypted value of a stored secret
func (s *Server) Secret(env, name string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.secrets[env][name]
	return v, ok
}

// FailWith makes "METHOD /path" answer with status until cleared
func (s *Server) FailWith(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+path] = status
}

// Requests returns the recorded requests
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestKeys returns "METHOD /path" for every recorded request
func (s *Server) RequestKeys() []string {
	var keys []string
	for _, r := range s.Requests() {
		keys = append(keys, r.Key())
	}
	return keys
}

// EnvPath returns the API path of an environment sub-resource
func (s *Server) EnvPath(env string, segments ...string) string {
	path := fmt.Sprintf("/repos/%s/%s/environments/%s", s.Owner, s.Repo, env)
	if len(segments) > 0 {
		path += "/" + strings.Join(segments, "/")
	}
	return path
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
		Accept:        r.Header.Get("Accept"),
	}
	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			rec.Body = body
		}
	}
	s.requests = append(s.requests, rec)

	w.Header().Set("Content-Type", "application/json")

	if rec.Authorization != "Bearer "+Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Bad credentials"})
		return
	}

	if status, ok := s.failures[rec.Key()]; ok {
		writeJSON(w, status, map[string]string{"message": fmt.Sprintf("injected failure %d", status)})
		return
	}

	if r.URL.Path == "/user" && r.Method == http.MethodGet {
		w.Header().Set("X-OAuth-Scopes", "repo, workflow")
		writeJSON(w, http.StatusOK, map[string]any{"login": "octocat"})
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if len(parts) < 3 || parts[0] != "repos" || parts[1] != s.Owner || parts[2] != s.Repo {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}
	parts = parts[3:]

	switch {
	case len(parts) == 0 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"id":        1296269,
			"name":      s.Repo,
			"full_name": s.Owner + "/" + s.Repo,
			"private":   s.Private,
		})
	case len(parts) == 1 && parts[0] == "environments" && r.Method == http.MethodGet:
		envs := make([]map[string]any, 0, len(s.environments))
		for _, name := range s.environments {
			envs = append(envs, map[string]any{"name": name})
		}
		writeJSON(w, http.StatusOK, map[string]any{"total_count": len(envs), "environments": envs})
	case len(parts) == 2 && parts[0] == "environments" && r.Method == http.MethodPut:
		s.ensureEnvironment(parts[1])
		writeJSON(w, http.StatusOK, map[string]any{"name": parts[1]})
	case len(parts) >= 3 && parts[0] == "environments":
		s.handleEnvironment(w, r.Method, parts[1], parts[2:], rec.Body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (s *Server) handleEnvironment(w http.ResponseWriter, method, env string, parts []string, body map[string]any) {
	if !s.hasEnvironment(env) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
		return
	}

	switch {
	case parts[0] == "variables" && len(parts) == 1 && method == http.MethodGet:
		vars := s.variables[env]
		if vars == nil {
			vars = []Variable{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"total_count": len(vars), "variables": vars})
	case parts[0] == "variables" && len(parts) == 1 && method == http.MethodPost:
		name, _ := body["name"].(string)
		value, _ := body["value"].(string)
		if s.findVariable(env, name) >= 0 {
			writeJSON(w, http.StatusConflict, map[string]string{"message": "Already exists - Variable already exists"})
			return
		}
		s.putVariable(env, name, value)
		writeJSON(w, http.StatusCreated, map[string]any{})
	case parts[0] == "variables" && len(parts) == 2 && method == http.MethodPut:
		if s.findVariable(env, parts[1]) < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		value, _ := body["value"].(string)
		s.putVariable(env, parts[1], value)
		w.WriteHeader(http.StatusNoContent)
	case parts[0] == "variables" && len(parts) == 2 && method == http.MethodDelete:
		i := s.findVariable(env, parts[1])
		if i < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		s.variables[env] = append(s.variables[env][:i], s.variables[env][i+1:]...)
		w.WriteHeader(http.StatusNoContent)
	case parts[0] == "secrets" && len(parts) == 2 && parts[1] == "public-key" && method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"key_id": KeyID,
			"key":    base64.StdEncoding.EncodeToString(s.PublicKey[:]),
		})
	case parts[0] == "secrets" && len(parts) == 2 && method == http.MethodPut:
		s.putSecret(w, env, parts[1], body)
	case parts[0] == "secrets" && len(parts) == 2 && method == http.MethodDelete:
		if _, ok := s.secrets[env][parts[1]]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
			return
		}
		delete(s.secrets[env], parts[1])
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (s *Server) putSecret(w http.ResponseWriter, env, name string, body map[string]any) {
	keyID, _ := body["key_id"].(string)
	encrypted, _ := body["encrypted_value"].(string)
	if keyID != KeyID || encrypted == "" {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Bad request - invalid key_id or encrypted_value"})
		return
	}

	plain, err := sealedbox.Open(encrypted, s.PublicKey, s.PrivateKey)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"message": "Bad request - could not decrypt"})
		return
	}

	if s.secrets[env] == nil {
		s.secrets[env] = map[string]string{}
	}
	_, existed := s.secrets[env][name]
	s.secrets[env][name] = plain

	if existed {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{})
}

func (s *Server) hasEnvironment(name string) bool {
	for _, env := range s.environments {
		if env == name {
			return true
		}
	}
	return false
}

func (s *Server) ensureEnvironment(name string) {
	if !s.hasEnvironment(name) {
		s.environments = append(s.environments, name)
	}
}

func (s *Server) findVariable(env, name string) int {
	for i, v := range s.variables[env] {
		if v.Name == name {
			return i
		}
	}
	return -1
}

func (s *Server) putVariable(env, name, value string) {
	if i := s.findVariable(env, name); i >= 0 {
		s.variables[env][i].Value = value
		return
	}
	s.variables[env] = append(s.variables[env], Variable{Name: name, Value: value})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
