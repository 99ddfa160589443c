package auth

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"
)

// BrowserOpener opens URLs in the user's browser
type BrowserOpener interface {
	Open(url string) error
}

// DefaultBrowserOpener starts the platform's URL handler
type DefaultBrowserOpener struct {
	goos string
}

// NewBrowserOpener creates a browser opener for the running platform
func NewBrowserOpener() *DefaultBrowserOpener {
	return &DefaultBrowserOpener{goos: runtime.GOOS}
}

// Open implements BrowserOpener
func (b *DefaultBrowserOpener) Open(rawURL string) error {
	name, args, err := browserCommand(b.goos, rawURL)
	if err != nil {
		return err
	}

	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func browserCommand(goos, rawURL string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{rawURL}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// TokenCreationURL returns the page for creating a classic token with the
// repo scope on the GitHub instance that serves apiURL.
func TokenCreationURL(apiURL string) string {
	web := "https://github.com"
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" && u.Host != "api.github.com" {
		// GitHub Enterprise Server serves the API under /api/v3
		web = u.Scheme + "://" + u.Host
	}

	q := url.Values{}
	q.Set("scopes", "repo")
	q.Set("description", "ghenv")
	return strings.TrimSuffix(web, "/") + "/settings/tokens/new?" + q.Encode()
}
