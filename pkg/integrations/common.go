package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"
)

const httpTimeout = 10 * time.Second

// MaxImageBytes caps downloaded avatar images.
const MaxImageBytes = 10 << 20

var (
	// ErrNotFound is returned when a user or image doesn't exist.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Avatar is a downloaded profile picture.
type Avatar struct {
	Provider string // "github", "gitlab" or "url"
	Login    string // account name; empty for plain URLs
	Name     string // display name, may be empty
	URL      string // where the image was fetched from
	Data     []byte // encoded image bytes
}

// Identity returns the name to print on the frame: the login when there is
// one, otherwise the display name.
func (a *Avatar) Identity() string {
	if a.Login != "" {
		return a.Login
	}
	return a.Name
}

// AvatarSource resolves a login to its avatar.
type AvatarSource interface {
	FetchAvatar(ctx context.Context, login string, refresh bool) (*Avatar, error)
}

// NewHTTPClient creates an HTTP client with a standard timeout.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }
