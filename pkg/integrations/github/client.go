package github

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/glitchid/pkg/cache"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/integrations"
)

// Provider is the Avatar.Provider value for GitHub avatars.
const Provider = "github"

// Client provides access to GitHub user profiles and avatars.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitHub API client with optional authentication.
// Pass an empty string for token to use unauthenticated requests (lower rate limits).
func NewClient(c cache.Cache, token string, cacheTTL time.Duration) *Client {
	headers := map[string]string{"Accept": "application/vnd.github.v3+json"}
	if token != "" {
		headers["Authorization"] = "Bearer " + token
	}

	return &Client{
		Client:  integrations.NewClient(c, "github:", cacheTTL, headers),
		baseURL: "https://api.github.com",
	}
}

// FetchUser retrieves a user's public profile.
// If refresh is true, cached data is bypassed.
func (c *Client) FetchUser(ctx context.Context, login string, refresh bool) (*User, error) {
	if err := ValidateLogin(login); err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidInput, err, "github")
	}

	var u User
	err := c.Cached(ctx, "user:"+login, refresh, &u, func() error {
		return c.Get(ctx, fmt.Sprintf("%s/users/%s", c.baseURL, login), &u)
	})
	if err != nil {
		if errors.Is(err, integrations.ErrNotFound) {
			return nil, fmt.Errorf("%w: github user %s", err, login)
		}
		return nil, err
	}
	return &u, nil
}

// FetchAvatar retrieves a user's profile and downloads their avatar image.
func (c *Client) FetchAvatar(ctx context.Context, login string, refresh bool) (*integrations.Avatar, error) {
	u, err := c.FetchUser(ctx, login, refresh)
	if err != nil {
		return nil, err
	}
	if u.AvatarURL == "" {
		return nil, fmt.Errorf("%w: github user %s has no avatar", integrations.ErrNotFound, login)
	}
	data, err := c.FetchImage(ctx, u.AvatarURL, refresh)
	if err != nil {
		return nil, err
	}
	return &integrations.Avatar{
		Provider: Provider,
		Login:    u.Login,
		Name:     u.Name,
		URL:      u.AvatarURL,
		Data:     data,
	}, nil
}

var _ integrations.AvatarSource = (*Client)(nil)
