package gitlab

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matzehuels/glitchid/pkg/cache"
	"github.com/matzehuels/glitchid/pkg/integrations"
)

// Provider is the Avatar.Provider value for GitLab avatars.
const Provider = "gitlab"

// User is the subset of a GitLab user record we read.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Client provides access to GitLab user profiles and avatars.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a GitLab API client with optional authentication.
// An empty token uses unauthenticated requests.
func NewClient(c cache.Cache, token string, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}

	return &Client{
		Client:  integrations.NewClient(c, "gitlab:", cacheTTL, headers),
		baseURL: "https://gitlab.com/api/v4",
	}
}

// FetchUser looks up a user by username.
func (c *Client) FetchUser(ctx context.Context, username string, refresh bool) (*User, error) {
	if username == "" {
		return nil, errors.New("gitlab: username is required")
	}

	var users []User
	err := c.Cached(ctx, "user:"+username, refresh, &users, func() error {
		url := fmt.Sprintf("%s/users?username=%s", c.baseURL, integrations.URLEncode(username))
		return c.Get(ctx, url, &users)
	})
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: gitlab user %s", integrations.ErrNotFound, username)
	}
	return &users[0], nil
}

// FetchAvatar looks up a user and downloads their avatar image.
func (c *Client) FetchAvatar(ctx context.Context, username string, refresh bool) (*integrations.Avatar, error) {
	u, err := c.FetchUser(ctx, username, refresh)
	if err != nil {
		return nil, err
	}
	if u.AvatarURL == "" {
		return nil, fmt.Errorf("%w: gitlab user %s has no avatar", integrations.ErrNotFound, username)
	}
	data, err := c.FetchImage(ctx, u.AvatarURL, refresh)
	if err != nil {
		return nil, err
	}
	return &integrations.Avatar{
		Provider: Provider,
		Login:    u.Username,
		Name:     u.Name,
		URL:      u.AvatarURL,
		Data:     data,
	}, nil
}

var _ integrations.AvatarSource = (*Client)(nil)
