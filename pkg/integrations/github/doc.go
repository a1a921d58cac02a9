// Package github resolves GitHub logins to avatar images.
//
// # Usage
//
//	client := github.NewClient(c, token, 24*time.Hour)
//	avatar, err := client.FetchAvatar(ctx, "octocat", false)
//	if err != nil {
//	    return err
//	}
//	opts.Source = avatar.Data
//
// # Authentication
//
// A GitHub personal access token is optional. Without a token, the client
// is limited to 60 requests/hour. With a token, the limit is 5000 requests/hour.
//
// # Caching
//
// Profiles and image bytes are cached for the TTL given to [NewClient].
// Pass refresh=true to bypass the cache.
package github
