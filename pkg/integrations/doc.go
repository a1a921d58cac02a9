// Package integrations fetches avatar images from remote services.
//
// # Overview
//
// A frame usually starts from someone's profile picture. The subpackages
// resolve a login to an avatar image:
//
//   - [github]: GitHub users (api.github.com)
//   - [gitlab]: GitLab users (gitlab.com/api/v4)
//
// [Client.FetchImage] downloads any image URL directly.
//
// # Client Pattern
//
// Every provider wraps the shared [Client] and implements [AvatarSource]:
//
//	client := github.NewClient(c, token, 24*time.Hour)
//	avatar, err := client.FetchAvatar(ctx, "octocat", false) // false = use cache
//
// The shared client handles:
//   - request headers and a fixed timeout
//   - retries with backoff for network failures and 5xx responses
//   - response caching through [cache.Cache]
//   - a size cap on downloaded images
//
// [github]: github.com/matzehuels/glitchid/pkg/integrations/github
// [gitlab]: github.com/matzehuels/glitchid/pkg/integrations/gitlab
package integrations
