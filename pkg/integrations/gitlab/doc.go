// Package gitlab resolves GitLab usernames to avatar images.
//
// # Usage
//
//	client := gitlab.NewClient(c, "", 24*time.Hour)
//	avatar, err := client.FetchAvatar(ctx, "sytses", false)
//
// # Authentication
//
// A GitLab personal access token is optional. Without a token, only
// public profiles can be read.
package gitlab
