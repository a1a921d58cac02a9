package github

import (
	"errors"
	"regexp"
)

// GitHub usernames: 1-39 alphanumeric or hyphen, not starting with hyphen.
var validLogin = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)

// ValidateLogin validates a GitHub username or organization name.
func ValidateLogin(login string) error {
	if login == "" {
		return errors.New("login is required")
	}
	if !validLogin.MatchString(login) {
		return errors.New("invalid login format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}
