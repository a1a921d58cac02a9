package errors

import (
	"strings"
	"unicode"
)

// MaxIdentityBytes bounds raw identity input before normalization.
// Identities are truncated to a handful of runes later; this only rejects
// obviously abusive payloads.
const MaxIdentityBytes = 256

// ValidateIdentity validates a raw identity string for safety.
//
// The validation rules are intentionally conservative:
//   - Maximum length of MaxIdentityBytes bytes
//   - No control characters (including newlines and null bytes)
//
// An empty identity is valid; callers substitute a default.
func ValidateIdentity(name string) error {
	if len(name) > MaxIdentityBytes {
		return New(ErrCodeInvalidIdentity, "identity too long (max %d bytes)", MaxIdentityBytes)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidIdentity, "identity contains invalid control characters")
		}
	}

	return nil
}

// ValidateSize checks that an output edge length is usable.
// Slices are up to 49 rows tall, so anything smaller than min cannot be
// corrupted without running off the frame.
func ValidateSize(size, min, max int) error {
	if size < min || size > max {
		return New(ErrCodeInvalidSize, "size %d out of range [%d, %d]", size, min, max)
	}
	return nil
}

// ValidateSourceName validates a user-supplied source filename for safety.
// It ensures the filename is a simple basename without path components.
func ValidateSourceName(filename string) error {
	if filename == "" {
		return nil
	}

	if strings.ContainsAny(filename, "/\\") {
		return New(ErrCodeInvalidInput, "source filename cannot contain path separators")
	}

	for _, r := range filename {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "source filename contains invalid characters")
		}
	}

	return nil
}
