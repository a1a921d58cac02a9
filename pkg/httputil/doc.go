// Package httputil provides HTTP response helpers for the glitchid server.
//
// # Overview
//
//   - [StatusFor]: map coded errors onto HTTP status codes
//   - [WriteError]: write a JSON error body with the matching status
//   - [WriteJSON]: write any value as JSON
//   - [AttachmentDisposition]: build a Content-Disposition header
//
// # Error bodies
//
// Errors are written as:
//
//	{"error": {"code": "INVALID_SEED", "message": "seed must be an unsigned integer"}}
//
// Internal errors carry a generic message; the cause is only logged.
package httputil
