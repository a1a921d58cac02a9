package httputil

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	apperr "github.com/matzehuels/glitchid/pkg/errors"
)

// coder is implemented by errors that carry their own code.
type coder interface {
	Code() apperr.Code
}

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one error.
type ErrorDetail struct {
	Code    apperr.Code `json:"code"`
	Message string      `json:"message"`
}

// CodeOf returns the error code carried by err, or ErrCodeInternal.
func CodeOf(err error) apperr.Code {
	if code := apperr.GetCode(err); code != "" {
		return code
	}
	var c coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return apperr.ErrCodeInternal
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code apperr.Code) int {
	switch {
	case code == apperr.ErrCodeSourceTooLarge:
		return http.StatusRequestEntityTooLarge
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case code == apperr.ErrCodeNotFound:
		return http.StatusNotFound
	case code == apperr.ErrCodeCapability:
		return http.StatusServiceUnavailable
	case code == apperr.ErrCodeNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON error body and returns the status used.
func WriteError(w http.ResponseWriter, err error) int {
	code := CodeOf(err)
	status := StatusFor(code)

	msg := "internal error"
	if status < http.StatusInternalServerError || code == apperr.ErrCodeCapability {
		var c coder
		if apperr.GetCode(err) == "" && errors.As(err, &c) {
			msg = err.Error()
		} else {
			msg = apperr.UserMessage(err)
		}
	}

	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
	return status
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// AttachmentDisposition returns a Content-Disposition value offering
// filename as a download.
func AttachmentDisposition(filename string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": filename})
}
