// Package errs holds the error taxonomy shared by the DAOs, services and
// controllers, and its mapping onto HTTP status codes.
package errs

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrTooLarge      = errors.New("payload too large")
	ErrConflict      = errors.New("already exists")
	ErrAuth          = errors.New("invalid credentials")
	ErrInvalidToken  = errors.New("invalid token")
	ErrStorage       = errors.New("storage error")
	ErrGeneration    = errors.New("error generating response")
	ErrTranscription = errors.New("error transcribing audio")
	ErrSynthesis     = errors.New("error synthesizing speech")
)

// Status maps err onto the HTTP status a handler should answer with.
// Unknown errors are internal.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, ErrInvalidToken):
		return http.StatusForbidden
	case errors.Is(err, ErrGeneration),
		errors.Is(err, ErrTranscription),
		errors.Is(err, ErrSynthesis):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Internal failures get a
// fixed string so driver or provider details never leak.
func Message(err error) string {
	switch Status(err) {
	case http.StatusBadRequest, http.StatusConflict, http.StatusRequestEntityTooLarge:
		return err.Error()
	case http.StatusUnauthorized:
		return ErrAuth.Error()
	case http.StatusForbidden:
		return ErrInvalidToken.Error()
	case http.StatusBadGateway:
		for _, target := range []error{ErrGeneration, ErrTranscription, ErrSynthesis} {
			if errors.Is(err, target) {
				return target.Error()
			}
		}
	case http.StatusGatewayTimeout:
		return "upstream timeout"
	}
	return "internal error"
}
