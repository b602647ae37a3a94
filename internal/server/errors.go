package server

import (
	"errors"
	"net/http"

	"github.com/dayoung-dev/joblens/internal/fetch"
	"github.com/dayoung-dev/joblens/internal/parser"
	"github.com/dayoung-dev/joblens/internal/urlguard"
)

// HTTPStatus returns the appropriate HTTP status code for a pipeline error.
func HTTPStatus(err error) int {
	var statusErr *fetch.StatusError
	switch {
	case errors.Is(err, urlguard.ErrSSRFBlocked):
		return http.StatusBadRequest
	case errors.Is(err, fetch.ErrResponseTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, parser.ErrParseAIFailed):
		return http.StatusBadGateway
	case errors.As(err, &statusErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
