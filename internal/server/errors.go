package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/snipbox/internal/auth"
	"github.com/abhisek/snipbox/internal/snippets"
	"github.com/abhisek/snipbox/internal/store"
)

var errBadBody = errors.New("invalid request body")

// statusFor maps a service error to an HTTP status and client message.
// resource names the thing that was looked up, for 404 messages.
func statusFor(err error, resource string) (int, string) {
	var (
		authErr    *auth.ValidationError
		snippetErr *snippets.ValidationError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusBadRequest, authErr.Message
	case errors.As(err, &snippetErr):
		return http.StatusBadRequest, snippetErr.Message
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest, errBadBody.Error()
	case errors.Is(err, store.ErrDuplicateEmail):
		return http.StatusBadRequest, store.ErrDuplicateEmail.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, auth.ErrUnauthorized.Error()
	case errors.Is(err, snippets.ErrForbidden):
		return http.StatusForbidden, snippets.ErrForbidden.Error()
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, resource + " not found"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// fail aborts the request with the mapped status. Server errors are logged.
func (s *Server) fail(c *gin.Context, resource string, err error) {
	status, msg := statusFor(err, resource)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}
