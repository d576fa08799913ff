package httputil

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/genproxy/internal/errors"
)

// Request body errors.
var (
	// ErrMalformedBody indicates the body is not a JSON object of the expected shape.
	ErrMalformedBody = apperrors.Define(apperrors.ErrInvalidInput, "request body must be a valid JSON object")

	// ErrBodyTooLarge indicates the body exceeded the configured limit.
	ErrBodyTooLarge = apperrors.Define(apperrors.ErrInvalidInput, "request body too large")
)

// BindJSON decodes the request body into dst and maps decoding failures to domain errors.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return apperrors.WithCause(ErrBodyTooLarge, err)
		}
		return apperrors.WithCause(ErrMalformedBody, err)
	}
	return nil
}

// LimitBody caps the number of bytes read from the request body.
func LimitBody(c *gin.Context, limit int64) {
	if limit > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
}
