package handler

import (
	"net/http"

	"fieldpay/internal/domain"

	"github.com/gin-gonic/gin"
)

// respondError maps a domain error code onto an HTTP status. PartialFailure
// is a 500 with the code spelled out in the body so callers can tell "nothing
// happened" apart from "money moved but the books are behind".
func respondError(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status := http.StatusInternalServerError
	switch code {
	case domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case domain.CodeConflict:
		status = http.StatusConflict
	case domain.CodeInvalidAmount:
		status = http.StatusUnprocessableEntity
	case domain.CodePreconditionFailed:
		status = http.StatusPreconditionFailed
	case domain.CodeRiskDenied:
		status = http.StatusForbidden
	case domain.CodeNoProcessorConfigured:
		status = http.StatusUnprocessableEntity
	case domain.CodeProcessorDeclined:
		status = http.StatusPaymentRequired
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": string(code)})
}
