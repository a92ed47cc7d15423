package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bagaichadharanadm/bagaicha-dharan/internal/apperr"
)

// writeError maps the error's kind to an HTTP status and the
// {"error":{...}} envelope. The core never redirects; a client that
// wants navigation on UNAUTHENTICATED decides that itself.
func writeError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = http.StatusBadRequest
	case apperr.KindUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.KindUnauthorized:
		status = http.StatusForbidden
	case apperr.KindNotFound:
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{"error": gin.H{
		"kind":    string(kind),
		"message": apperr.MessageOf(err),
	}})
}

func writeValidationError(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{
		"kind":    string(apperr.KindValidation),
		"message": message,
	}})
}

func writeSuccess(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": gin.H{"message": message}})
}
