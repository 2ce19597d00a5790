package httpHandler

import (
	"log"
	"net/http"

	"expense-server/apperr"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.BadRequest:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Anything outside the taxonomy is a
// 500 with a generic body; the detail only goes to the log.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "Internal server error"
	}
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
	})
}
