package server

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharmakart/backend/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// unclassified is a 500 with the detail kept out of the response body.
func respondError(c *gin.Context, err error) {
	kind := domain.ErrorKind(err)

	var status int
	switch kind {
	case "not_found":
		status = http.StatusNotFound
	case "insufficient_stock", "invalid_transition", "duplicate_payment":
		status = http.StatusConflict
	case "prescription_required":
		status = http.StatusForbidden
	default:
		log.Printf("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "kind": kind})
		return
	}

	c.JSON(status, gin.H{"error": err.Error(), "kind": kind})
}

func respondBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
}

func respondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": "not the owner", "kind": "forbidden"})
}
