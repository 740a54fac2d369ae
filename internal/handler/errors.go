package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todoapp/internal/repository"
)

// respondStoreError maps repository errors onto HTTP statuses:
// validation problems become 400, missing entities 404, uniqueness
// conflicts 409, anything else 500.
func respondStoreError(c *gin.Context, err error) {
	switch {
	case repository.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrTagNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Tag not found"})
	case errors.Is(err, repository.ErrDuplicateTagName):
		c.JSON(http.StatusConflict, gin.H{"error": "Tag name already exists"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
