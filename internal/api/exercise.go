package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftforge/backend/internal/service"
)

// ExerciseHandler serves the exercise catalog.
type ExerciseHandler struct {
	catalog *service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler instance
func NewExerciseHandler(catalog *service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalog: catalog}
}

func (h *ExerciseHandler) Search(c *gin.Context) {
	exercises, err := h.catalog.Search(c.Request.Context(), c.Query("q"), c.Query("equipment"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to search exercises"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"exercises": exercises})
}
