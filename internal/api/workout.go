package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/liftforge/backend/internal/service"
	"github.com/liftforge/backend/internal/types"
)

// WorkoutHandler serves materialized sessions and set logging.
type WorkoutHandler struct {
	workouts *service.WorkoutService
}

// NewWorkoutHandler creates a new WorkoutHandler instance
func NewWorkoutHandler(workouts *service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workouts: workouts}
}

func (h *WorkoutHandler) ListSessions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessions, err := h.workouts.ListSessions(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sessions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *WorkoutHandler) GetSession(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	session, sets, err := h.workouts.GetSession(c.Request.Context(), userID, sessionID)
	if err != nil {
		if errors.Is(err, service.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session, "sets": sets})
}

func (h *WorkoutHandler) LogSet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	setID, err := uuid.Parse(c.Param("setId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid set id"})
		return
	}

	var req types.LogSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	row, err := h.workouts.LogSet(c.Request.Context(), userID, setID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSetNotFound), errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to log set"})
		}
		return
	}
	c.JSON(http.StatusOK, row)
}
