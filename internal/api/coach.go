package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftforge/backend/internal/service"
	"github.com/liftforge/backend/internal/types"
)

// CoachHandler serves the conversational coach. The chat session is
// keyed by user id, one conversation per user.
type CoachHandler struct {
	coach *service.CoachService
}

// NewCoachHandler creates a new CoachHandler instance
func NewCoachHandler(coach *service.CoachService) *CoachHandler {
	return &CoachHandler{coach: coach}
}

func (h *CoachHandler) Chat(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	reply, err := h.coach.Chat(c.Request.Context(), userID.String(), req.Message)
	if err != nil {
		log.Printf("Coach chat failed for user %s: %v", userID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "coach is unavailable, please retry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *CoachHandler) History(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	history, err := h.coach.History(c.Request.Context(), userID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": history})
}

func (h *CoachHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.coach.Reset(c.Request.Context(), userID.String()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reset chat"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "chat reset"})
}
