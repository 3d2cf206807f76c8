package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftforge/backend/internal/service"
	"github.com/liftforge/backend/internal/types"
)

// OnboardingHandler runs the onboarding pipeline for the authenticated
// user.
type OnboardingHandler struct {
	onboarding *service.OnboardingService
}

// NewOnboardingHandler creates a new OnboardingHandler instance
func NewOnboardingHandler(onboarding *service.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding}
}

func (h *OnboardingHandler) Complete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req types.OnboardingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.onboarding.CompleteOnboarding(c.Request.Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCatalog):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrGenerationFailed):
			log.Printf("Program generation failed for user %s: %v", userID, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "program generation failed, please retry"})
		default:
			log.Printf("Onboarding failed for user %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "onboarding failed"})
		}
		return
	}

	c.JSON(http.StatusCreated, result)
}
