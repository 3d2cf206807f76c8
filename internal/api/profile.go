package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/liftforge/backend/internal/service"
)

// ProfileHandler serves the fitness profile, nutrition targets, the
// active program and progress photos.
type ProfileHandler struct {
	profiles *service.ProfileService
	media    *service.MediaService
}

// NewProfileHandler creates a new ProfileHandler instance. The media
// service may be nil when S3 is not configured; photo uploads then
// return 503.
func NewProfileHandler(profiles *service.ProfileService, media *service.MediaService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, media: media}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) GetNutrition(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	plan, err := h.profiles.GetActiveNutritionPlan(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no nutrition plan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load nutrition plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *ProfileHandler) GetProgram(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	program, err := h.profiles.GetActiveProgram(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load program"})
		return
	}
	c.JSON(http.StatusOK, program)
}

func (h *ProfileHandler) ListPhotos(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	photos, err := h.profiles.ListProgressPhotos(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list photos"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (h *ProfileHandler) UploadPhoto(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if h.media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "photo storage not configured"})
		return
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read photo"})
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photo, err := h.media.UploadProgressPhoto(c.Request.Context(), userID, file, contentType, c.PostForm("notes"))
	if err != nil {
		log.Printf("Photo upload failed for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to upload photo"})
		return
	}
	c.JSON(http.StatusCreated, photo)
}
