package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/liftforge/backend/internal/api"
	"github.com/liftforge/backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth       *api.AuthHandler
	Onboarding *api.OnboardingHandler
	Workout    *api.WorkoutHandler
	Exercise   *api.ExerciseHandler
	Coach      *api.CoachHandler
	Profile    *api.ProfileHandler

	TokenValidator  middleware.TokenValidator
	GenerationLimit *middleware.RateLimiter
	CoachChatLimit  *middleware.RateLimiter
	HealthCheck     gin.HandlerFunc
}

// SetupRouter configures the application routes
func SetupRouter(h Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())

	if h.HealthCheck != nil {
		router.GET("/health", h.HealthCheck)
	}

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
	}

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(h.TokenValidator))
	{
		onboarding := protected.Group("/onboarding")
		{
			if h.GenerationLimit != nil {
				onboarding.Use(h.GenerationLimit.RateLimitMiddleware())
			}
			onboarding.POST("", h.Onboarding.Complete)
		}

		workouts := protected.Group("/workouts")
		{
			workouts.GET("", h.Workout.ListSessions)
			workouts.GET("/:id", h.Workout.GetSession)
			workouts.POST("/sets/:setId/log", h.Workout.LogSet)
		}

		exercises := protected.Group("/exercises")
		{
			exercises.GET("", h.Exercise.Search)
		}

		coach := protected.Group("/coach")
		{
			if h.CoachChatLimit != nil {
				coach.Use(h.CoachChatLimit.RateLimitMiddleware())
			}
			coach.POST("/chat", h.Coach.Chat)
			coach.GET("/history", h.Coach.History)
			coach.POST("/reset", h.Coach.Reset)
		}

		profile := protected.Group("/profile")
		{
			profile.GET("", h.Profile.GetProfile)
			profile.GET("/nutrition", h.Profile.GetNutrition)
			profile.GET("/program", h.Profile.GetProgram)
			profile.GET("/photos", h.Profile.ListPhotos)
			profile.POST("/photos", h.Profile.UploadPhoto)
		}
	}

	return router
}
