package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/liftforge/backend/config"
	"github.com/liftforge/backend/internal/api"
	"github.com/liftforge/backend/internal/database"
	"github.com/liftforge/backend/internal/middleware"
	"github.com/liftforge/backend/internal/router"
	"github.com/liftforge/backend/internal/service"
)

// Server wires services, handlers and the HTTP listener.
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *gorm.DB
}

// NewServer builds the full service graph. The media service is optional
// and left nil when S3 is unavailable.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, llm *service.LLMService) *Server {
	authService := service.NewAuthService(db, cfg.JWTSecret)
	catalogService := service.NewCatalogService(db)
	onboardingService := service.NewOnboardingService(db, catalogService, llm, llm)
	workoutService := service.NewWorkoutService(db)
	profileService := service.NewProfileService(db, llm)
	coachService := service.NewCoachService(llm, redisClient)

	var mediaService *service.MediaService
	if s3cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 unavailable, photo uploads disabled: %v", err)
	} else {
		mediaService = service.NewMediaService(db, s3cfg)
	}

	engine := router.SetupRouter(router.Handlers{
		Auth:            api.NewAuthHandler(authService),
		Onboarding:      api.NewOnboardingHandler(onboardingService),
		Workout:         api.NewWorkoutHandler(workoutService),
		Exercise:        api.NewExerciseHandler(catalogService),
		Coach:           api.NewCoachHandler(coachService),
		Profile:         api.NewProfileHandler(profileService, mediaService),
		TokenValidator:  authService,
		GenerationLimit: middleware.NewGenerationRateLimiter(redisClient),
		CoachChatLimit:  middleware.NewCoachChatRateLimiter(redisClient),
		HealthCheck:     healthHandler(db),
	})

	return &Server{engine: engine, db: db}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// Start runs the HTTP server. Blocks until the listener stops.
func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.engine,
	}

	log.Printf("Listening on :%s", port)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http != nil {
		return s.http.Shutdown(ctx)
	}
	return nil
}
