package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liftforge/backend/config"
	"github.com/liftforge/backend/internal/database"
	"github.com/liftforge/backend/internal/server"
	"github.com/liftforge/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := database.RunMigrations(db, "migrations"); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	llm, err := service.NewLLMService()
	if err != nil {
		log.Fatalf("Failed to initialize generation client: %v", err)
	}

	srv := server.NewServer(cfg, db, redisClient, llm)

	errChan := make(chan error, 1)
	go func() {
		port := cfg.ServerPort
		if port == "" {
			port = "8080"
		}
		errChan <- srv.Start(port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
