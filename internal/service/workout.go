package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

var (
	ErrSessionNotFound = errors.New("workout session not found")
	ErrSetNotFound     = errors.New("set not found")
)

// WorkoutService reads materialized sessions and records set completions.
type WorkoutService struct {
	db *gorm.DB
}

// NewWorkoutService creates a new WorkoutService instance
func NewWorkoutService(db *gorm.DB) *WorkoutService {
	return &WorkoutService{db: db}
}

// ListSessions returns the user's sessions, newest first.
func (s *WorkoutService) ListSessions(ctx context.Context, userID uuid.UUID) ([]models.WorkoutSession, error) {
	var sessions []models.WorkoutSession
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// GetSession returns one session with its set rows, ordered for display.
func (s *WorkoutService) GetSession(ctx context.Context, userID, sessionID uuid.UUID) (*models.WorkoutSession, []models.SetLog, error) {
	var session models.WorkoutSession
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", sessionID, userID).
		First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sets []models.SetLog
	if err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at, exercise_id, set_number").
		Find(&sets).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load set rows: %w", err)
	}

	return &session, sets, nil
}

// LogSet marks a planned set as completed with the actual reps and
// weight, and folds the set's volume into the session total. The weight
// defaults to the pre-filled suggestion when the request omits it.
func (s *WorkoutService) LogSet(ctx context.Context, userID, setID uuid.UUID, req types.LogSetRequest) (*models.SetLog, error) {
	var row models.SetLog
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, "id = ?", setID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSetNotFound
			}
			return fmt.Errorf("failed to load set: %w", err)
		}

		var session models.WorkoutSession
		if err := tx.First(&session, "id = ? AND user_id = ?", row.SessionID, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessionNotFound
			}
			return fmt.Errorf("failed to load session: %w", err)
		}

		now := time.Now()
		row.ActualReps = req.ActualReps
		if req.WeightKg > 0 {
			row.WeightKg = req.WeightKg
		}
		row.CompletedAt = &now
		if err := tx.Save(&row).Error; err != nil {
			return fmt.Errorf("failed to update set: %w", err)
		}

		volume := row.WeightKg * float64(row.ActualReps)
		if err := tx.Model(&session).
			Update("total_volume", gorm.Expr("total_volume + ?", volume)).Error; err != nil {
			return fmt.Errorf("failed to update session volume: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}
