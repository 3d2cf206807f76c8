package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkoutSession is one actionable workout day, materialized from week 1
// of a generated program.
type WorkoutSession struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	WarmupGuide   string    `gorm:"type:text" json:"warmup_guide"`
	CooldownGuide string    `gorm:"type:text" json:"cooldown_guide"`
	TotalVolume   float64   `gorm:"not null;default:0" json:"total_volume"`
	CreatedAt     time.Time `json:"created_at"`
}

func (WorkoutSession) TableName() string {
	return "workout_sessions"
}

func (s *WorkoutSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// SetLog is a single planned set. Rows are pre-filled at reconciliation
// time with a suggested weight and completed when the user logs the set.
// set_number is contiguous from 1 per (session, exercise) pair.
type SetLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SessionID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"session_id"`
	ExerciseID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"exercise_id"`
	SetNumber   int        `gorm:"not null" json:"set_number"`
	TargetReps  int        `gorm:"not null" json:"target_reps"`
	ActualReps  int        `json:"actual_reps"`
	WeightKg    float64    `json:"weight_kg"`
	RestSeconds int        `json:"rest_seconds"`
	FormTip     string     `gorm:"type:text" json:"form_tip"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (SetLog) TableName() string {
	return "set_logs"
}

func (l *SetLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
