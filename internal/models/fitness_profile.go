package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FitnessProfile is the persisted onboarding snapshot, upserted on user_id.
type FitnessProfile struct {
	ID                  uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	UserID              uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Age                 int              `json:"age"`
	Sex                 string           `gorm:"size:10" json:"sex"`
	WeightKg            float64          `json:"weight_kg"`
	HeightCm            float64          `json:"height_cm"`
	PrimaryGoal         string           `gorm:"size:30" json:"primary_goal"`
	ExperienceLevel     string           `gorm:"size:30" json:"experience_level"`
	DaysPerWeek         int              `json:"days_per_week"`
	SessionDuration     int              `json:"session_duration"`
	TrainingLocation    string           `gorm:"size:20" json:"training_location"`
	Equipment           JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"equipment"`
	Injuries            JSONBInjuries    `gorm:"type:jsonb;not null;default:'[]'" json:"injuries"`
	OnboardingCompleted bool             `json:"onboarding_completed"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
	DeletedAt           gorm.DeletedAt   `gorm:"index" json:"-"`
}

func (FitnessProfile) TableName() string {
	return "user_fitness_profiles"
}

func (p *FitnessProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProgressPhoto records an S3-stored progress picture for a user.
type ProgressPhoto struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	URL       string    `gorm:"size:512;not null" json:"url"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProgressPhoto) TableName() string {
	return "progress_photos"
}

func (p *ProgressPhoto) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
