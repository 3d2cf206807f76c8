package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProgramVersion stores the generated program verbatim as a JSONB blob.
// The blob is a historical record; the normalized session/set rows are the
// source of truth for active workout tracking.
type ProgramVersion struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	ProgramData JSONBRaw  `gorm:"type:jsonb;not null" json:"program_data"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func (ProgramVersion) TableName() string {
	return "ai_generated_programs"
}

func (v *ProgramVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
