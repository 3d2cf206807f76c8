package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// Exercise is a row of the canonical exercise catalog. Reference data:
// the generation pipeline reads it and never writes to it.
type Exercise struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Name          string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Equipment     string          `gorm:"size:50;not null;index" json:"equipment"`
	PrimaryMuscle string          `gorm:"size:50" json:"primary_muscle"`
	MovementType  string          `gorm:"size:20" json:"movement_type"`
	BodyRegion    string          `gorm:"size:20" json:"body_region"`
	Embedding     pgvector.Vector `gorm:"type:vector(3)" json:"-"`
}

func (Exercise) TableName() string {
	return "exercises"
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// Equipment tags used by the catalog.
const (
	EquipmentBodyweight = "bodyweight"
	EquipmentDumbbell   = "dumbbell"
	EquipmentBarbell    = "barbell"
	EquipmentCable      = "cable"
	EquipmentMachine    = "machine"
)

// Movement type tags.
const (
	MovementPush = "push"
	MovementPull = "pull"
	MovementLegs = "legs"
	MovementCore = "core"
)

// Body region tags.
const (
	RegionUpper = "upper"
	RegionLower = "lower"
	RegionFull  = "full"
)
