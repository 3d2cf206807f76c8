package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NutritionPlan stores computed daily targets. At most one active row per
// user: previous active rows are deactivated before a new insert.
type NutritionPlan struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BMR             int       `json:"bmr"`
	TDEE            int       `json:"tdee"`
	Calories        int       `gorm:"not null" json:"calories"`
	ProteinGrams    int       `gorm:"not null" json:"protein_grams"`
	CarbsGrams      int       `gorm:"not null" json:"carbs_grams"`
	FatGrams        int       `gorm:"not null" json:"fat_grams"`
	HydrationLiters float64   `json:"hydration_liters"`
	Active          bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (NutritionPlan) TableName() string {
	return "nutrition_plans"
}

func (p *NutritionPlan) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
