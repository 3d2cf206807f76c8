package service

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

// CatalogService reads the canonical exercise catalog. The catalog is
// reference data owned by the store; this service never mutates it.
type CatalogService struct {
	db *gorm.DB
}

// NewCatalogService creates a new CatalogService instance
func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// EligibleExercises returns the catalog filtered by the user's training
// environment. Home training restricts to bodyweight plus whatever the
// user actually owns; a gym gets the whole catalog.
func (s *CatalogService) EligibleExercises(ctx context.Context, p types.Profile) ([]models.Exercise, error) {
	query := s.db.WithContext(ctx).Order("name")

	if p.TrainingLocation == "home" {
		query = query.Where("equipment IN ?", homeEquipmentTags(p.AvailableEquipment))
	}

	var exercises []models.Exercise
	if err := query.Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// homeEquipmentTags maps the user's free-text equipment list onto catalog
// equipment tags. Bodyweight is always allowed; resistance bands unlock
// the cable movement patterns.
func homeEquipmentTags(available []string) []string {
	has := func(keyword string) bool {
		for _, item := range available {
			if strings.Contains(strings.ToLower(item), keyword) {
				return true
			}
		}
		return false
	}

	allowed := []string{models.EquipmentBodyweight}
	if has("dumbbell") {
		allowed = append(allowed, models.EquipmentDumbbell)
	}
	if has("barbell") {
		allowed = append(allowed, models.EquipmentBarbell)
	}
	if has("band") {
		allowed = append(allowed, models.EquipmentCable)
	}
	return allowed
}

// Search lists catalog entries, optionally filtered by equipment and
// ordered by embedding distance to the query on Postgres (LIKE elsewhere).
func (s *CatalogService) Search(ctx context.Context, query, equipment string) ([]models.Exercise, error) {
	dbQuery := s.db.WithContext(ctx)

	if equipment != "" {
		dbQuery = dbQuery.Where("equipment = ?", equipment)
	}

	if query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(query)
			dbQuery = dbQuery.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(query) + "%"
			dbQuery = dbQuery.Where("LOWER(name) LIKE ? OR LOWER(primary_muscle) LIKE ?", like, like)
		}
	} else {
		dbQuery = dbQuery.Order("name")
	}

	var exercises []models.Exercise
	if err := dbQuery.Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}
