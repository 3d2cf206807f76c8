package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

var (
	ErrProfileNotFound = errors.New("fitness profile not found")
	ErrProgramNotFound = errors.New("no active program")
)

// ProfileService reads persisted onboarding and program state.
type ProfileService struct {
	db     *gorm.DB
	drafts DraftStore
}

// NewProfileService creates a new ProfileService instance. The draft
// store may be nil, disabling the cached-draft fallback for programs.
func NewProfileService(db *gorm.DB, drafts DraftStore) *ProfileService {
	return &ProfileService{db: db, drafts: drafts}
}

// GetProfile returns the user's fitness profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.FitnessProfile, error) {
	var profile models.FitnessProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// GetActiveNutritionPlan returns the user's current nutrition targets.
func (s *ProfileService) GetActiveNutritionPlan(ctx context.Context, userID uuid.UUID) (*models.NutritionPlan, error) {
	var plan models.NutritionPlan
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND active = ?", userID, true).
		Order("created_at DESC").
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load nutrition plan: %w", err)
	}
	return &plan, nil
}

// GetActiveProgram returns the user's active generated program blob.
// When no version has been persisted, the draft cached by the most
// recent generation run is served instead, so a run that failed after
// generation still surfaces its program.
func (s *ProfileService) GetActiveProgram(ctx context.Context, userID uuid.UUID) (*models.ProgramVersion, error) {
	var version models.ProgramVersion
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at DESC").
		First(&version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if draft := s.draftProgram(ctx, userID); draft != nil {
				return draft, nil
			}
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to load program: %w", err)
	}
	return &version, nil
}

func (s *ProfileService) draftProgram(ctx context.Context, userID uuid.UUID) *models.ProgramVersion {
	if s.drafts == nil {
		return nil
	}
	raw, err := s.drafts.GetProgramDraft(ctx, userID.String())
	if err != nil || len(raw) == 0 {
		return nil
	}

	var program types.WorkoutProgram
	if err := json.Unmarshal(raw, &program); err != nil {
		return nil
	}
	return &models.ProgramVersion{
		UserID:      userID,
		Name:        program.ProgramName,
		ProgramData: models.JSONBRaw(raw),
	}
}

// ListProgressPhotos returns the user's progress photos, newest first.
func (s *ProfileService) ListProgressPhotos(ctx context.Context, userID uuid.UUID) ([]models.ProgressPhoto, error) {
	var photos []models.ProgressPhoto
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&photos).Error; err != nil {
		return nil, fmt.Errorf("failed to list progress photos: %w", err)
	}
	return photos, nil
}
