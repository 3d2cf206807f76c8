package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

// NormalizeProfile converts raw onboarding answers into the canonical
// profile consumed by the rest of the pipeline. Missing numerics fall
// back to deterministic defaults rather than failing onboarding.
func NormalizeProfile(req types.OnboardingRequest) types.Profile {
	p := types.Profile{
		Age:                int(req.Age),
		Sex:                normalizeSex(req.Sex),
		WeightKg:           float64(req.WeightKg),
		HeightCm:           float64(req.HeightCm),
		PrimaryGoal:        normalizeGoal(req.PrimaryGoal),
		TrainingExperience: normalizeExperience(req.TrainingExperience),
		DaysPerWeek:        int(req.AvailableDaysPerWeek),
		SessionDurationMin: int(req.SessionDuration),
		TrainingLocation:   normalizeLocation(req.TrainingLocation),
		AvailableEquipment: req.AvailableEquipment,
		BenchPressPR:       float64(req.BenchPress),
		SquatPR:            float64(req.Squat),
		DeadliftPR:         float64(req.Deadlift),
		OverheadPressPR:    float64(req.OverheadPress),
		Injuries:           req.CurrentInjuries,
	}

	if p.Age <= 0 {
		p.Age = 25
	}
	if p.WeightKg <= 0 {
		p.WeightKg = 70
	}
	if p.HeightCm <= 0 {
		p.HeightCm = 175
	}
	if p.DaysPerWeek <= 0 {
		p.DaysPerWeek = 3
	}
	if p.SessionDurationMin <= 0 {
		p.SessionDurationMin = 60
	}
	if p.AvailableEquipment == nil {
		p.AvailableEquipment = []string{}
	}
	if p.Injuries == nil {
		p.Injuries = []types.Injury{}
	}

	return p
}

func normalizeSex(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return "male"
	case "female", "f":
		return "female"
	default:
		return "unspecified"
	}
}

func normalizeGoal(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fat_loss", "fat loss", "lose_weight", "weight_loss":
		return "fat_loss"
	case "muscle_gain", "muscle gain", "build_muscle", "hypertrophy":
		return "muscle_gain"
	case "strength", "get_stronger":
		return "strength"
	case "endurance":
		return "endurance"
	case "athletic_performance", "athletic performance", "performance":
		return "athletic_performance"
	default:
		return "general_fitness"
	}
}

func normalizeExperience(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner", "novice", "":
		return "beginner"
	case "intermediate":
		return "intermediate"
	case "advanced", "expert":
		return "advanced"
	default:
		return "beginner"
	}
}

func normalizeLocation(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return "home"
	default:
		return "gym"
	}
}

// ProgramGenerator abstracts the generation client so the onboarding
// pipeline can be tested without a live API.
type ProgramGenerator interface {
	GenerateProgram(ctx context.Context, p types.Profile, catalog []models.Exercise) (*types.WorkoutProgram, []byte, error)
}

// DraftStore caches the raw generated program blob between generation and
// a confirmed persist. A run that dies before the program row lands can
// still serve the draft instead of paying for a second generation call.
type DraftStore interface {
	SaveProgramDraft(ctx context.Context, userID string, raw []byte) error
	GetProgramDraft(ctx context.Context, userID string) ([]byte, error)
	DeleteProgramDraft(ctx context.Context, userID string) error
}

// OnboardingResult is everything a freshly onboarded user gets back.
type OnboardingResult struct {
	Profile     types.Profile          `json:"profile"`
	Nutrition   types.NutritionTargets `json:"nutrition"`
	ProgramName string                 `json:"program_name"`
	ProgramID   uuid.UUID              `json:"program_id"`
	Reconciled  ReconcileSummary       `json:"reconciled"`
}

// OnboardingService runs the full onboarding pipeline: normalize the raw
// answers, persist the profile, compute and store nutrition targets,
// generate a program and materialize its first week.
type OnboardingService struct {
	db        *gorm.DB
	catalog   *CatalogService
	generator ProgramGenerator
	drafts    DraftStore
	reconcile *ReconcileService
}

// NewOnboardingService creates a new OnboardingService instance. The
// draft store may be nil, in which case generated blobs are not cached.
func NewOnboardingService(db *gorm.DB, catalog *CatalogService, generator ProgramGenerator, drafts DraftStore) *OnboardingService {
	return &OnboardingService{
		db:        db,
		catalog:   catalog,
		generator: generator,
		drafts:    drafts,
		reconcile: NewReconcileService(db),
	}
}

// CompleteOnboarding executes the pipeline for one user. The profile
// write is fatal on failure; everything downstream depends on it.
func (s *OnboardingService) CompleteOnboarding(ctx context.Context, userID uuid.UUID, req types.OnboardingRequest) (*OnboardingResult, error) {
	profile := NormalizeProfile(req)

	if err := s.saveProfile(ctx, userID, profile); err != nil {
		return nil, fmt.Errorf("failed to save fitness profile: %w", err)
	}

	targets := CalculateNutritionPlan(profile)
	if err := s.saveNutritionPlan(ctx, userID, targets); err != nil {
		return nil, fmt.Errorf("failed to save nutrition plan: %w", err)
	}

	catalog, err := s.catalog.EligibleExercises(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to load exercise catalog: %w", err)
	}

	program, raw, err := s.generator.GenerateProgram(ctx, profile, catalog)
	if err != nil {
		return nil, err
	}

	if s.drafts != nil {
		if err := s.drafts.SaveProgramDraft(ctx, userID.String(), raw); err != nil {
			log.Printf("Failed to cache program draft for user %s: %v", userID, err)
		}
	}

	version := models.ProgramVersion{
		ID:          uuid.New(),
		UserID:      userID,
		Name:        program.ProgramName,
		ProgramData: models.JSONBRaw(raw),
	}
	if err := s.saveProgramVersion(ctx, &version); err != nil {
		return nil, fmt.Errorf("failed to save program: %w", err)
	}

	summary, err := s.reconcile.MaterializeFirstWeek(ctx, userID, program, catalog, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to materialize first week: %w", err)
	}
	log.Printf("Onboarding complete for user %s: %d sessions, %d set rows, %d exercises dropped",
		userID, summary.SessionsCreated, summary.SetRowsCreated, len(summary.ExercisesSkipped))

	// The program row is persisted, so the cached draft has served its
	// purpose.
	if s.drafts != nil {
		if err := s.drafts.DeleteProgramDraft(ctx, userID.String()); err != nil {
			log.Printf("Failed to clear program draft for user %s: %v", userID, err)
		}
	}

	return &OnboardingResult{
		Profile:     profile,
		Nutrition:   targets,
		ProgramName: program.ProgramName,
		ProgramID:   version.ID,
		Reconciled:  *summary,
	}, nil
}

// saveProfile upserts the onboarding snapshot keyed on user_id.
func (s *OnboardingService) saveProfile(ctx context.Context, userID uuid.UUID, p types.Profile) error {
	row := models.FitnessProfile{
		ID:                  uuid.New(),
		UserID:              userID,
		Age:                 p.Age,
		Sex:                 p.Sex,
		WeightKg:            p.WeightKg,
		HeightCm:            p.HeightCm,
		PrimaryGoal:         p.PrimaryGoal,
		ExperienceLevel:     p.TrainingExperience,
		DaysPerWeek:         p.DaysPerWeek,
		SessionDuration:     p.SessionDurationMin,
		TrainingLocation:    p.TrainingLocation,
		Equipment:           models.JSONBStringArray(p.AvailableEquipment),
		Injuries:            models.JSONBInjuries(p.Injuries),
		OnboardingCompleted: true,
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"age", "sex", "weight_kg", "height_cm", "primary_goal",
			"experience_level", "days_per_week", "session_duration",
			"training_location", "equipment", "injuries",
			"onboarding_completed", "updated_at",
		}),
	}).Create(&row).Error
}

// saveNutritionPlan deactivates previous plans and inserts the new one.
func (s *OnboardingService) saveNutritionPlan(ctx context.Context, userID uuid.UUID, t types.NutritionTargets) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.NutritionPlan{}).
			Where("user_id = ? AND active = ?", userID, true).
			Update("active", false).Error; err != nil {
			return err
		}

		plan := models.NutritionPlan{
			ID:              uuid.New(),
			UserID:          userID,
			BMR:             t.BMR,
			TDEE:            t.TDEE,
			Calories:        t.DailyCalories,
			ProteinGrams:    t.ProteinGrams,
			CarbsGrams:      t.CarbsGrams,
			FatGrams:        t.FatGrams,
			HydrationLiters: t.HydrationLiters,
			Active:          true,
		}
		return tx.Create(&plan).Error
	})
}

// saveProgramVersion deactivates previous program versions and inserts
// the new blob as the active one.
func (s *OnboardingService) saveProgramVersion(ctx context.Context, version *models.ProgramVersion) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.ProgramVersion{}).
			Where("user_id = ? AND is_active = ?", version.UserID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		version.IsActive = true
		return tx.Create(version).Error
	})
}
