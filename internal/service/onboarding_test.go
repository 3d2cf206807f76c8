package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

func TestNormalizeProfile(t *testing.T) {
	t.Run("defaults for missing numerics", func(t *testing.T) {
		p := NormalizeProfile(types.OnboardingRequest{})

		assert.Equal(t, 25, p.Age)
		assert.Equal(t, float64(70), p.WeightKg)
		assert.Equal(t, float64(175), p.HeightCm)
		assert.Equal(t, 3, p.DaysPerWeek)
		assert.Equal(t, 60, p.SessionDurationMin)
		assert.Equal(t, "unspecified", p.Sex)
		assert.Equal(t, "general_fitness", p.PrimaryGoal)
		assert.Equal(t, "beginner", p.TrainingExperience)
		assert.Equal(t, "gym", p.TrainingLocation)
		assert.NotNil(t, p.AvailableEquipment)
		assert.NotNil(t, p.Injuries)
	})

	t.Run("goal synonyms collapse", func(t *testing.T) {
		assert.Equal(t, "fat_loss", NormalizeProfile(types.OnboardingRequest{PrimaryGoal: "Lose_Weight"}).PrimaryGoal)
		assert.Equal(t, "muscle_gain", NormalizeProfile(types.OnboardingRequest{PrimaryGoal: "hypertrophy"}).PrimaryGoal)
		assert.Equal(t, "strength", NormalizeProfile(types.OnboardingRequest{PrimaryGoal: "get_stronger"}).PrimaryGoal)
		assert.Equal(t, "athletic_performance", NormalizeProfile(types.OnboardingRequest{PrimaryGoal: "Athletic Performance"}).PrimaryGoal)
	})

	t.Run("values pass through", func(t *testing.T) {
		p := NormalizeProfile(types.OnboardingRequest{
			Age:                  types.FlexInt(34),
			Sex:                  "M",
			WeightKg:             types.FlexFloat(92.5),
			HeightCm:             types.FlexFloat(188),
			PrimaryGoal:          "strength",
			TrainingExperience:   "Advanced",
			AvailableDaysPerWeek: types.FlexInt(4),
			SessionDuration:      types.FlexInt(45),
			TrainingLocation:     "HOME",
			AvailableEquipment:   []string{"Adjustable Dumbbells"},
			BenchPress:           types.FlexFloat(110),
		})

		assert.Equal(t, 34, p.Age)
		assert.Equal(t, "male", p.Sex)
		assert.Equal(t, 92.5, p.WeightKg)
		assert.Equal(t, "advanced", p.TrainingExperience)
		assert.Equal(t, "home", p.TrainingLocation)
		assert.Equal(t, float64(110), p.BenchPressPR)
	})
}

// stubGenerator returns a canned program without calling the API.
type stubGenerator struct {
	program *types.WorkoutProgram
	err     error
}

func (s *stubGenerator) GenerateProgram(_ context.Context, _ types.Profile, _ []models.Exercise) (*types.WorkoutProgram, []byte, error) {
	if s.err != nil {
		return nil, nil, s.err
	}
	raw, _ := json.Marshal(s.program)
	return s.program, raw, nil
}

// stubDrafts records draft cache traffic in memory.
type stubDrafts struct {
	saved   map[string][]byte
	saves   int
	deleted []string
}

func newStubDrafts() *stubDrafts {
	return &stubDrafts{saved: map[string][]byte{}}
}

func (s *stubDrafts) SaveProgramDraft(_ context.Context, userID string, raw []byte) error {
	s.saved[userID] = raw
	s.saves++
	return nil
}

func (s *stubDrafts) GetProgramDraft(_ context.Context, userID string) ([]byte, error) {
	return s.saved[userID], nil
}

func (s *stubDrafts) DeleteProgramDraft(_ context.Context, userID string) error {
	s.deleted = append(s.deleted, userID)
	delete(s.saved, userID)
	return nil
}

func TestCompleteOnboarding(t *testing.T) {
	req := types.OnboardingRequest{
		Age:                  types.FlexInt(30),
		Sex:                  "male",
		WeightKg:             types.FlexFloat(80),
		HeightCm:             types.FlexFloat(180),
		PrimaryGoal:          "muscle_gain",
		AvailableDaysPerWeek: types.FlexInt(3),
		SessionDuration:      types.FlexInt(60),
	}

	t.Run("full pipeline persists everything", func(t *testing.T) {
		db := openTestDB(t)
		seedCatalog(t, db, "Barbell Bench Press", "Barbell Back Squat")
		userID := uuid.New()

		gen := &stubGenerator{program: testProgram(types.ProgramWorkout{
			Day:         "Monday",
			WorkoutName: "Full Body A",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 3, Reps: "8-12", RestSeconds: 90},
				{ExerciseName: "Barbell Back Squat", Sets: 3, Reps: "8-12", RestSeconds: 120},
			},
		})}

		svc := NewOnboardingService(db, NewCatalogService(db), gen, nil)
		result, err := svc.CompleteOnboarding(context.Background(), userID, req)
		require.NoError(t, err)

		assert.Equal(t, "Test Program", result.ProgramName)
		assert.Equal(t, 1, result.Reconciled.SessionsCreated)
		assert.Equal(t, 6, result.Reconciled.SetRowsCreated)
		assert.Equal(t, result.Nutrition.TDEE+300, result.Nutrition.DailyCalories)

		var profile models.FitnessProfile
		require.NoError(t, db.Where("user_id = ?", userID).First(&profile).Error)
		assert.True(t, profile.OnboardingCompleted)
		assert.Equal(t, "muscle_gain", profile.PrimaryGoal)

		var plan models.NutritionPlan
		require.NoError(t, db.Where("user_id = ? AND active = ?", userID, true).First(&plan).Error)
		assert.Equal(t, result.Nutrition.DailyCalories, plan.Calories)

		var version models.ProgramVersion
		require.NoError(t, db.Where("user_id = ?", userID).First(&version).Error)
		assert.True(t, version.IsActive)

		var stored types.WorkoutProgram
		require.NoError(t, json.Unmarshal([]byte(version.ProgramData), &stored))
		assert.Equal(t, "Test Program", stored.ProgramName)
	})

	t.Run("rerun replaces the active plan and program", func(t *testing.T) {
		db := openTestDB(t)
		seedCatalog(t, db, "Barbell Bench Press")
		userID := uuid.New()

		gen := &stubGenerator{program: testProgram(types.ProgramWorkout{
			WorkoutName: "Day One",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 2, Reps: "10"},
			},
		})}

		svc := NewOnboardingService(db, NewCatalogService(db), gen, nil)
		_, err := svc.CompleteOnboarding(context.Background(), userID, req)
		require.NoError(t, err)
		_, err = svc.CompleteOnboarding(context.Background(), userID, req)
		require.NoError(t, err)

		var profiles int64
		require.NoError(t, db.Model(&models.FitnessProfile{}).Where("user_id = ?", userID).Count(&profiles).Error)
		assert.EqualValues(t, 1, profiles, "profile upserts")

		var activePlans int64
		require.NoError(t, db.Model(&models.NutritionPlan{}).Where("user_id = ? AND active = ?", userID, true).Count(&activePlans).Error)
		assert.EqualValues(t, 1, activePlans)

		var activePrograms int64
		require.NoError(t, db.Model(&models.ProgramVersion{}).Where("user_id = ? AND is_active = ?", userID, true).Count(&activePrograms).Error)
		assert.EqualValues(t, 1, activePrograms)

		var allPrograms int64
		require.NoError(t, db.Model(&models.ProgramVersion{}).Where("user_id = ?", userID).Count(&allPrograms).Error)
		assert.EqualValues(t, 2, allPrograms, "history is kept")
	})

	t.Run("generation failure aborts before any session rows", func(t *testing.T) {
		db := openTestDB(t)
		seedCatalog(t, db, "Barbell Bench Press")
		userID := uuid.New()

		gen := &stubGenerator{err: ErrGenerationFailed}
		svc := NewOnboardingService(db, NewCatalogService(db), gen, nil)

		_, err := svc.CompleteOnboarding(context.Background(), userID, req)
		require.ErrorIs(t, err, ErrGenerationFailed)

		// profile and nutrition land before generation runs
		var profiles int64
		require.NoError(t, db.Model(&models.FitnessProfile{}).Where("user_id = ?", userID).Count(&profiles).Error)
		assert.EqualValues(t, 1, profiles)

		var sessions int64
		require.NoError(t, db.Model(&models.WorkoutSession{}).Count(&sessions).Error)
		assert.EqualValues(t, 0, sessions)
	})

	t.Run("draft is cached after generation and cleared after persist", func(t *testing.T) {
		db := openTestDB(t)
		seedCatalog(t, db, "Barbell Bench Press")
		userID := uuid.New()

		gen := &stubGenerator{program: testProgram(types.ProgramWorkout{
			WorkoutName: "Day One",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 2, Reps: "10"},
			},
		})}
		drafts := newStubDrafts()

		svc := NewOnboardingService(db, NewCatalogService(db), gen, drafts)
		_, err := svc.CompleteOnboarding(context.Background(), userID, req)
		require.NoError(t, err)

		assert.Equal(t, 1, drafts.saves)
		assert.Equal(t, []string{userID.String()}, drafts.deleted)
		assert.Empty(t, drafts.saved, "draft cleared once the program row landed")
	})
}
