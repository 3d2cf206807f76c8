package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

func seedCatalog(t *testing.T, db *gorm.DB, names ...string) []models.Exercise {
	t.Helper()
	exercises := make([]models.Exercise, 0, len(names))
	for _, name := range names {
		e := models.Exercise{
			ID:        uuid.New(),
			Name:      name,
			Equipment: models.EquipmentBarbell,
		}
		require.NoError(t, db.Create(&e).Error)
		exercises = append(exercises, e)
	}
	return exercises
}

func testProgram(workouts ...types.ProgramWorkout) *types.WorkoutProgram {
	return &types.WorkoutProgram{
		ProgramName: "Test Program",
		Weeks: []types.ProgramWeek{
			{WeekNumber: 1, Workouts: workouts},
		},
	}
}

func TestMaterializeFirstWeek(t *testing.T) {
	profile := types.Profile{WeightKg: 80, Sex: "male", PrimaryGoal: "muscle_gain"}

	t.Run("creates one row per planned set", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Bench Press")
		userID := uuid.New()

		program := testProgram(types.ProgramWorkout{
			Day:         "Monday",
			WorkoutName: "Push Day",
			Warmup:      "5 min row",
			Cooldown:    "chest stretch",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 3, Reps: "8-12", RestSeconds: 90, FormTip: "Keep shoulder blades pinned."},
			},
		})

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), userID, program, catalog, profile)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.SessionsCreated)
		assert.Equal(t, 3, summary.SetRowsCreated)
		assert.Empty(t, summary.ExercisesSkipped)

		var rows []models.SetLog
		require.NoError(t, db.Order("set_number").Find(&rows).Error)
		require.Len(t, rows, 3)
		for i, row := range rows {
			assert.Equal(t, i+1, row.SetNumber)
			assert.Equal(t, 8, row.TargetReps)
			assert.Equal(t, 90, row.RestSeconds)
			assert.Equal(t, rows[0].WeightKg, row.WeightKg)
			assert.Equal(t, "Keep shoulder blades pinned.", row.FormTip)
			assert.Nil(t, row.CompletedAt)
		}

		var session models.WorkoutSession
		require.NoError(t, db.First(&session).Error)
		assert.Equal(t, "Push Day", session.Name)
		assert.Equal(t, "5 min row", session.WarmupGuide)
		assert.Equal(t, userID, session.UserID)
	})

	t.Run("drops hallucinated exercises without aborting the workout", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Back Squat")
		userID := uuid.New()

		program := testProgram(types.ProgramWorkout{
			Day:         "Tuesday",
			WorkoutName: "Leg Day",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Quantum Flux Squat", Sets: 3, Reps: "10"},
				{ExerciseName: "Barbell Back Squat", Sets: 2, Reps: "5", RestSeconds: 120},
			},
		})

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), userID, program, catalog, profile)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.SessionsCreated)
		assert.Equal(t, 1, summary.ExercisesMatched)
		assert.Equal(t, []string{"Quantum Flux Squat"}, summary.ExercisesSkipped)
		assert.Equal(t, 2, summary.SetRowsCreated)
	})

	t.Run("skips a workout whose exercises all drop", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Back Squat")

		program := testProgram(
			types.ProgramWorkout{
				WorkoutName: "Imaginary Day",
				Exercises: []types.ProgramExercise{
					{ExerciseName: "Gravity Inverter", Sets: 3, Reps: "10"},
				},
			},
			types.ProgramWorkout{
				WorkoutName: "Real Day",
				Exercises: []types.ProgramExercise{
					{ExerciseName: "Barbell Back Squat", Sets: 3, Reps: "5"},
				},
			},
		)

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), uuid.New(), program, catalog, profile)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.SessionsCreated)
		assert.Equal(t, 1, summary.SessionsSkipped)

		var count int64
		require.NoError(t, db.Model(&models.WorkoutSession{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("failed session insert skips only that workout", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Bench Press", "Barbell Row")
		userID := uuid.New()

		require.NoError(t, db.Callback().Create().Before("gorm:create").Register("fail_pull_day", func(tx *gorm.DB) {
			if s, ok := tx.Statement.Dest.(*models.WorkoutSession); ok && s.Name == "Pull Day" {
				tx.AddError(errors.New("insert rejected"))
			}
		}))

		program := testProgram(
			types.ProgramWorkout{
				WorkoutName: "Pull Day",
				Exercises: []types.ProgramExercise{
					{ExerciseName: "Barbell Row", Sets: 3, Reps: "10"},
				},
			},
			types.ProgramWorkout{
				WorkoutName: "Push Day",
				Exercises: []types.ProgramExercise{
					{ExerciseName: "Barbell Bench Press", Sets: 2, Reps: "8"},
				},
			},
		)

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), userID, program, catalog, profile)
		require.NoError(t, err)

		assert.Equal(t, 1, summary.SessionsCreated)
		assert.Equal(t, 1, summary.SessionsSkipped)
		assert.Equal(t, 2, summary.SetRowsCreated)
		require.Len(t, summary.Workouts, 1)
		assert.Equal(t, "Push Day", summary.Workouts[0].WorkoutName)

		var sessions []models.WorkoutSession
		require.NoError(t, db.Find(&sessions).Error)
		require.Len(t, sessions, 1)
		assert.Equal(t, "Push Day", sessions[0].Name)

		var rows int64
		require.NoError(t, db.Model(&models.SetLog{}).Count(&rows).Error)
		assert.EqualValues(t, 2, rows, "no set rows survive the rolled-back workout")
	})

	t.Run("missing sets and rest fall back to defaults", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Row")

		program := testProgram(types.ProgramWorkout{
			WorkoutName: "Pull Day",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Row", Reps: "until failure"},
			},
		})

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), uuid.New(), program, catalog, profile)
		require.NoError(t, err)
		assert.Equal(t, 3, summary.SetRowsCreated)

		var row models.SetLog
		require.NoError(t, db.First(&row).Error)
		assert.Equal(t, 10, row.TargetReps)
		assert.Equal(t, 60, row.RestSeconds)
	})

	t.Run("running twice doubles the sessions", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Bench Press")
		userID := uuid.New()

		program := testProgram(types.ProgramWorkout{
			WorkoutName: "Push Day",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 3, Reps: "10"},
			},
		})

		svc := NewReconcileService(db)
		_, err := svc.MaterializeFirstWeek(context.Background(), userID, program, catalog, profile)
		require.NoError(t, err)
		_, err = svc.MaterializeFirstWeek(context.Background(), userID, program, catalog, profile)
		require.NoError(t, err)

		var sessions, rows int64
		require.NoError(t, db.Model(&models.WorkoutSession{}).Count(&sessions).Error)
		require.NoError(t, db.Model(&models.SetLog{}).Count(&rows).Error)
		assert.EqualValues(t, 2, sessions)
		assert.EqualValues(t, 6, rows)
	})

	t.Run("only week one materializes", func(t *testing.T) {
		db := openTestDB(t)
		catalog := seedCatalog(t, db, "Barbell Bench Press")

		program := testProgram(types.ProgramWorkout{
			WorkoutName: "Week One Day",
			Exercises: []types.ProgramExercise{
				{ExerciseName: "Barbell Bench Press", Sets: 2, Reps: "10"},
			},
		})
		program.Weeks = append(program.Weeks, types.ProgramWeek{
			WeekNumber: 2,
			Workouts: []types.ProgramWorkout{
				{
					WorkoutName: "Week Two Day",
					Exercises: []types.ProgramExercise{
						{ExerciseName: "Barbell Bench Press", Sets: 2, Reps: "10"},
					},
				},
			},
		})

		summary, err := NewReconcileService(db).MaterializeFirstWeek(context.Background(), uuid.New(), program, catalog, profile)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.SessionsCreated)

		var session models.WorkoutSession
		require.NoError(t, db.First(&session).Error)
		assert.Equal(t, "Week One Day", session.Name)
	})
}

func TestMatchCatalogExercise(t *testing.T) {
	catalog := []models.Exercise{
		{Name: "Barbell Bench Press"},
		{Name: "Dumbbell Bench Press"},
		{Name: "Push Up"},
	}

	t.Run("exact match is case insensitive", func(t *testing.T) {
		e, ok := matchCatalogExercise("barbell bench press", catalog)
		require.True(t, ok)
		assert.Equal(t, "Barbell Bench Press", e.Name)
	})

	t.Run("normalized substring match", func(t *testing.T) {
		e, ok := matchCatalogExercise("Push-Ups", catalog)
		require.True(t, ok)
		assert.Equal(t, "Push Up", e.Name)
	})

	t.Run("closest length wins on multiple candidates", func(t *testing.T) {
		e, ok := matchCatalogExercise("Bench Press", catalog)
		require.True(t, ok)
		assert.Equal(t, "Barbell Bench Press", e.Name)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := matchCatalogExercise("Underwater Basket Press", catalog)
		assert.False(t, ok)
	})
}

func TestParseTargetReps(t *testing.T) {
	assert.Equal(t, 8, parseTargetReps("8-12"))
	assert.Equal(t, 10, parseTargetReps("10"))
	assert.Equal(t, 12, parseTargetReps("12 per leg"))
	assert.Equal(t, 10, parseTargetReps("until failure"))
	assert.Equal(t, 10, parseTargetReps(""))
	assert.Equal(t, 999, parseTargetReps("99999999999999999999 reps"))
}
