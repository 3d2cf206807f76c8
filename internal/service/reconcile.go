package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

// ReconcileSummary reports what MaterializeFirstWeek actually persisted.
// Skipped exercise names are surfaced so callers can log or display them.
type ReconcileSummary struct {
	SessionsCreated  int             `json:"sessions_created"`
	SessionsSkipped  int             `json:"sessions_skipped"`
	ExercisesMatched int             `json:"exercises_matched"`
	ExercisesSkipped []string        `json:"exercises_skipped"`
	SetRowsCreated   int             `json:"set_rows_created"`
	Workouts         []WorkoutResult `json:"workouts"`
}

// WorkoutResult describes one materialized session.
type WorkoutResult struct {
	SessionID   uuid.UUID `json:"session_id"`
	WorkoutName string    `json:"workout_name"`
	Day         string    `json:"day"`
	SetRows     int       `json:"set_rows"`
}

// ReconcileService turns the untrusted generated program into normalized
// session and set rows, keeping only exercises that resolve to real
// catalog entries.
type ReconcileService struct {
	db *gorm.DB
}

// NewReconcileService creates a new ReconcileService instance
func NewReconcileService(db *gorm.DB) *ReconcileService {
	return &ReconcileService{db: db}
}

// MaterializeFirstWeek persists week 1 of the generated program as
// workout sessions with pre-filled set rows. Each workout commits in its
// own transaction; a failing workout is skipped without undoing the ones
// already written. Exercise names that match nothing in the catalog are
// dropped, and a workout whose exercises all drop is not created at all.
func (s *ReconcileService) MaterializeFirstWeek(ctx context.Context, userID uuid.UUID, program *types.WorkoutProgram, catalog []models.Exercise, profile types.Profile) (*ReconcileSummary, error) {
	summary := &ReconcileSummary{
		ExercisesSkipped: []string{},
		Workouts:         []WorkoutResult{},
	}

	if program == nil || len(program.Weeks) == 0 {
		return summary, fmt.Errorf("program has no weeks to materialize")
	}

	week := program.Weeks[0]
	for _, workout := range week.Workouts {
		result, matched, skipped, err := s.materializeWorkout(ctx, userID, workout, catalog, profile)
		summary.ExercisesMatched += matched
		summary.ExercisesSkipped = append(summary.ExercisesSkipped, skipped...)
		if err != nil {
			log.Printf("Skipping workout %q: %v", workout.WorkoutName, err)
			summary.SessionsSkipped++
			continue
		}
		if result == nil {
			summary.SessionsSkipped++
			continue
		}
		summary.SessionsCreated++
		summary.SetRowsCreated += result.SetRows
		summary.Workouts = append(summary.Workouts, *result)
	}

	return summary, nil
}

func (s *ReconcileService) materializeWorkout(ctx context.Context, userID uuid.UUID, workout types.ProgramWorkout, catalog []models.Exercise, profile types.Profile) (*WorkoutResult, int, []string, error) {
	type plannedExercise struct {
		catalogEntry models.Exercise
		planned      types.ProgramExercise
	}

	var planned []plannedExercise
	var skipped []string
	for _, ex := range workout.Exercises {
		entry, ok := matchCatalogExercise(ex.ExerciseName, catalog)
		if !ok {
			log.Printf("Dropping unmatched exercise %q from workout %q", ex.ExerciseName, workout.WorkoutName)
			skipped = append(skipped, ex.ExerciseName)
			continue
		}
		planned = append(planned, plannedExercise{catalogEntry: entry, planned: ex})
	}

	if len(planned) == 0 {
		return nil, 0, skipped, nil
	}

	result := &WorkoutResult{
		WorkoutName: workout.WorkoutName,
		Day:         workout.Day,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		session := models.WorkoutSession{
			ID:            uuid.New(),
			UserID:        userID,
			Name:          workout.WorkoutName,
			WarmupGuide:   workout.Warmup,
			CooldownGuide: workout.Cooldown,
		}
		if err := tx.Create(&session).Error; err != nil {
			return fmt.Errorf("failed to create workout session: %w", err)
		}
		result.SessionID = session.ID

		for _, pe := range planned {
			sets := int(pe.planned.Sets)
			if sets <= 0 {
				sets = 3
			}
			rest := int(pe.planned.RestSeconds)
			if rest <= 0 {
				rest = 60
			}
			targetReps := parseTargetReps(pe.planned.Reps)
			weight := EstimateLoad(pe.catalogEntry.Name, pe.catalogEntry.Equipment, profile)

			for setNumber := 1; setNumber <= sets; setNumber++ {
				row := models.SetLog{
					ID:          uuid.New(),
					SessionID:   session.ID,
					ExerciseID:  pe.catalogEntry.ID,
					SetNumber:   setNumber,
					TargetReps:  targetReps,
					WeightKg:    weight,
					RestSeconds: rest,
					FormTip:     pe.planned.FormTip,
				}
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to create set row: %w", err)
				}
				result.SetRows++
			}
		}
		return nil
	})
	if err != nil {
		return nil, len(planned), skipped, err
	}

	return result, len(planned), skipped, nil
}

// matchCatalogExercise resolves a generated exercise name against the
// catalog. Exact case-insensitive match wins; otherwise names are
// normalized to lowercase alphanumerics and matched by substring in
// either direction, preferring the candidate closest in length.
func matchCatalogExercise(name string, catalog []models.Exercise) (models.Exercise, bool) {
	for _, e := range catalog {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}

	normalized := normalizeExerciseName(name)
	if normalized == "" {
		return models.Exercise{}, false
	}

	var best models.Exercise
	bestDiff := -1
	for _, e := range catalog {
		candidate := normalizeExerciseName(e.Name)
		if candidate == "" {
			continue
		}
		if !strings.Contains(candidate, normalized) && !strings.Contains(normalized, candidate) {
			continue
		}
		diff := len(candidate) - len(normalized)
		if diff < 0 {
			diff = -diff
		}
		if bestDiff == -1 || diff < bestDiff {
			best = e
			bestDiff = diff
		}
	}

	return best, bestDiff != -1
}

func normalizeExerciseName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// parseTargetReps extracts the first integer from a rep prescription such
// as "8-12" or "10 per leg". Defaults to 10 when nothing parses. The value
// is capped at 999 since the string is untrusted generated output.
func parseTargetReps(reps string) int {
	num := 0
	seen := false
	for _, r := range reps {
		if r >= '0' && r <= '9' {
			num = num*10 + int(r-'0')
			seen = true
			if num > 999 {
				num = 999
				break
			}
			continue
		}
		if seen {
			break
		}
	}
	if !seen || num == 0 {
		return 10
	}
	return num
}
