package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt unmarshals from either a JSON number or a numeric string. The
// generation service returns numbers most of the time, but models
// occasionally quote them.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexInt(int(num))
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		n, err := strconv.Atoi(str)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q", str)
		}
		*f = FlexInt(n)
		return nil
	}

	return fmt.Errorf("invalid numeric value")
}

// WorkoutProgram is the structure the generation service must return.
// It is untrusted input: exercise names may not exist in the catalog and
// numeric fields may be missing.
type WorkoutProgram struct {
	ProgramName     string        `json:"program_name"`
	ProgramOverview string        `json:"program_overview"`
	Weeks           []ProgramWeek `json:"weeks"`
}

type ProgramWeek struct {
	WeekNumber FlexInt          `json:"week_number"`
	Focus      string           `json:"focus"`
	Workouts   []ProgramWorkout `json:"workouts"`
}

type ProgramWorkout struct {
	Day         string            `json:"day"`
	WorkoutName string            `json:"workout_name"`
	Warmup      string            `json:"warmup"`
	Cooldown    string            `json:"cooldown"`
	Exercises   []ProgramExercise `json:"exercises"`
}

type ProgramExercise struct {
	ExerciseName string  `json:"exercise_name"`
	Sets         FlexInt `json:"sets"`
	Reps         string  `json:"reps"`
	RestSeconds  FlexInt `json:"rest_seconds"`
	FormTip      string  `json:"form_tip"`
}
