package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat unmarshals from either a JSON number or a numeric string.
// Onboarding answers arrive as free-form form-field values.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexFloat(num)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			*f = 0
			return nil
		}
		n, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q", str)
		}
		*f = FlexFloat(n)
		return nil
	}

	return fmt.Errorf("invalid numeric value")
}

// Injury describes a current limitation reported during onboarding.
type Injury struct {
	BodyPart    string `json:"body_part"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// OnboardingRequest carries raw onboarding answers. Numeric fields are
// FlexFloat/FlexInt because the mobile form submits them as strings.
type OnboardingRequest struct {
	Age                  FlexInt   `json:"age"`
	Sex                  string    `json:"sex"`
	WeightKg             FlexFloat `json:"weight_kg"`
	HeightCm             FlexFloat `json:"height_cm"`
	PrimaryGoal          string    `json:"primary_goal"`
	TrainingExperience   string    `json:"training_experience"`
	AvailableDaysPerWeek FlexInt   `json:"available_days_per_week"`
	SessionDuration      FlexInt   `json:"session_duration"`
	TrainingLocation     string    `json:"training_location"`
	AvailableEquipment   []string  `json:"available_equipment"`

	// Reported one-rep maxes, zero when the user skipped the field.
	BenchPress    FlexFloat `json:"bench_press"`
	Squat         FlexFloat `json:"squat"`
	Deadlift      FlexFloat `json:"deadlift"`
	OverheadPress FlexFloat `json:"overhead_press"`

	CurrentInjuries []Injury `json:"current_injuries"`
}

// Profile is the normalized onboarding snapshot consumed by the nutrition
// calculator, the load estimator and the generation client. Constructed once
// per onboarding run and not mutated afterwards.
type Profile struct {
	Age                int
	Sex                string
	WeightKg           float64
	HeightCm           float64
	PrimaryGoal        string
	TrainingExperience string
	DaysPerWeek        int
	SessionDurationMin int
	TrainingLocation   string
	AvailableEquipment []string

	BenchPressPR    float64
	SquatPR         float64
	DeadliftPR      float64
	OverheadPressPR float64

	Injuries []Injury
}

// NutritionTargets is the result of the nutrition calculation.
type NutritionTargets struct {
	BMR             int     `json:"bmr"`
	TDEE            int     `json:"tdee"`
	DailyCalories   int     `json:"daily_calories"`
	ProteinGrams    int     `json:"protein_grams"`
	CarbsGrams      int     `json:"carbs_grams"`
	FatGrams        int     `json:"fat_grams"`
	HydrationLiters float64 `json:"hydration_liters"`
}
