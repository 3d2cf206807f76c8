package service

import (
	"math"

	"github.com/liftforge/backend/internal/types"
)

// CalculateNutritionPlan derives daily calorie and macro targets from a
// normalized profile. Pure computation: it never fails, missing numeric
// inputs fall back to deterministic defaults.
func CalculateNutritionPlan(p types.Profile) types.NutritionTargets {
	weight := p.WeightKg
	if weight == 0 {
		weight = 70
	}
	height := p.HeightCm
	if height == 0 {
		height = 175
	}
	age := p.Age
	if age == 0 {
		age = 25
	}

	// BMR via Mifflin-St Jeor
	bmr := 10*weight + 6.25*height - 5*float64(age)
	if p.Sex == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	// Activity approximated from training days per week
	days := p.DaysPerWeek
	multiplier := 1.2
	switch {
	case days >= 1 && days <= 2:
		multiplier = 1.375
	case days >= 3 && days <= 4:
		multiplier = 1.55
	case days >= 5 && days <= 6:
		multiplier = 1.725
	case days >= 7:
		multiplier = 1.9
	}

	tdee := math.Round(bmr * multiplier)

	targetCalories := tdee
	proteinRatio, fatRatio, carbRatio := 0.30, 0.30, 0.40

	switch p.PrimaryGoal {
	case "fat_loss":
		targetCalories = tdee - 500
		proteinRatio, fatRatio, carbRatio = 0.40, 0.30, 0.30
	case "muscle_gain":
		targetCalories = tdee + 300
		proteinRatio, fatRatio, carbRatio = 0.30, 0.25, 0.45
	case "strength":
		targetCalories = tdee + 200
		proteinRatio, fatRatio, carbRatio = 0.35, 0.30, 0.35
	}

	// Protein and carbs at 4 kcal/g, fat at 9 kcal/g. Each macro rounds
	// independently; the small calorie drift is accepted.
	return types.NutritionTargets{
		BMR:             int(math.Round(bmr)),
		TDEE:            int(tdee),
		DailyCalories:   int(math.Round(targetCalories)),
		ProteinGrams:    int(math.Round(targetCalories * proteinRatio / 4)),
		CarbsGrams:      int(math.Round(targetCalories * carbRatio / 4)),
		FatGrams:        int(math.Round(targetCalories * fatRatio / 9)),
		HydrationLiters: math.Round(weight*0.033*10) / 10,
	}
}
