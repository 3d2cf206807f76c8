package service

import (
	"math"
	"strings"

	"github.com/liftforge/backend/internal/types"
)

// loadBaselines holds per-user one-rep-max estimates. Reported PRs are
// used verbatim; missing ones are estimated from bodyweight and a gender
// modifier (an estimation heuristic, applied only to the fallback).
type loadBaselines struct {
	matchedName string
	bodyweight  float64
	bench       float64
	squat       float64
	deadlift    float64
	ohp         float64
	intensity   float64
}

// loadRule pairs a name predicate with a weight formula. Rules are
// evaluated top to bottom and the first match wins; the ordering is a
// deliberate tie-break (e.g. "goblet squat" must hit the squat rule with
// its dumbbell discount, not fall through to accessories).
type loadRule struct {
	matches func(name, equipment string) bool
	weight  func(b loadBaselines, equipment string) float64
}

func nameContains(substrs ...string) func(name, equipment string) bool {
	return func(name, _ string) bool {
		for _, s := range substrs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

var loadRules = []loadRule{
	{
		matches: nameContains("bench press"),
		weight: func(b loadBaselines, equipment string) float64 {
			// Dumbbell pressing approximates per-hand load at ~35% of
			// the barbell-equivalent max.
			if strings.Contains(equipment, "dumbbell") {
				return b.bench * 0.35 * b.intensity
			}
			return b.bench * b.intensity
		},
	},
	{
		matches: nameContains("squat"),
		weight: func(b loadBaselines, equipment string) float64 {
			// Goblet and dumbbell squats run far lighter than a
			// barbell back squat.
			if strings.Contains(b.matchedName, "goblet") || strings.Contains(equipment, "dumbbell") {
				return b.squat * 0.4 * b.intensity
			}
			return b.squat * b.intensity
		},
	},
	{
		matches: nameContains("deadlift"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.deadlift * b.intensity
		},
	},
	{
		matches: nameContains("overhead", "military", "shoulder press"),
		weight: func(b loadBaselines, equipment string) float64 {
			if strings.Contains(equipment, "dumbbell") {
				return b.ohp * 0.4 * b.intensity
			}
			return b.ohp * b.intensity
		},
	},
	{
		matches: nameContains("row", "pulldown"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.deadlift * 0.20 * b.intensity
		},
	},
	{
		matches: nameContains("lunge", "split squat", "step up"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.squat * 0.25 * b.intensity
		},
	},
	{
		matches: nameContains("leg press"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.squat * 1.5 * b.intensity
		},
	},
	{
		matches: nameContains("curl", "tricep", "extension"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.ohp * 0.3 * b.intensity
		},
	},
	{
		matches: nameContains("fly", "raise", "lateral"),
		weight: func(b loadBaselines, _ string) float64 {
			return b.ohp * 0.15 * b.intensity
		},
	},
}

// EstimateLoad suggests a starting working weight in kg for an exercise.
// Pure computation; always returns a non-negative integer-rounded value.
func EstimateLoad(exerciseName, equipment string, p types.Profile) float64 {
	name := strings.ToLower(exerciseName)
	equipment = strings.ToLower(equipment)

	bw := p.WeightKg
	if bw == 0 {
		bw = 70
	}
	genderMod := 0.65
	if p.Sex == "male" {
		genderMod = 1.0
	}

	intensity := 0.70
	switch p.PrimaryGoal {
	case "strength":
		intensity = 0.85
	case "fat_loss", "endurance":
		intensity = 0.60
	}

	b := loadBaselines{
		matchedName: name,
		bodyweight:  bw,
		bench:       orEstimate(p.BenchPressPR, bw*0.75*genderMod),
		squat:       orEstimate(p.SquatPR, bw*1.0*genderMod),
		deadlift:    orEstimate(p.DeadliftPR, bw*1.2*genderMod),
		ohp:         orEstimate(p.OverheadPressPR, bw*0.45*genderMod),
		intensity:   intensity,
	}

	for _, rule := range loadRules {
		if rule.matches(name, equipment) {
			return math.Round(rule.weight(b, equipment))
		}
	}

	// Safety-net defaults when no movement pattern matched.
	if strings.Contains(equipment, "dumbbell") {
		return math.Max(5, math.Round(bw*0.15))
	}
	if strings.Contains(equipment, "barbell") {
		return 20 // empty bar
	}
	return 0 // bodyweight only
}

func orEstimate(reported, estimate float64) float64 {
	if reported > 0 {
		return reported
	}
	return estimate
}
