package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

func newTestLLMService(t *testing.T, apiURL string) *LLMService {
	t.Helper()
	t.Setenv("GROQ_API_KEY", "test-key")
	t.Setenv("GROQ_API_URL", apiURL)
	svc, err := NewLLMService()
	require.NoError(t, err)
	return svc
}

// completionResponse wraps content the way the chat-completions API does.
func completionResponse(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestNewLLMService(t *testing.T) {
	t.Run("fails fast without credentials", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "")
		t.Setenv("GROQ_API_KEY_FILE", "")
		_, err := NewLLMService()
		assert.ErrorIs(t, err, ErrMissingCredential)
	})

	t.Run("reads the key from a secret file", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "groq_key")
		require.NoError(t, os.WriteFile(keyFile, []byte("file-key\n"), 0o600))

		t.Setenv("GROQ_API_KEY", "")
		t.Setenv("GROQ_API_KEY_FILE", keyFile)
		svc, err := NewLLMService()
		require.NoError(t, err)
		assert.Equal(t, "file-key", svc.apiKey)
	})

	t.Run("empty secret file is rejected", func(t *testing.T) {
		keyFile := filepath.Join(t.TempDir(), "groq_key")
		require.NoError(t, os.WriteFile(keyFile, []byte("  \n"), 0o600))

		t.Setenv("GROQ_API_KEY", "")
		t.Setenv("GROQ_API_KEY_FILE", keyFile)
		_, err := NewLLMService()
		assert.ErrorIs(t, err, ErrMissingCredential)
	})
}

func TestGenerateProgram(t *testing.T) {
	profile := types.Profile{
		Sex: "male", WeightKg: 80, PrimaryGoal: "muscle_gain",
		TrainingExperience: "beginner", DaysPerWeek: 3, SessionDurationMin: 60,
		TrainingLocation: "gym",
	}
	catalog := []models.Exercise{
		{Name: "Barbell Bench Press", Equipment: models.EquipmentBarbell},
		{Name: "Barbell Back Squat", Equipment: models.EquipmentBarbell},
	}

	programJSON := `{
		"program_name": "Hypertrophy Block",
		"program_overview": "Three day split.",
		"weeks": [{"week_number": 1, "focus": "Volume", "workouts": []}]
	}`

	t.Run("happy path", func(t *testing.T) {
		var captured Request
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			fmt.Fprint(w, completionResponse(programJSON))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL)
		program, raw, err := svc.GenerateProgram(context.Background(), profile, catalog)
		require.NoError(t, err)

		assert.Equal(t, "Hypertrophy Block", program.ProgramName)
		assert.JSONEq(t, programJSON, string(raw))

		assert.Equal(t, "llama-3.3-70b-versatile", captured.Model)
		assert.Equal(t, 0.1, captured.Temperature)
		assert.Equal(t, map[string]string{"type": "json_object"}, captured.ResponseFormat)

		require.Len(t, captured.Messages, 2)
		prompt := captured.Messages[1].Content
		assert.Contains(t, prompt, `"Barbell Bench Press"`)
		assert.Contains(t, prompt, `"Barbell Back Squat"`)
		assert.Contains(t, prompt, "Push, Pull, Legs")
		assert.Contains(t, prompt, "USE EXACT NAMES")
		assert.Contains(t, prompt, "Return pure JSON")
		assert.NotContains(t, prompt, "NO BENCH")
	})

	t.Run("empty catalog never reaches the API", func(t *testing.T) {
		called := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL)
		_, _, err := svc.GenerateProgram(context.Background(), profile, nil)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
		assert.False(t, called)
	})

	t.Run("non-success status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL)
		_, _, err := svc.GenerateProgram(context.Background(), profile, catalog)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("malformed program content", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionResponse("this is not json"))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL)
		_, _, err := svc.GenerateProgram(context.Background(), profile, catalog)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("program without weeks is rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, completionResponse(`{"program_name":"Empty","weeks":[]}`))
		}))
		defer server.Close()

		svc := newTestLLMService(t, server.URL)
		_, _, err := svc.GenerateProgram(context.Background(), profile, catalog)
		assert.ErrorIs(t, err, ErrGenerationFailed)
	})

	t.Run("home without a bench adds the substitution rule", func(t *testing.T) {
		var prompt string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var req Request
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			prompt = req.Messages[1].Content
			fmt.Fprint(w, completionResponse(programJSON))
		}))
		defer server.Close()

		homeProfile := profile
		homeProfile.TrainingLocation = "home"
		homeProfile.AvailableEquipment = []string{"dumbbells"}

		svc := newTestLLMService(t, server.URL)
		_, _, err := svc.GenerateProgram(context.Background(), homeProfile, catalog)
		require.NoError(t, err)
		assert.Contains(t, prompt, "NO BENCH")
	})
}

func TestWeeklySplit(t *testing.T) {
	tests := []struct {
		days int
		want []string
	}{
		{2, []string{"Full Body A", "Full Body B"}},
		{3, []string{"Push", "Pull", "Legs"}},
		{4, []string{"Upper", "Lower", "Upper", "Lower"}},
		{5, []string{"Upper", "Lower", "Push", "Pull", "Legs"}},
		// out-of-range frequencies clamp to the nearest template
		{1, []string{"Full Body A", "Full Body B"}},
		{6, []string{"Upper", "Lower", "Push", "Pull", "Legs"}},
		{7, []string{"Upper", "Lower", "Push", "Pull", "Legs"}},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d days", tt.days), func(t *testing.T) {
			assert.Equal(t, tt.want, weeklySplit(tt.days))
		})
	}
}

func TestPrescriptionFor(t *testing.T) {
	t.Run("duration adjustment is monotonic", func(t *testing.T) {
		for _, goal := range []string{"muscle_gain", "fat_loss", "strength", "general_fitness"} {
			shortSets, _, _, shortRest := prescriptionFor(goal, 25)
			midSets, _, _, midRest := prescriptionFor(goal, 40)
			longSets, _, _, longRest := prescriptionFor(goal, 75)

			assert.LessOrEqual(t, shortSets, midSets, goal)
			assert.LessOrEqual(t, midSets, longSets, goal)
			assert.LessOrEqual(t, shortRest, midRest, goal)
			assert.LessOrEqual(t, midRest, longRest, goal)
		}
	})

	t.Run("strength prescribes low reps and long rest", func(t *testing.T) {
		sets, repsLo, repsHi, rest := prescriptionFor("strength", 75)
		assert.Equal(t, 5, sets)
		assert.Equal(t, 4, repsLo)
		assert.Equal(t, 6, repsHi)
		assert.Equal(t, 180, rest)
	})

	t.Run("unknown goal falls back to general fitness", func(t *testing.T) {
		sets, repsLo, repsHi, rest := prescriptionFor("mystery", 40)
		wantSets, wantLo, wantHi, wantRest := prescriptionFor("general_fitness", 40)
		assert.Equal(t, wantSets, sets)
		assert.Equal(t, wantLo, repsLo)
		assert.Equal(t, wantHi, repsHi)
		assert.Equal(t, wantRest, rest)
	})
}

func TestTargetExerciseCount(t *testing.T) {
	assert.Equal(t, 4, targetExerciseCount(20))
	assert.Equal(t, 5, targetExerciseCount(45))
	assert.Equal(t, 6, targetExerciseCount(60))
	assert.Equal(t, 10, targetExerciseCount(90))
}

func TestBuildProgramPromptWorkoutCount(t *testing.T) {
	p := types.Profile{PrimaryGoal: "muscle_gain", DaysPerWeek: 7, SessionDurationMin: 60, TrainingLocation: "gym"}
	prompt := buildProgramPrompt(p, []models.Exercise{{Name: "Push Up"}})

	// 7 days clamps to the 5-day split
	assert.Contains(t, prompt, "Create exactly 5 unique workouts")
	assert.True(t, strings.Contains(prompt, "Upper, Lower, Push, Pull, Legs"))
}
