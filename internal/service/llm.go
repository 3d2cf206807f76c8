package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/liftforge/backend/internal/models"
	"github.com/liftforge/backend/internal/types"
)

var (
	// ErrMissingCredential means no generation API key is configured.
	// Raised before any network call is attempted.
	ErrMissingCredential = errors.New("GROQ_API_KEY or GROQ_API_KEY_FILE must be set")

	// ErrEmptyCatalog means no exercises are eligible for the user's
	// equipment settings; generation must not be attempted.
	ErrEmptyCatalog = errors.New("no eligible exercises for the current equipment settings")

	// ErrGenerationFailed covers network failures, non-success responses
	// and malformed output from the generation API. Not retried here.
	ErrGenerationFailed = errors.New("program generation failed")
)

// LLMService handles interactions with the Groq chat-completions API
type LLMService struct {
	apiKey string
	apiURL string
	model  string
	client *http.Client
	redis  *redis.Client
}

// NewLLMService creates a new LLMService instance
func NewLLMService() (*LLMService, error) {
	apiKey := os.Getenv("GROQ_API_KEY")
	if apiKey == "" {
		apiKeyFile := os.Getenv("GROQ_API_KEY_FILE")
		if apiKeyFile == "" {
			return nil, ErrMissingCredential
		}

		apiKeyBytes, err := os.ReadFile(apiKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read API key file: %w", err)
		}

		apiKey = strings.TrimSpace(string(apiKeyBytes))
		if apiKey == "" {
			return nil, ErrMissingCredential
		}
	}

	apiURL := os.Getenv("GROQ_API_URL")
	if apiURL == "" {
		apiURL = "https://api.groq.com/openai/v1/chat/completions"
	}

	model := os.Getenv("GROQ_MODEL")
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	redisHost := os.Getenv("REDIS_HOST")
	if redisHost == "" {
		redisHost = "localhost"
	}
	redisPort := os.Getenv("REDIS_PORT")
	if redisPort == "" {
		redisPort = "6379"
	}
	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", redisHost, redisPort),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
	})

	return &LLMService{
		apiKey: apiKey,
		apiURL: apiURL,
		model:  model,
		client: &http.Client{Timeout: 90 * time.Second},
		redis:  redisClient,
	}, nil
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a request to the chat-completions API
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// repRange is the sets/reps/rest prescription band for a training goal.
type repRange struct {
	setsLo, setsHi int
	repsLo, repsHi int
	restLo, restHi int
}

var goalRanges = map[string]repRange{
	"muscle_gain":     {3, 4, 8, 12, 60, 120},
	"fat_loss":        {2, 3, 10, 15, 45, 75},
	"strength":        {4, 5, 4, 6, 120, 180},
	"general_fitness": {2, 3, 8, 15, 45, 90},
}

// prescriptionFor selects the concrete sets/reps/rest values inside the
// goal's band based on session duration: short sessions take the low end,
// long ones the high end.
func prescriptionFor(goal string, durationMin int) (sets, repsLo, repsHi, rest int) {
	r, ok := goalRanges[goal]
	if !ok {
		r = goalRanges["general_fitness"]
	}

	pick := func(lo, hi int) int {
		switch {
		case durationMin < 30:
			return lo
		case durationMin <= 45:
			return (lo + hi) / 2
		default:
			return hi
		}
	}

	return pick(r.setsLo, r.setsHi), r.repsLo, r.repsHi, pick(r.restLo, r.restHi)
}

// weeklySplit returns the fixed split template for the given training
// frequency. Frequencies outside the 2-5 day templates clamp to the
// nearest one.
func weeklySplit(daysPerWeek int) []string {
	if daysPerWeek < 2 {
		daysPerWeek = 2
	}
	if daysPerWeek > 5 {
		daysPerWeek = 5
	}

	switch daysPerWeek {
	case 2:
		return []string{"Full Body A", "Full Body B"}
	case 3:
		return []string{"Push", "Pull", "Legs"}
	case 4:
		return []string{"Upper", "Lower", "Upper", "Lower"}
	default:
		return []string{"Upper", "Lower", "Push", "Pull", "Legs"}
	}
}

// targetExerciseCount sizes workouts from the session duration: roughly
// one exercise per nine minutes, never fewer than four.
func targetExerciseCount(durationMin int) int {
	n := durationMin / 9
	if n < 4 {
		return 4
	}
	return n
}

// hasBench reports whether the user can press from a bench. Gyms always
// qualify; at home it depends on the equipment list.
func hasBench(p types.Profile) bool {
	if p.TrainingLocation != "home" {
		return true
	}
	for _, item := range p.AvailableEquipment {
		if strings.Contains(strings.ToLower(item), "bench") {
			return true
		}
	}
	return false
}

// buildProgramPrompt assembles the full instruction set for the generator:
// the exact catalog, the split, the sets/reps/rest prescription and a
// strict JSON output directive.
func buildProgramPrompt(p types.Profile, catalog []models.Exercise) string {
	names := make([]string, 0, len(catalog))
	for _, e := range catalog {
		names = append(names, fmt.Sprintf("%q", e.Name))
	}

	split := weeklySplit(p.DaysPerWeek)
	sets, repsLo, repsHi, rest := prescriptionFor(p.PrimaryGoal, p.SessionDurationMin)
	exerciseCount := targetExerciseCount(p.SessionDurationMin)

	var sb strings.Builder
	sb.WriteString("You are a professional fitness coach. I have given you access to my database of exercises below.\n\n")
	sb.WriteString("DATABASE: [" + strings.Join(names, ", ") + "]\n\n")
	fmt.Fprintf(&sb, "USER: %s goal, %s level.\n", p.PrimaryGoal, p.TrainingExperience)
	fmt.Fprintf(&sb, "SCHEDULE: %d days, %d mins/session.\n\n", len(split), p.SessionDurationMin)
	sb.WriteString("INSTRUCTIONS:\n")
	fmt.Fprintf(&sb, "1. Create exactly %d unique workouts following this split: %s.\n", len(split), strings.Join(split, ", "))
	fmt.Fprintf(&sb, "2. Each workout: %d-%d exercises.\n", exerciseCount, exerciseCount+2)
	sb.WriteString("3. USE EXACT NAMES from the database.\n")
	fmt.Fprintf(&sb, "4. Prescribe %d sets of %d-%d reps with %d seconds rest per exercise.\n", sets, repsLo, repsHi, rest)
	sb.WriteString("5. Include a short warmup and cooldown guide per workout and a one-sentence form_tip per exercise.\n")
	line := 6
	if !hasBench(p) {
		fmt.Fprintf(&sb, "%d. The user has NO BENCH: never pick exercise names containing \"bench\", \"incline\" or \"decline\"; use floor or standing substitutes.\n", line)
		line++
	}
	fmt.Fprintf(&sb, "%d. Return pure JSON.\n\n", line)
	sb.WriteString(`JSON STRUCTURE:
{
  "program_name": "String",
  "program_overview": "String",
  "weeks": [
    {
      "week_number": 1,
      "focus": "String",
      "workouts": [
        {
          "day": "Monday",
          "workout_name": "String",
          "warmup": "String",
          "cooldown": "String",
          "exercises": [
            { "exercise_name": "Exact Name", "sets": 3, "reps": "10", "rest_seconds": 90, "form_tip": "String" }
          ]
        }
      ]
    }
  ]
}`)

	return sb.String()
}

// GenerateProgram builds the instruction payload from the profile and
// catalog, calls the generation API and parses the response. Returns the
// parsed program together with the raw JSON for verbatim persistence.
func (s *LLMService) GenerateProgram(ctx context.Context, p types.Profile, catalog []models.Exercise) (*types.WorkoutProgram, []byte, error) {
	if len(catalog) == 0 {
		return nil, nil, ErrEmptyCatalog
	}

	messages := []Message{
		{Role: "system", Content: "You are a JSON generator."},
		{Role: "user", Content: buildProgramPrompt(p, catalog)},
	}

	content, err := s.complete(ctx, Request{
		Model:          s.model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.1,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var program types.WorkoutProgram
	if err := json.Unmarshal([]byte(content), &program); err != nil {
		return nil, nil, fmt.Errorf("%w: malformed response: %v", ErrGenerationFailed, err)
	}
	if len(program.Weeks) == 0 {
		return nil, nil, fmt.Errorf("%w: response contains no weeks", ErrGenerationFailed)
	}

	return &program, []byte(content), nil
}

// Chat runs a plain-text completion for the coach conversation.
func (s *LLMService) Chat(ctx context.Context, messages []Message) (string, error) {
	return s.complete(ctx, Request{
		Model:       s.model,
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   500,
	})
}

// complete sends one chat-completions request and returns the first
// choice's content.
func (s *LLMService) complete(ctx context.Context, reqBody Request) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// SaveProgramDraft caches the most recently generated program for a user
// so the client can re-fetch it without a second generation call.
func (s *LLMService) SaveProgramDraft(ctx context.Context, userID string, raw []byte) error {
	key := fmt.Sprintf("program:draft:%s", userID)
	if err := s.redis.Set(ctx, key, raw, 24*time.Hour).Err(); err != nil {
		return fmt.Errorf("failed to save program draft to Redis: %w", err)
	}
	return nil
}

// GetProgramDraft retrieves the cached program draft for a user. A cache
// miss returns nil without an error.
func (s *LLMService) GetProgramDraft(ctx context.Context, userID string) ([]byte, error) {
	key := fmt.Sprintf("program:draft:%s", userID)
	data, err := s.redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get program draft from Redis: %w", err)
	}
	return data, nil
}

// DeleteProgramDraft removes the cached program draft for a user.
func (s *LLMService) DeleteProgramDraft(ctx context.Context, userID string) error {
	key := fmt.Sprintf("program:draft:%s", userID)
	if err := s.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete program draft from Redis: %w", err)
	}
	return nil
}
