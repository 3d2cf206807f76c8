package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	coachHistoryTTL = 24 * time.Hour
	coachHistoryMax = 20
)

// ChatCompleter is the slice of the generation client the coach needs.
type ChatCompleter interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// CoachService runs the conversational coach. Conversation history lives
// in Redis per session so a chat survives app restarts but expires on
// its own.
type CoachService struct {
	llm   ChatCompleter
	redis *redis.Client
}

// NewCoachService creates a new CoachService instance
func NewCoachService(llm ChatCompleter, redisClient *redis.Client) *CoachService {
	return &CoachService{llm: llm, redis: redisClient}
}

const coachSystemPrompt = "You are a supportive fitness coach. Answer training and " +
	"nutrition questions concisely and practically. Refuse to give medical diagnoses; " +
	"suggest seeing a professional for pain or injury concerns."

// Chat appends the user message to the session history, runs a
// completion with the full history and stores the reply.
func (s *CoachService) Chat(ctx context.Context, sessionID, message string) (string, error) {
	history, err := s.History(ctx, sessionID)
	if err != nil {
		return "", err
	}

	history = append(history, Message{Role: "user", Content: message})

	messages := make([]Message, 0, len(history)+1)
	messages = append(messages, Message{Role: "system", Content: coachSystemPrompt})
	messages = append(messages, history...)

	reply, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("coach completion failed: %w", err)
	}

	history = append(history, Message{Role: "assistant", Content: reply})
	if len(history) > coachHistoryMax {
		history = history[len(history)-coachHistoryMax:]
	}
	if err := s.saveHistory(ctx, sessionID, history); err != nil {
		return "", err
	}

	return reply, nil
}

// History returns the stored conversation for a session, empty when none
// exists yet.
func (s *CoachService) History(ctx context.Context, sessionID string) ([]Message, error) {
	data, err := s.redis.Get(ctx, coachHistoryKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Message{}, nil
		}
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("failed to decode chat history: %w", err)
	}
	return history, nil
}

// Reset clears the conversation for a session.
func (s *CoachService) Reset(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, coachHistoryKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to reset chat history: %w", err)
	}
	return nil
}

func (s *CoachService) saveHistory(ctx context.Context, sessionID string, history []Message) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("failed to encode chat history: %w", err)
	}
	if err := s.redis.Set(ctx, coachHistoryKey(sessionID), data, coachHistoryTTL).Err(); err != nil {
		return fmt.Errorf("failed to save chat history: %w", err)
	}
	return nil
}

func coachHistoryKey(sessionID string) string {
	return fmt.Sprintf("coach:history:%s", sessionID)
}
