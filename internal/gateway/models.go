// Package gateway is the typed REST client for the fitness backend.
// Every screen-facing data source goes through here; the aggregation
// engines never perform network I/O themselves.
package gateway

import (
	"errors"
	"fmt"

	"github.com/fitpulse/fitpulse/internal/nutrition"
)

// Gateway errors.
var (
	ErrUnauthorized  = errors.New("unauthorized")
	ErrInvalidWeight = errors.New("weight must be positive")
	ErrEmptyQuery    = errors.New("search query is empty")
)

// APIError is a non-2xx response decoded from the backend's error
// envelope.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// Unwrap lets callers match 401s with errors.Is(err, ErrUnauthorized).
func (e *APIError) Unwrap() error {
	if e.StatusCode == 401 {
		return ErrUnauthorized
	}
	return nil
}

// LogFoodRequest is the payload for logging a consumption event.
type LogFoodRequest struct {
	FoodID   string             `json:"foodId"`
	Servings float64            `json:"servings"`
	MealType nutrition.MealType `json:"mealType"`
	Date     string             `json:"date"` // YYYY-MM-DD
}

// Profile is the slice of the user profile the engine consumes.
type Profile struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	FoodAllergies []string         `json:"foodAllergies"`
	Streak        nutrition.Streak `json:"streak"`
}

// Conversation is a coach-messaging thread header, consumed read-only
// by the polling message views.
type Conversation struct {
	ID          string `json:"id"`
	CoachName   string `json:"coachName"`
	LastMessage string `json:"lastMessage"`
	UnreadCount int    `json:"unreadCount"`
	UpdatedAt   string `json:"updatedAt"`
}

// Message is a single message within a conversation.
type Message struct {
	ID             string `json:"id"`
	ConversationID string `json:"conversationId"`
	SenderID       string `json:"senderId"`
	Body           string `json:"body"`
	SentAt         string `json:"sentAt"`
}

// errorEnvelope is the backend's error response shape.
type errorEnvelope struct {
	Error APIError `json:"error"`
}
