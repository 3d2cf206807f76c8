package types

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChatRequest is the payload for a coach chat turn.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// LogSetRequest records the outcome of a single set.
type LogSetRequest struct {
	ActualReps int     `json:"actual_reps" binding:"required"`
	WeightKg   float64 `json:"weight_kg"`
}
