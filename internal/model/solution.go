package model

import (
	"time"

	"github.com/google/uuid"
)

// Solution is an append-only record of one correct submission by one
// identity. It is never updated or deleted by the normal flow, and a user
// may accumulate several solves of the same problem.
type Solution struct {
	ProblemID uuid.UUID `json:"problem_id"`
	UserEmail string    `json:"user_email"`
	UserName  string    `json:"user_name"`
	SolvedAt  time.Time `json:"solved_at"`
}
