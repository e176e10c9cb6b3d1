package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the supported question formats.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeShortAnswer    QuestionType = "SHORT_ANSWER"
)

// Problem represents a quiz problem shared on the board.
// CreatorName/CreatorEmail are set from the authenticated identity at
// creation and never change afterwards.
type Problem struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Category     string       `json:"category"`
	Chapter      string       `json:"chapter,omitempty"`
	Difficulty   string       `json:"difficulty,omitempty"`
	Question     string       `json:"question"`
	QuestionType QuestionType `json:"question_type"`
	// Options are present and all non-empty iff QuestionType is
	// MULTIPLE_CHOICE; for short answers all four are empty strings.
	Options [4]string `json:"options"`
	// Answer is the verbatim text of the correct option for multiple
	// choice, or the expected free-text answer for short answers.
	Answer              string `json:"answer"`
	Explanation         string `json:"explanation,omitempty"`
	QuestionImageRef    string `json:"question_image_ref,omitempty"`
	ExplanationImageRef string `json:"explanation_image_ref,omitempty"`
	// PasswordHash is only populated in the legacy password auth mode.
	// It is never serialized to clients.
	PasswordHash string    `json:"-"`
	CreatorName  string    `json:"creator_name"`
	CreatorEmail string    `json:"creator_email"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsMultipleChoice reports whether the problem carries four options.
func (p *Problem) IsMultipleChoice() bool {
	return p.QuestionType == QuestionTypeMultipleChoice
}

// ImageRefs returns the problem's non-empty image references.
func (p *Problem) ImageRefs() []string {
	var refs []string
	if p.QuestionImageRef != "" {
		refs = append(refs, p.QuestionImageRef)
	}
	if p.ExplanationImageRef != "" {
		refs = append(refs, p.ExplanationImageRef)
	}
	return refs
}

// ProblemSummary is the list-view projection of a problem.
type ProblemSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	CreatorName string    `json:"creator_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Summary returns the list-view projection of the problem.
func (p *Problem) Summary() ProblemSummary {
	return ProblemSummary{
		ID:          p.ID,
		Title:       p.Title,
		Category:    p.Category,
		CreatorName: p.CreatorName,
		CreatedAt:   p.CreatedAt,
	}
}

// ProblemSubmission is the user-provided portion of a problem, as it
// arrives from the creation or edit form. For multiple choice the answer
// is selected by option index and resolved to its text before validation.
type ProblemSubmission struct {
	Title        string       `form:"title" json:"title"`
	Category     string       `form:"category" json:"category"`
	Chapter      string       `form:"chapter" json:"chapter"`
	Difficulty   string       `form:"difficulty" json:"difficulty"`
	Question     string       `form:"question" json:"question"`
	QuestionType QuestionType `form:"question_type" json:"question_type" binding:"required,oneof=MULTIPLE_CHOICE SHORT_ANSWER"`
	Options      [4]string    `form:"options" json:"options"`
	// AnswerIndex selects the correct option (0-3) for multiple choice.
	AnswerIndex *int   `form:"answer_index" json:"answer_index" binding:"omitempty,min=0,max=3"`
	Answer      string `form:"answer" json:"answer"`
	Explanation string `form:"explanation" json:"explanation"`
	// Password is only honored in the legacy password auth mode.
	Password string `form:"password" json:"password"`
}

// CheckAnswerRequest is the payload for an answer check on the detail page.
type CheckAnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// AuthorizePasswordRequest is the legacy-mode payload carrying a problem
// or global admin password for edit/delete authorization.
type AuthorizePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}
