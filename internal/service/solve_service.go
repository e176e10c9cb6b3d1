package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/cache"
	"github.com/studyinside/quizboard-backend/internal/model"
	"github.com/studyinside/quizboard-backend/internal/quiz"
	"github.com/studyinside/quizboard-backend/internal/repository"
)

// SolutionStore is the subset of solution persistence the service needs.
type SolutionStore interface {
	List(ctx context.Context) ([]model.Solution, error)
	Insert(ctx context.Context, s *model.Solution) error
}

// CheckResult is the outcome of one answer check.
type CheckResult struct {
	Correct bool `json:"correct"`
	// Explanation is only populated on a correct answer.
	Explanation         string `json:"explanation,omitempty"`
	ExplanationImageURL string `json:"explanation_image_url,omitempty"`
	// SaveFailed flags that the solve record could not be persisted.
	// The check outcome stands regardless.
	SaveFailed bool `json:"save_failed,omitempty"`
}

// SolveService checks submitted answers and appends solve records.
type SolveService struct {
	problems  ProblemStore
	solutions SolutionStore
	cache     *cache.Store
	log       zerolog.Logger
}

// NewSolveService creates a new SolveService.
func NewSolveService(problems ProblemStore, solutions SolutionStore, cacheStore *cache.Store, log zerolog.Logger) *SolveService {
	return &SolveService{problems: problems, solutions: solutions, cache: cacheStore, log: log}
}

// Check compares the submission against the problem's answer. A correct
// answer appends one Solution record; a failure to save it is reported in
// the result but does not withhold the explanation, because the reveal is
// session state while the record is a best-effort fact.
func (s *SolveService) Check(ctx context.Context, identity model.Identity, problemID uuid.UUID, answer string) (*CheckResult, error) {
	p, err := s.problems.GetByID(ctx, problemID)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{Correct: quiz.CheckAnswer(p, answer)}
	if !result.Correct {
		return result, nil
	}

	result.Explanation = p.Explanation
	result.ExplanationImageURL = p.ExplanationImageRef

	sol := &model.Solution{
		ProblemID: p.ID,
		UserEmail: identity.Email,
		UserName:  identity.Name,
	}
	if err := s.solutions.Insert(ctx, sol); err != nil {
		s.log.Error().Err(err).Stringer("problem_id", problemID).Msg("solve record save failed")
		result.SaveFailed = true
		return result, nil
	}

	if err := s.cache.Invalidate(ctx, repository.CollectionSolutions); err != nil {
		s.log.Warn().Err(err).Msg("solution cache invalidation failed")
	}
	return result, nil
}

// LoadSolutions returns the full solve history, read through the TTL cache.
func (s *SolveService) LoadSolutions(ctx context.Context) ([]model.Solution, error) {
	var solutions []model.Solution
	err := s.cache.Get(ctx, repository.CollectionSolutions, &solutions)
	if err == nil {
		return solutions, nil
	}
	if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrNotAvailable) {
		s.log.Warn().Err(err).Msg("solution cache read failed")
	}

	solutions, err = s.solutions.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, repository.CollectionSolutions, solutions); err != nil {
		s.log.Warn().Err(err).Msg("solution cache write failed")
	}
	return solutions, nil
}
