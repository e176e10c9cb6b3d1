package service

import (
	"context"

	"github.com/studyinside/quizboard-backend/internal/quiz"
)

// topSolvedLimit caps the most-solved table on the dashboard.
const topSolvedLimit = 5

// DashboardData consolidates the admin dashboard's aggregates.
type DashboardData struct {
	TotalProblems     int                  `json:"total_problems"`
	TotalSolutions    int                  `json:"total_solutions"`
	ProblemsByCreator map[string]int       `json:"problems_by_creator"`
	SolvesByUser      map[string]int       `json:"solves_by_user"`
	TopSolved         []quiz.SolvedProblem `json:"top_solved"`
}

// StatsService computes the admin dashboard aggregates from the cached
// collection snapshots.
type StatsService struct {
	problems *ProblemService
	solves   *SolveService
}

// NewStatsService creates a new StatsService.
func NewStatsService(problems *ProblemService, solves *SolveService) *StatsService {
	return &StatsService{problems: problems, solves: solves}
}

// Dashboard assembles the per-creator, per-solver and most-solved
// aggregates over the current snapshots.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardData, error) {
	problems, err := s.problems.LoadProblems(ctx)
	if err != nil {
		return nil, err
	}
	solutions, err := s.solves.LoadSolutions(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardData{
		TotalProblems:     len(problems),
		TotalSolutions:    len(solutions),
		ProblemsByCreator: quiz.AggregateByCreator(problems),
		SolvesByUser:      quiz.AggregateBySolver(solutions),
		TopSolved:         quiz.TopSolvedProblems(solutions, problems, topSolvedLimit),
	}, nil
}
