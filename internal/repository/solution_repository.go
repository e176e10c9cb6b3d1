package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyinside/quizboard-backend/internal/model"
)

// SolutionRepository handles solve-record data access. Solutions are
// append-only: there is no update or delete path.
type SolutionRepository struct {
	pool *pgxpool.Pool
}

// NewSolutionRepository creates a new SolutionRepository.
func NewSolutionRepository(pool *pgxpool.Pool) *SolutionRepository {
	return &SolutionRepository{pool: pool}
}

// List retrieves all solve records, newest first.
func (r *SolutionRepository) List(ctx context.Context) ([]model.Solution, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT problem_id, user_email, user_name, solved_at
		 FROM solutions
		 ORDER BY solved_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var solutions []model.Solution
	for rows.Next() {
		var s model.Solution
		if err := rows.Scan(&s.ProblemID, &s.UserEmail, &s.UserName, &s.SolvedAt); err != nil {
			return nil, err
		}
		solutions = append(solutions, s)
	}
	return solutions, rows.Err()
}

// Insert appends one solve record. The database assigns solved_at.
// There is deliberately no uniqueness constraint: repeat solves of the
// same problem by the same user each get their own row.
func (r *SolutionRepository) Insert(ctx context.Context, s *model.Solution) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO solutions (problem_id, user_email, user_name)
		 VALUES ($1, $2, $3)
		 RETURNING solved_at`,
		s.ProblemID, s.UserEmail, s.UserName,
	).Scan(&s.SolvedAt)
}
