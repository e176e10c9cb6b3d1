package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/studyinside/quizboard-backend/internal/model"
)

// Collection names used as cache keys for the list snapshots.
const (
	CollectionProblems  = "problems"
	CollectionSolutions = "solutions"
)

// ErrNotFound is returned when a referenced record does not exist, e.g. a
// problem deleted between list load and detail view.
var ErrNotFound = errors.New("record not found")

const problemColumns = `id, title, category, chapter, difficulty, question, question_type,
	        option1, option2, option3, option4, answer, explanation,
	        question_image_ref, explanation_image_ref, password_hash,
	        creator_name, creator_email, created_at`

// ProblemRepository handles problem data access.
type ProblemRepository struct {
	pool *pgxpool.Pool
}

// NewProblemRepository creates a new ProblemRepository.
func NewProblemRepository(pool *pgxpool.Pool) *ProblemRepository {
	return &ProblemRepository{pool: pool}
}

// List retrieves all problems, newest first.
func (r *ProblemRepository) List(ctx context.Context) ([]model.Problem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+problemColumns+`
		 FROM problems
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var problems []model.Problem
	for rows.Next() {
		p, err := scanProblem(rows)
		if err != nil {
			return nil, err
		}
		problems = append(problems, *p)
	}
	return problems, rows.Err()
}

// GetByID retrieves a problem by its UUID.
func (r *ProblemRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Problem, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+problemColumns+`
		 FROM problems WHERE id = $1`, id)

	p, err := scanProblem(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// Create inserts a new problem. The database assigns id and created_at.
func (r *ProblemRepository) Create(ctx context.Context, p *model.Problem) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO problems
		   (title, category, chapter, difficulty, question, question_type,
		    option1, option2, option3, option4, answer, explanation,
		    question_image_ref, explanation_image_ref, password_hash,
		    creator_name, creator_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING id, created_at`,
		p.Title, p.Category, p.Chapter, p.Difficulty, p.Question, p.QuestionType,
		p.Options[0], p.Options[1], p.Options[2], p.Options[3], p.Answer, p.Explanation,
		p.QuestionImageRef, p.ExplanationImageRef, p.PasswordHash,
		p.CreatorName, p.CreatorEmail,
	).Scan(&p.ID, &p.CreatedAt)
}

// Update rewrites a problem's user-editable fields. Creator identity and
// created_at are immutable and never touched.
func (r *ProblemRepository) Update(ctx context.Context, p *model.Problem) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE problems SET
		   title = $1, category = $2, chapter = $3, difficulty = $4,
		   question = $5, question_type = $6,
		   option1 = $7, option2 = $8, option3 = $9, option4 = $10,
		   answer = $11, explanation = $12,
		   question_image_ref = $13, explanation_image_ref = $14
		 WHERE id = $15`,
		p.Title, p.Category, p.Chapter, p.Difficulty,
		p.Question, p.QuestionType,
		p.Options[0], p.Options[1], p.Options[2], p.Options[3],
		p.Answer, p.Explanation,
		p.QuestionImageRef, p.ExplanationImageRef,
		p.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a problem by id.
func (r *ProblemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM problems WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanProblem reads one problem row in problemColumns order.
func scanProblem(row pgx.Row) (*model.Problem, error) {
	p := &model.Problem{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Category, &p.Chapter, &p.Difficulty, &p.Question, &p.QuestionType,
		&p.Options[0], &p.Options[1], &p.Options[2], &p.Options[3], &p.Answer, &p.Explanation,
		&p.QuestionImageRef, &p.ExplanationImageRef, &p.PasswordHash,
		&p.CreatorName, &p.CreatorEmail, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
