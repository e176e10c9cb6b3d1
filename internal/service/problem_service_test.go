package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/cache"
	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/model"
	"github.com/studyinside/quizboard-backend/internal/repository"
)

// fakeProblemStore is an in-memory ProblemStore preserving insertion
// order, newest first, like the SQL repository.
type fakeProblemStore struct {
	problems  []model.Problem
	listCalls int
}

func (f *fakeProblemStore) List(ctx context.Context) ([]model.Problem, error) {
	f.listCalls++
	out := make([]model.Problem, len(f.problems))
	copy(out, f.problems)
	return out, nil
}

func (f *fakeProblemStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Problem, error) {
	for i := range f.problems {
		if f.problems[i].ID == id {
			p := f.problems[i]
			return &p, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeProblemStore) Create(ctx context.Context, p *model.Problem) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	f.problems = append([]model.Problem{*p}, f.problems...)
	return nil
}

func (f *fakeProblemStore) Update(ctx context.Context, p *model.Problem) error {
	for i := range f.problems {
		if f.problems[i].ID == p.ID {
			f.problems[i] = *p
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeProblemStore) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range f.problems {
		if f.problems[i].ID == id {
			f.problems = append(f.problems[:i], f.problems[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// fakeImageStore records delete calls.
type fakeImageStore struct {
	deleted []string
}

func (f *fakeImageStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error) {
	return "", nil
}

func (f *fakeImageStore) Delete(ctx context.Context, ref string) error {
	f.deleted = append(f.deleted, ref)
	return nil
}

func (f *fakeImageStore) ResolveURL(ref string) string { return ref }

type fakeSolutionStore struct {
	solutions []model.Solution
	insertErr error
}

func (f *fakeSolutionStore) List(ctx context.Context) ([]model.Solution, error) {
	out := make([]model.Solution, len(f.solutions))
	copy(out, f.solutions)
	return out, nil
}

func (f *fakeSolutionStore) Insert(ctx context.Context, s *model.Solution) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	s.SolvedAt = time.Now()
	f.solutions = append(f.solutions, *s)
	return nil
}

func newTestCache(t *testing.T) *cache.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.NewStore(rdb, 300*time.Second)
}

func newTestProblemService(t *testing.T, store *fakeProblemStore, images *fakeImageStore) *ProblemService {
	t.Helper()
	cfg := &config.Config{
		AuthMode:    config.AuthModeGoogle,
		AdminEmails: []string{"admin@example.com"},
	}
	return NewProblemService(cfg, store, newTestCache(t), images, NewLegacyAuthService(cfg), zerolog.Nop())
}

func seedProblem(store *fakeProblemStore, title, creatorEmail string, imageRefs ...string) uuid.UUID {
	p := model.Problem{
		ID:           uuid.New(),
		Title:        title,
		Category:     "Math",
		Question:     "q",
		QuestionType: model.QuestionTypeShortAnswer,
		Answer:       "y",
		CreatorName:  "Creator",
		CreatorEmail: creatorEmail,
		CreatedAt:    time.Now(),
	}
	if len(imageRefs) > 0 {
		p.QuestionImageRef = imageRefs[0]
	}
	if len(imageRefs) > 1 {
		p.ExplanationImageRef = imageRefs[1]
	}
	store.problems = append([]model.Problem{p}, store.problems...)
	return p.ID
}

func TestLoadProblemsReadsThroughCache(t *testing.T) {
	store := &fakeProblemStore{}
	seedProblem(store, "one", "a@example.com")
	svc := newTestProblemService(t, store, &fakeImageStore{})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.LoadProblems(ctx); err != nil {
			t.Fatalf("LoadProblems: %v", err)
		}
	}
	if store.listCalls != 1 {
		t.Errorf("store hit %d times, want 1 (cache read-through)", store.listCalls)
	}
}

func TestDeleteAuthorization(t *testing.T) {
	store := &fakeProblemStore{}
	id := seedProblem(store, "one", "owner@example.com")
	svc := newTestProblemService(t, store, &fakeImageStore{})
	ctx := context.Background()

	stranger := model.Identity{Name: "S", Email: "stranger@example.com"}
	if err := svc.Delete(ctx, stranger, id, ""); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("stranger delete: err = %v, want ErrNotAuthorized", err)
	}
	if len(store.problems) != 1 {
		t.Fatal("failed authorization must not mutate state")
	}

	owner := model.Identity{Name: "O", Email: "owner@example.com"}
	if err := svc.Delete(ctx, owner, id, ""); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if len(store.problems) != 0 {
		t.Fatal("owner delete did not remove the problem")
	}
}

func TestAdminMayDeleteAnyProblem(t *testing.T) {
	store := &fakeProblemStore{}
	id := seedProblem(store, "one", "owner@example.com")
	svc := newTestProblemService(t, store, &fakeImageStore{})

	admin := model.Identity{Name: "A", Email: "admin@example.com"}
	if err := svc.Delete(context.Background(), admin, id, ""); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
}

func TestDeleteCascadesImageRemoval(t *testing.T) {
	store := &fakeProblemStore{}
	images := &fakeImageStore{}
	id := seedProblem(store, "one", "owner@example.com", "/uploads/q.png", "/uploads/e.png")
	svc := newTestProblemService(t, store, images)

	owner := model.Identity{Name: "O", Email: "owner@example.com"}
	if err := svc.Delete(context.Background(), owner, id, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(images.deleted) != 2 {
		t.Fatalf("deleteImage called %d times, want exactly one per image ref", len(images.deleted))
	}
}

func TestDeleteInvalidatesCache(t *testing.T) {
	store := &fakeProblemStore{}
	seedProblem(store, "keep", "owner@example.com")
	id := seedProblem(store, "gone", "owner@example.com")
	svc := newTestProblemService(t, store, &fakeImageStore{})
	ctx := context.Background()

	if _, err := svc.LoadProblems(ctx); err != nil {
		t.Fatalf("warm cache: %v", err)
	}

	owner := model.Identity{Name: "O", Email: "owner@example.com"}
	if err := svc.Delete(ctx, owner, id, ""); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	problems, err := svc.LoadProblems(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	for _, p := range problems {
		if p.ID == id {
			t.Fatal("deleted problem still served from cache")
		}
	}
}

func TestCreateSetsCreatorIdentity(t *testing.T) {
	store := &fakeProblemStore{}
	svc := newTestProblemService(t, store, &fakeImageStore{})

	creator := model.Identity{Name: "Jin", Email: "jin@example.com"}
	idx := 1
	p, err := svc.Create(context.Background(), creator, &model.ProblemSubmission{
		Title:        "MC",
		Category:     "Math",
		Question:     "pick one",
		QuestionType: model.QuestionTypeMultipleChoice,
		Options:      [4]string{"x", "y", "z", "w"},
		AnswerIndex:  &idx,
	}, nil, nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.CreatorName != "Jin" || p.CreatorEmail != "jin@example.com" {
		t.Errorf("creator identity not applied: %+v", p)
	}
	if p.Answer != "y" {
		t.Errorf("answer = %q, want resolved option text", p.Answer)
	}
	if p.ID == uuid.Nil {
		t.Error("created problem has no id")
	}
}

func TestUpdatePreservesImmutableFields(t *testing.T) {
	store := &fakeProblemStore{}
	id := seedProblem(store, "old title", "owner@example.com")
	svc := newTestProblemService(t, store, &fakeImageStore{})

	owner := model.Identity{Name: "O", Email: "owner@example.com"}
	p, err := svc.Update(context.Background(), owner, id, &model.ProblemSubmission{
		Title:        "new title",
		Category:     "Math",
		Question:     "q2",
		QuestionType: model.QuestionTypeShortAnswer,
		Answer:       "z",
	}, "", nil, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if p.Title != "new title" || p.Answer != "z" {
		t.Errorf("update not applied: %+v", p)
	}
	if p.CreatorEmail != "owner@example.com" || p.CreatorName != "Creator" {
		t.Errorf("creator identity must be immutable: %+v", p)
	}
}
