package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/cache"
	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/model"
	"github.com/studyinside/quizboard-backend/internal/quiz"
	"github.com/studyinside/quizboard-backend/internal/repository"
	"github.com/studyinside/quizboard-backend/internal/storage"
)

// ErrNotAuthorized is returned when a mutating action is attempted by an
// identity that is neither the problem's creator nor an admin (or, in
// legacy mode, without a matching password).
var ErrNotAuthorized = errors.New("not authorized for this problem")

// ProblemStore is the subset of problem persistence the service needs.
type ProblemStore interface {
	List(ctx context.Context) ([]model.Problem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Problem, error)
	Create(ctx context.Context, p *model.Problem) error
	Update(ctx context.Context, p *model.Problem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SortMode selects the list ordering.
type SortMode string

const (
	SortRecent SortMode = "recent"
	SortKorean SortMode = "korean"
)

// ProblemService handles problem board business logic: cached listing,
// creation, edit and delete with per-action authorization, and the image
// lifecycle tied to each problem.
type ProblemService struct {
	cfg      *config.Config
	problems ProblemStore
	cache    *cache.Store
	images   storage.ImageStore
	legacy   *LegacyAuthService
	log      zerolog.Logger
}

// NewProblemService creates a new ProblemService.
func NewProblemService(
	cfg *config.Config,
	problems ProblemStore,
	cacheStore *cache.Store,
	images storage.ImageStore,
	legacy *LegacyAuthService,
	log zerolog.Logger,
) *ProblemService {
	return &ProblemService{
		cfg:      cfg,
		problems: problems,
		cache:    cacheStore,
		images:   images,
		legacy:   legacy,
		log:      log,
	}
}

// LoadProblems returns the full problem collection, read through the TTL
// cache. A cache write failure degrades to uncached reads, never to an
// error.
func (s *ProblemService) LoadProblems(ctx context.Context) ([]model.Problem, error) {
	var problems []model.Problem
	err := s.cache.Get(ctx, repository.CollectionProblems, &problems)
	if err == nil {
		return problems, nil
	}
	if !errors.Is(err, cache.ErrNotFound) && !errors.Is(err, cache.ErrNotAvailable) {
		s.log.Warn().Err(err).Msg("problem cache read failed")
	}

	problems, err = s.problems.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, repository.CollectionProblems, problems); err != nil {
		s.log.Warn().Err(err).Msg("problem cache write failed")
	}
	return problems, nil
}

// List returns the filtered, ordered list projection plus the distinct
// categories for the category selector.
func (s *ProblemService) List(ctx context.Context, category, search string, sortMode SortMode) ([]model.ProblemSummary, []string, error) {
	problems, err := s.LoadProblems(ctx)
	if err != nil {
		return nil, nil, err
	}

	categories := quiz.Categories(problems)

	filtered := quiz.FilterProblems(problems, category, search)
	if sortMode == SortKorean {
		filtered = quiz.SortByKoreanInitial(filtered)
	}

	summaries := make([]model.ProblemSummary, len(filtered))
	for i := range filtered {
		summaries[i] = filtered[i].Summary()
	}
	return summaries, categories, nil
}

// Get retrieves one problem with its image references resolved to URLs.
func (s *ProblemService) Get(ctx context.Context, id uuid.UUID) (*model.Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.QuestionImageRef = s.resolveRef(p.QuestionImageRef)
	p.ExplanationImageRef = s.resolveRef(p.ExplanationImageRef)
	return p, nil
}

// Create validates a submission, uploads its images and persists the new
// problem under the creating identity. Image upload and record insert are
// two sequential remote calls: an insert failure after a successful
// upload leaves the uploaded object orphaned, which is logged and
// accepted.
func (s *ProblemService) Create(
	ctx context.Context,
	identity model.Identity,
	sub *model.ProblemSubmission,
	questionImage, explanationImage *multipart.FileHeader,
) (*model.Problem, error) {
	p, err := quiz.ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}

	p.CreatorName = identity.Name
	p.CreatorEmail = identity.Email

	if s.legacy.Enabled() && sub.Password != "" {
		hash, err := s.legacy.HashPassword(sub.Password)
		if err != nil {
			return nil, fmt.Errorf("hash problem password: %w", err)
		}
		p.PasswordHash = hash
	}

	if p.QuestionImageRef, err = s.uploadImage(ctx, questionImage); err != nil {
		return nil, err
	}
	if p.ExplanationImageRef, err = s.uploadImage(ctx, explanationImage); err != nil {
		return nil, err
	}

	if err := s.problems.Create(ctx, p); err != nil {
		for _, ref := range p.ImageRefs() {
			s.log.Warn().Str("ref", ref).Msg("problem insert failed after image upload, object orphaned")
		}
		return nil, err
	}

	s.invalidate(ctx, repository.CollectionProblems)
	s.log.Info().Stringer("id", p.ID).Str("creator", p.CreatorEmail).Msg("problem created")
	return p, nil
}

// Update rewrites a problem after re-checking authorization. Newly
// uploaded images replace the old ones, whose objects are removed
// best-effort.
func (s *ProblemService) Update(
	ctx context.Context,
	identity model.Identity,
	id uuid.UUID,
	sub *model.ProblemSubmission,
	password string,
	questionImage, explanationImage *multipart.FileHeader,
) (*model.Problem, error) {
	existing, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(identity, existing, password); err != nil {
		return nil, err
	}

	p, err := quiz.ValidateSubmission(sub)
	if err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatorName = existing.CreatorName
	p.CreatorEmail = existing.CreatorEmail
	p.CreatedAt = existing.CreatedAt
	p.PasswordHash = existing.PasswordHash
	p.QuestionImageRef = existing.QuestionImageRef
	p.ExplanationImageRef = existing.ExplanationImageRef

	if questionImage != nil {
		ref, err := s.uploadImage(ctx, questionImage)
		if err != nil {
			return nil, err
		}
		s.deleteImage(ctx, existing.QuestionImageRef)
		p.QuestionImageRef = ref
	}
	if explanationImage != nil {
		ref, err := s.uploadImage(ctx, explanationImage)
		if err != nil {
			return nil, err
		}
		s.deleteImage(ctx, existing.ExplanationImageRef)
		p.ExplanationImageRef = ref
	}

	if err := s.problems.Update(ctx, p); err != nil {
		return nil, err
	}

	s.invalidate(ctx, repository.CollectionProblems)
	s.log.Info().Stringer("id", p.ID).Msg("problem updated")
	return p, nil
}

// Delete removes a problem and its images after re-checking
// authorization. Image deletion runs first and is best-effort: a failed
// object removal never blocks the record delete.
func (s *ProblemService) Delete(ctx context.Context, identity model.Identity, id uuid.UUID, password string) error {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Authorize(identity, p, password); err != nil {
		return err
	}

	for _, ref := range p.ImageRefs() {
		s.deleteImage(ctx, ref)
	}

	if err := s.problems.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx, repository.CollectionProblems)
	s.log.Info().Stringer("id", id).Str("by", identity.Email).Msg("problem deleted")
	return nil
}

// Authorize re-checks, at call time, that the identity may mutate the
// problem: creator-email equality or admin-set membership, or in legacy
// mode a matching problem/global password. The result is never cached
// across actions.
func (s *ProblemService) Authorize(identity model.Identity, p *model.Problem, password string) error {
	if s.legacy.Enabled() {
		if err := s.legacy.Authorize(p, password); err != nil {
			return ErrNotAuthorized
		}
		return nil
	}
	if identity.Email == p.CreatorEmail || s.cfg.IsAdmin(identity.Email) {
		return nil
	}
	return ErrNotAuthorized
}

func (s *ProblemService) uploadImage(ctx context.Context, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", nil
	}
	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	return s.images.Upload(ctx, file, header.Size, header.Header.Get("Content-Type"))
}

// deleteImage removes one stored image, logging instead of failing.
func (s *ProblemService) deleteImage(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		s.log.Warn().Err(err).Str("ref", ref).Msg("image delete failed")
	}
}

func (s *ProblemService) resolveRef(ref string) string {
	if ref == "" {
		return ""
	}
	return s.images.ResolveURL(ref)
}

// invalidate drops cached collection snapshots after a successful write.
func (s *ProblemService) invalidate(ctx context.Context, collections ...string) {
	if err := s.cache.Invalidate(ctx, collections...); err != nil {
		s.log.Warn().Err(err).Msg("cache invalidation failed")
	}
}
