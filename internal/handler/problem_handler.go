package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/middleware"
	"github.com/studyinside/quizboard-backend/internal/model"
	"github.com/studyinside/quizboard-backend/internal/quiz"
	"github.com/studyinside/quizboard-backend/internal/repository"
	"github.com/studyinside/quizboard-backend/internal/response"
	"github.com/studyinside/quizboard-backend/internal/service"
	"github.com/studyinside/quizboard-backend/internal/session"
	"github.com/studyinside/quizboard-backend/internal/storage"
	"github.com/studyinside/quizboard-backend/internal/validator"
)

// ProblemHandler handles the problem board endpoints.
type ProblemHandler struct {
	problemService *service.ProblemService
	solveService   *service.SolveService
	legacy         *service.LegacyAuthService
	sessionStore   *session.Store
	log            zerolog.Logger
}

// NewProblemHandler creates a new ProblemHandler.
func NewProblemHandler(
	problemService *service.ProblemService,
	solveService *service.SolveService,
	legacy *service.LegacyAuthService,
	sessionStore *session.Store,
	log zerolog.Logger,
) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		solveService:   solveService,
		legacy:         legacy,
		sessionStore:   sessionStore,
		log:            log,
	}
}

// ListProblems godoc
// GET /api/v1/problems?category=&search=&sort=
// Lists problem summaries, filtered and ordered, plus the category set
// for the filter selector. sort=korean orders by Korean initial consonant;
// anything else keeps newest-first.
func (h *ProblemHandler) ListProblems(c *gin.Context) {
	sortMode := service.SortRecent
	if c.Query("sort") == "korean" {
		sortMode = service.SortKorean
	}

	problems, categories, err := h.problemService.List(
		c.Request.Context(), c.Query("category"), c.Query("search"), sortMode)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"problems":   problems,
		"categories": categories,
	})
}

// ListCategories godoc
// GET /api/v1/problems/categories
// Returns the distinct categories currently in use, sorted.
func (h *ProblemHandler) ListCategories(c *gin.Context) {
	problems, err := h.problemService.LoadProblems(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": quiz.Categories(problems)})
}

// GetProblem godoc
// GET /api/v1/problems/:id
// Shows one problem and moves the session to its detail page. A vanished
// problem sends the session back to the list instead of erroring the
// state.
func (h *ProblemHandler) GetProblem(c *gin.Context) {
	claims, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	st, err := h.sessionStore.Get(ctx, claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	p, err := h.problemService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			st.BackToList()
			h.saveState(c, claims.ID, st)
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	st.EnterDetail(p.ID)
	h.saveState(c, claims.ID, st)

	response.Success(c, http.StatusOK, gin.H{
		"problem": h.problemView(p, st),
		"state":   st,
	})
}

// CreateProblem godoc
// POST /api/v1/problems (multipart/form-data)
// Creates a problem under the authenticated identity, with optional
// question and explanation images.
func (h *ProblemHandler) CreateProblem(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	ctx := c.Request.Context()

	var sub model.ProblemSubmission
	if err := c.ShouldBind(&sub); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}
	questionImage, _ := c.FormFile("question_image")
	explanationImage, _ := c.FormFile("explanation_image")

	p, err := h.problemService.Create(ctx, claims.Identity(), &sub, questionImage, explanationImage)
	if err != nil {
		h.failProblemWrite(c, err)
		return
	}

	if st, stErr := h.sessionStore.Get(ctx, claims.ID); stErr == nil {
		st.FinishCreate()
		h.saveState(c, claims.ID, st)
	}

	response.Success(c, http.StatusCreated, gin.H{"problem": p})
}

// UpdateProblem godoc
// PUT /api/v1/problems/:id (multipart/form-data)
// Rewrites a problem. Only the owner, an admin, or (in password mode) a
// caller presenting the problem password may update.
func (h *ProblemHandler) UpdateProblem(c *gin.Context) {
	claims, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var sub model.ProblemSubmission
	if err := c.ShouldBind(&sub); err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, validator.TranslateErrors(err))
		return
	}
	questionImage, _ := c.FormFile("question_image")
	explanationImage, _ := c.FormFile("explanation_image")

	p, err := h.problemService.Update(ctx, claims.Identity(), id, &sub,
		c.PostForm("password"), questionImage, explanationImage)
	if err != nil {
		h.failProblemWrite(c, err)
		return
	}

	if st, stErr := h.sessionStore.Get(ctx, claims.ID); stErr == nil {
		st.FinishEdit()
		h.saveState(c, claims.ID, st)
	}

	response.Success(c, http.StatusOK, gin.H{"problem": p})
}

// DeleteProblem godoc
// DELETE /api/v1/problems/:id
// Two-step delete: the first call arms a confirmation and deletes
// nothing; the second call within the same session performs the delete.
func (h *ProblemHandler) DeleteProblem(c *gin.Context) {
	claims, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	st, err := h.sessionStore.Get(ctx, claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	if !st.ArmDelete(id) {
		h.saveState(c, claims.ID, st)
		response.Success(c, http.StatusOK, gin.H{
			"deleted":              false,
			"confirmation_pending": true,
		})
		return
	}

	if err := h.problemService.Delete(ctx, claims.Identity(), id, c.Query("password")); err != nil {
		// The armed flag survives a failed attempt; cancel is explicit.
		h.saveState(c, claims.ID, st)
		h.failProblemWrite(c, err)
		return
	}

	st.FinishDelete(id)
	h.saveState(c, claims.ID, st)

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CancelDelete godoc
// POST /api/v1/problems/:id/delete/cancel
// Disarms a pending delete confirmation.
func (h *ProblemHandler) CancelDelete(c *gin.Context) {
	claims, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	st, err := h.sessionStore.Get(ctx, claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	st.CancelDelete(id)
	h.saveState(c, claims.ID, st)

	response.Success(c, http.StatusOK, gin.H{"confirmation_pending": false})
}

// CheckAnswer godoc
// POST /api/v1/problems/:id/check
// Grades a submitted answer. A correct answer appends a solve record and
// reveals the explanation; either way the outcome is remembered in the
// session state.
func (h *ProblemHandler) CheckAnswer(c *gin.Context) {
	claims, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	var req model.CheckAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	result, err := h.solveService.Check(ctx, claims.Identity(), id, req.Answer)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	if st, stErr := h.sessionStore.Get(ctx, claims.ID); stErr == nil {
		st.RecordAnswerCheck(id, result.Correct)
		h.saveState(c, claims.ID, st)
	}

	response.Success(c, http.StatusOK, result)
}

// AuthorizePassword godoc
// POST /api/v1/problems/:id/authorize
// Password-mode pre-check for edit and delete: verifies the problem or
// global admin password before the client opens the destructive flow.
func (h *ProblemHandler) AuthorizePassword(c *gin.Context) {
	_, id, ok := h.claimsAndID(c)
	if !ok {
		return
	}

	if !h.legacy.Enabled() {
		response.Fail(c, http.StatusNotImplemented, response.ErrAuthModeUnsupported)
		return
	}

	var req model.AuthorizePasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	p, err := h.problemService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	if err := h.legacy.Authorize(p, req.Password); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrWrongPassword)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"authorized": true})
}

// problemView augments the problem with the session's reveal flags. The
// explanation stays hidden until this session answered correctly.
func (h *ProblemHandler) problemView(p *model.Problem, st *session.State) gin.H {
	revealed, checked := st.ExplanationRevealed[p.ID]
	view := gin.H{
		"id":            p.ID,
		"title":         p.Title,
		"category":      p.Category,
		"chapter":       p.Chapter,
		"difficulty":    p.Difficulty,
		"question":      p.Question,
		"question_type": p.QuestionType,
		"creator_name":  p.CreatorName,
		"creator_email": p.CreatorEmail,
		"created_at":    p.CreatedAt,

		"answer_checked":       checked,
		"explanation_revealed": revealed,
		"delete_pending":       st.DeleteConfirmPending[p.ID],
	}
	if p.IsMultipleChoice() {
		view["options"] = p.Options
	}
	if p.QuestionImageRef != "" {
		view["question_image_url"] = p.QuestionImageRef
	}
	if revealed {
		view["explanation"] = p.Explanation
		if p.ExplanationImageRef != "" {
			view["explanation_image_url"] = p.ExplanationImageRef
		}
	}
	return view
}

// claimsAndID pulls the auth claims and the :id path param, failing the
// request itself when either is missing.
func (h *ProblemHandler) claimsAndID(c *gin.Context) (*service.Claims, uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return nil, uuid.Nil, false
	}
	return claims, id, true
}

func (h *ProblemHandler) saveState(c *gin.Context, sessionID string, st *session.State) {
	if err := h.sessionStore.Save(c.Request.Context(), sessionID, st); err != nil {
		h.log.Warn().Err(err).Msg("session state save failed")
	}
}

// failProblemWrite maps service-layer write errors onto the response
// envelope.
func (h *ProblemHandler) failProblemWrite(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrNotAuthorized):
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
	case errors.Is(err, service.ErrWrongPassword):
		response.Fail(c, http.StatusForbidden, response.ErrWrongPassword)
	case errors.Is(err, quiz.ErrMissingFields):
		response.Fail(c, http.StatusBadRequest, response.ErrMissingFields)
	case errors.Is(err, storage.ErrUnsupportedFileType):
		response.Fail(c, http.StatusBadRequest, response.ErrUnsupportedFile)
	case errors.Is(err, storage.ErrFileTooLarge):
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
	}
}
