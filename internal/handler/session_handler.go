package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/middleware"
	"github.com/studyinside/quizboard-backend/internal/repository"
	"github.com/studyinside/quizboard-backend/internal/response"
	"github.com/studyinside/quizboard-backend/internal/service"
	"github.com/studyinside/quizboard-backend/internal/session"
	"github.com/studyinside/quizboard-backend/internal/validator"
)

// SessionHandler exposes the per-session page state machine.
type SessionHandler struct {
	authService    *service.AuthService
	problemService *service.ProblemService
	sessionStore   *session.Store
	log            zerolog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(
	authService *service.AuthService,
	problemService *service.ProblemService,
	sessionStore *session.Store,
	log zerolog.Logger,
) *SessionHandler {
	return &SessionHandler{
		authService:    authService,
		problemService: problemService,
		sessionStore:   sessionStore,
		log:            log,
	}
}

// navigateRequest names the target page plus the problem the move refers
// to, when the page needs one.
type navigateRequest struct {
	Page      session.Page `json:"page" binding:"required,oneof=list detail create edit dashboard"`
	ProblemID uuid.UUID    `json:"problem_id"`
}

// GetState godoc
// GET /api/v1/session
// Returns the session's current page state.
func (h *SessionHandler) GetState(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	st, err := h.sessionStore.Get(c.Request.Context(), claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": st})
}

// Navigate godoc
// POST /api/v1/session/navigate
// Moves the session to another page. Illegal moves leave the state as is
// and report the conflict; the dashboard silently falls back to the list
// for non-admins.
func (h *SessionHandler) Navigate(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	ctx := c.Request.Context()

	var req navigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	st, err := h.sessionStore.Get(ctx, claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	switch req.Page {
	case session.PageList:
		st.BackToList()

	case session.PageDetail:
		if req.ProblemID == uuid.Nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		if _, err := h.problemService.Get(ctx, req.ProblemID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				st.BackToList()
				h.save(c, claims.ID, st)
				response.Fail(c, http.StatusNotFound, response.ErrNotFound)
				return
			}
			response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
			return
		}
		st.EnterDetail(req.ProblemID)

	case session.PageCreate:
		if err := st.EnterCreate(); err != nil {
			response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
			return
		}

	case session.PageEdit:
		if err := h.enterEdit(c, claims, st, req.ProblemID); err != nil {
			return // enterEdit already wrote the response
		}

	case session.PageDashboard:
		st.EnterDashboard(h.authService.IsAdmin(claims.Identity()))
	}

	h.save(c, claims.ID, st)
	response.Success(c, http.StatusOK, gin.H{"state": st})
}

// enterEdit authorizes the caller against the problem before moving to
// the edit page. On failure it writes the error response and reports it.
func (h *SessionHandler) enterEdit(c *gin.Context, claims *service.Claims, st *session.State, problemID uuid.UUID) error {
	if problemID == uuid.Nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return errors.New("missing problem id")
	}

	p, err := h.problemService.Get(c.Request.Context(), problemID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		} else {
			response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		}
		return err
	}

	if err := h.problemService.Authorize(claims.Identity(), p, ""); err != nil {
		response.Fail(c, http.StatusForbidden, response.ErrNotOwner)
		return err
	}

	if err := st.EnterEdit(problemID); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrInvalidTransition)
		return err
	}
	return nil
}

func (h *SessionHandler) save(c *gin.Context, sessionID string, st *session.State) {
	if err := h.sessionStore.Save(c.Request.Context(), sessionID, st); err != nil {
		h.log.Warn().Err(err).Msg("session state save failed")
	}
}
