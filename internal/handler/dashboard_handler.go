package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/middleware"
	"github.com/studyinside/quizboard-backend/internal/response"
	"github.com/studyinside/quizboard-backend/internal/service"
	"github.com/studyinside/quizboard-backend/internal/session"
)

// DashboardHandler serves the admin dashboard aggregates.
type DashboardHandler struct {
	authService  *service.AuthService
	statsService *service.StatsService
	sessionStore *session.Store
	log          zerolog.Logger
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(
	authService *service.AuthService,
	statsService *service.StatsService,
	sessionStore *session.Store,
	log zerolog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		authService:  authService,
		statsService: statsService,
		sessionStore: sessionStore,
		log:          log,
	}
}

// GetDashboard godoc
// GET /api/v1/dashboard
// Returns the dashboard aggregates for admins. Non-admin sessions are
// redirected to the list page rather than shown an error.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	ctx := c.Request.Context()

	st, err := h.sessionStore.Get(ctx, claims.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	isAdmin := h.authService.IsAdmin(claims.Identity())
	st.EnterDashboard(isAdmin)
	if saveErr := h.sessionStore.Save(ctx, claims.ID, st); saveErr != nil {
		h.log.Warn().Err(saveErr).Msg("session state save failed")
	}

	if !isAdmin {
		response.Success(c, http.StatusOK, gin.H{
			"redirect": session.PageList,
			"state":    st,
		})
		return
	}

	data, err := h.statsService.Dashboard(ctx)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrBackend)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"dashboard": data,
		"state":     st,
	})
}
