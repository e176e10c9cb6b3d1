package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/studyinside/quizboard-backend/internal/config"
	"github.com/studyinside/quizboard-backend/internal/middleware"
	"github.com/studyinside/quizboard-backend/internal/response"
	"github.com/studyinside/quizboard-backend/internal/service"
	"github.com/studyinside/quizboard-backend/internal/session"
)

// oauthStateCookie carries the CSRF state between login and callback.
const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 600 // seconds
)

// AuthHandler handles login, logout and profile endpoints.
type AuthHandler struct {
	cfg          *config.Config
	authService  *service.AuthService
	google       *service.GoogleAuthService
	sessionStore *session.Store
	log          zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	cfg *config.Config,
	authService *service.AuthService,
	google *service.GoogleAuthService,
	sessionStore *session.Store,
	log zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		cfg:          cfg,
		authService:  authService,
		google:       google,
		sessionStore: sessionStore,
		log:          log,
	}
}

// GoogleLogin godoc
// GET /api/v1/auth/google/login
// Redirects the browser to Google's consent screen. The state nonce is
// pinned in a short-lived cookie for the callback check.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.cfg.AuthMode != config.AuthModeGoogle {
		response.Fail(c, http.StatusNotImplemented, response.ErrAuthModeUnsupported)
		return
	}

	state := uuid.New().String()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, h.google.BeginLogin(state))
}

// GoogleCallback godoc
// GET /api/v1/auth/google/callback
// Completes the OAuth code exchange, mints a session token and sends the
// browser back to the frontend with the token in the URL fragment.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.cfg.AuthMode != config.AuthModeGoogle {
		response.Fail(c, http.StatusNotImplemented, response.ErrAuthModeUnsupported)
		return
	}

	state := c.Query("state")
	cookieState, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != cookieState {
		response.Fail(c, http.StatusUnauthorized, response.ErrLoginFailed)
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)

	code := c.Query("code")
	if code == "" {
		response.Fail(c, http.StatusUnauthorized, response.ErrLoginFailed)
		return
	}

	identity, err := h.google.CompleteLogin(c.Request.Context(), code)
	if err != nil {
		h.log.Warn().Err(err).Msg("Google login failed")
		response.Fail(c, http.StatusUnauthorized, response.ErrLoginFailed)
		return
	}

	token, err := h.authService.GenerateToken(identity)
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	// Fragment, not query: the token must not reach server logs or the
	// Referer header.
	c.Redirect(http.StatusFound, h.cfg.FrontendURL+"#token="+url.QueryEscape(token))
}

// Logout godoc
// POST /api/v1/auth/logout
// Drops the session's page state. The JWT itself expires on its own.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.sessionStore.Clear(c.Request.Context(), claims.ID); err != nil {
		h.log.Warn().Err(err).Msg("session state clear failed on logout")
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/v1/auth/me
// Returns the identity of the current session and its admin standing.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	identity := claims.Identity()
	response.Success(c, http.StatusOK, gin.H{
		"user":     identity,
		"is_admin": h.authService.IsAdmin(identity),
	})
}
