package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type identityResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	identity, err := h.auth.Authenticate(c, req.Email, req.Password)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authenticate")
		switch {
		case errors.Is(err, services.ErrMissingInput):
			abort(c, newBadRequestError(services.ErrMissingInput.Error()))
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			// One wording for both failure modes so login never confirms
			// whether an email is registered.
			abort(c, newUnauthorizedError(errInvalidCredentials.Error()))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	pair, err := h.auth.IssueTokens(identity.UserID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue tokens")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	now := time.Now()
	setTokenCookie(c, accessTokenCookie, pair.AccessToken, pair.AccessTokenExpiresAt.Sub(now))
	setTokenCookie(c, refreshTokenCookie, pair.RefreshToken, pair.RefreshTokenExpiresAt.Sub(now))

	c.JSON(http.StatusOK, identityResponse{ID: identity.UserID, Email: identity.Email})
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get refresh token cookie")
		abort(c, newUnauthorizedError(errMandatoryCookieNotFound.Error()))
		return
	}

	userID, err := h.auth.VerifyRefreshToken(refreshToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to verify refresh token")
		abort(c, newStatusTextError(http.StatusUnauthorized))
		return
	}

	pair, err := h.auth.IssueTokens(userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to issue tokens")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	now := time.Now()
	setTokenCookie(c, accessTokenCookie, pair.AccessToken, pair.AccessTokenExpiresAt.Sub(now))
	setTokenCookie(c, refreshTokenCookie, pair.RefreshToken, pair.RefreshTokenExpiresAt.Sub(now))

	c.Status(http.StatusOK)
}

// HandleLogout clears both token cookies. Tokens are stateless so there is
// nothing to invalidate server-side; they simply age out.
func (h *handlerImpl) HandleLogout(c *gin.Context) {
	clearTokenCookie(c, accessTokenCookie)
	clearTokenCookie(c, refreshTokenCookie)

	h.logger.Info().Msg("logged out")
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *handlerImpl) HandleSession(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	identity, err := h.auth.CurrentUser(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to load current user")
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newStatusTextError(http.StatusUnauthorized))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, identityResponse{ID: identity.UserID, Email: identity.Email})
}

func setTokenCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", false, true)
}

func clearTokenCookie(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", "", false, true)
}
