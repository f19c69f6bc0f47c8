package app

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thelocalstore/store-api/internal/auth"
	"github.com/thelocalstore/store-api/internal/postal"
	"github.com/thelocalstore/store-api/internal/storage"
	"github.com/thelocalstore/store-api/internal/token"
)

// Cookie names. loggedIn is readable by the frontend; the token cookies
// are HttpOnly.
const (
	cookieLoggedIn = "loggedIn"
	cookieAccess   = "accessToken"
	cookieRefresh  = "refreshToken"
)

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondFail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"status":  "fail",
		"message": message,
	})
}

// respondError maps the typed errors from the service and storage layers
// onto status codes. Anything unmapped is a 500, logged and reported.
func (a *App) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation), errors.Is(err, postal.ErrBadCode):
		respondFail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrEmailTaken),
		errors.Is(err, auth.ErrPhoneTaken),
		errors.Is(err, auth.ErrAlreadySeller),
		errors.Is(err, storage.ErrDuplicateEmail),
		errors.Is(err, storage.ErrDuplicatePhone),
		errors.Is(err, storage.ErrDuplicate):
		respondFail(c, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionInvalid):
		respondFail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, postal.ErrNotFound):
		respondFail(c, http.StatusNotFound, err.Error())
	default:
		a.logger.Error("request failed",
			"path", c.Request.URL.Path,
			"error", err,
		)
		a.sentry.CaptureException(err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "internal server error",
		})
	}
}

// setAuthCookies writes the session cookies. Expiries follow the token
// TTLs so the browser and the embedded claims age out together.
func (a *App) setAuthCookies(c *gin.Context, pair auth.TokenPair) {
	secure := a.config.Production()
	accessMaxAge := int(a.tokens.TTL(token.Access).Seconds())
	refreshMaxAge := int(a.tokens.TTL(token.Refresh).Seconds())

	c.SetCookie(cookieAccess, pair.Access, accessMaxAge, "/", "", secure, true)
	c.SetCookie(cookieRefresh, pair.Refresh, refreshMaxAge, "/", "", secure, true)
	c.SetCookie(cookieLoggedIn, "true", refreshMaxAge, "/", "", secure, false)
}

// setAccessCookie refreshes only the access-token cookie.
func (a *App) setAccessCookie(c *gin.Context, access string) {
	secure := a.config.Production()
	maxAge := int(a.tokens.TTL(token.Access).Seconds())
	c.SetCookie(cookieAccess, access, maxAge, "/", "", secure, true)
}

func (a *App) clearAuthCookies(c *gin.Context) {
	secure := a.config.Production()
	c.SetCookie(cookieAccess, "", -1, "/", "", secure, true)
	c.SetCookie(cookieRefresh, "", -1, "/", "", secure, true)
	c.SetCookie(cookieLoggedIn, "", -1, "/", "", secure, false)
}
