package app

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thelocalstore/store-api/internal/auth"
	"github.com/thelocalstore/store-api/internal/middleware"
)

type registerRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

func (a *App) HandleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "name, email, phoneNumber and password are required")
		return
	}

	user, err := a.auth.Register(c.Request.Context(), auth.Profile{
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Password:    req.Password,
	})
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, gin.H{"user": user})
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (a *App) HandlePromoteToSeller(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := a.auth.PromoteToSeller(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"user": user})
}

func (a *App) HandleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "email and password are required")
		return
	}

	user, pair, err := a.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		a.respondError(c, err)
		return
	}

	a.setAuthCookies(c, pair)
	respondData(c, http.StatusOK, gin.H{"user": user})
}

// HandleRefresh trades the refresh-token cookie for a fresh access
// token. Any session failure clears the cookies so the client falls
// back to login cleanly.
func (a *App) HandleRefresh(c *gin.Context) {
	refresh, err := c.Cookie(cookieRefresh)
	if err != nil {
		a.clearAuthCookies(c)
		respondFail(c, http.StatusBadRequest, "refresh token missing")
		return
	}

	access, err := a.auth.RefreshAccess(c.Request.Context(), refresh)
	if err != nil {
		a.clearAuthCookies(c)
		a.respondError(c, err)
		return
	}

	a.setAccessCookie(c, access)
	respondData(c, http.StatusOK, gin.H{"refreshed": true})
}

func (a *App) HandleLogout(c *gin.Context) {
	refresh, err := c.Cookie(cookieRefresh)
	if err != nil {
		a.clearAuthCookies(c)
		respondFail(c, http.StatusBadRequest, "refresh token missing")
		return
	}

	// Best effort: an expired token still logs the client out.
	_ = a.auth.Logout(c.Request.Context(), refresh)

	a.clearAuthCookies(c)
	respondData(c, http.StatusOK, gin.H{"loggedOut": true})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

func (a *App) HandleForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "email is required")
		return
	}

	if err := a.auth.ForgotPassword(c.Request.Context(), req.Email, a.config.ResetURIBase); err != nil {
		a.respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{"mailSent": true})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

func (a *App) HandleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondFail(c, http.StatusBadRequest, "password is required")
		return
	}

	if err := a.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		a.respondError(c, err)
		return
	}

	a.clearAuthCookies(c)
	respondData(c, http.StatusOK, gin.H{"passwordReset": true})
}

// HandleDeleteMe removes the account and everything it owns, then ends
// the session.
func (a *App) HandleDeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := a.auth.DeleteAccount(c.Request.Context(), user.ID); err != nil {
		a.respondError(c, err)
		return
	}

	a.clearAuthCookies(c)
	respondData(c, http.StatusOK, gin.H{"deleted": true})
}
