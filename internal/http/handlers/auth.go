package handlers

import (
	"net/http"
	"time"

	"horizontravels/internal/domain"
	"horizontravels/internal/domain/models"
	"horizontravels/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var in models.RegisterInput
	if !BindJSONOrError(c, &in) {
		return
	}
	u, err := h.auth(c).Register(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var in models.LoginInput
	if !BindJSONOrError(c, &in) {
		return
	}
	token, exp, u, err := h.auth(c).Login(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.setSessionCookie(c, token, exp)
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"expires_at": exp,
		"user":       u,
	})
}

// POST /api/auth/logout
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.SessionToken(c, h.Session.CookieName)
	if err := h.auth(c).Logout(c.Request.Context(), token); err != nil {
		RespondDomainError(c, err)
		return
	}
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// GET /api/auth/me
func (h *Handler) Me(c *gin.Context) {
	rc, ok := caller(c)
	if !ok {
		RespondDomainError(c, domain.UnauthorizedError{Msg: "login required"})
		return
	}
	u, err := h.users(c).Get(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) setSessionCookie(c *gin.Context, token string, exp time.Time) {
	if h.Session.CookieName == "" {
		return
	}
	maxAge := int(exp.Sub(h.Now.Now()).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Session.CookieName, token, maxAge, "/", "", h.Session.Secure, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	if h.Session.CookieName == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.Session.CookieName, "", -1, "/", "", h.Session.Secure, true)
}
