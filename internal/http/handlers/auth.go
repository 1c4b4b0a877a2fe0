package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type AuthHandler struct {
	DB         *gorm.DB
	SessionCfg middleware.SessionCfg
}

func NewAuthHandler(db *gorm.DB, sessionCfg middleware.SessionCfg) *AuthHandler {
	return &AuthHandler{DB: db, SessionCfg: sessionCfg}
}

type registerRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
	FirstName    string `json:"first_name" binding:"max=100"`
	LastName     string `json:"last_name" binding:"max=100"`
	ReferralCode string `json:"referral_code" binding:"max=16"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, err := users.NewRepo(h.DB).Register(c.Request.Context(), users.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			middleware.Fail(c, apperr.ConflictErr("Email already registered."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	sess, err := middleware.CreateSession(h.SessionCfg, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.setSessionCookie(c, sess.ID)

	c.JSON(http.StatusCreated, gin.H{
		"id":            u.ID,
		"email":         u.Email,
		"referral_code": u.ReferralCode,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, err := users.NewRepo(h.DB).Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			middleware.Fail(c, apperr.UnauthorizedErr("Invalid email or password."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	sess, err := middleware.CreateSession(h.SessionCfg, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	h.setSessionCookie(c, sess.ID)

	c.JSON(http.StatusOK, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"role":  u.Role,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if v, ok := c.Get("session"); ok {
		if sess, ok := v.(*middleware.Session); ok {
			if err := middleware.DeleteSession(h.SessionCfg, sess.ID); err != nil {
				middleware.Fail(c, apperr.Wrap(err))
				return
			}
		}
	}
	c.SetCookie(h.SessionCfg.CookieName, "", -1, "/", "", h.SessionCfg.Secure, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sessionID string) {
	c.SetCookie(h.SessionCfg.CookieName, sessionID,
		int(h.SessionCfg.TTL.Seconds()), "/", "", h.SessionCfg.Secure, true)
}
