package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/wholesale"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type WholesaleHandler struct {
	Svc *wholesale.Service
}

func NewWholesaleHandler(svc *wholesale.Service) *WholesaleHandler {
	return &WholesaleHandler{Svc: svc}
}

type wholesaleApplyRequest struct {
	CompanyName    string `json:"company_name" binding:"required,max=255"`
	BusinessNumber string `json:"business_number" binding:"required,max=64"`
	ContactPhone   string `json:"contact_phone" binding:"max=32"`
	Message        string `json:"message" binding:"max=2000"`
}

func (h *WholesaleHandler) Apply(c *gin.Context) {
	var req wholesaleApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)

	app, err := h.Svc.Apply(c.Request.Context(), wholesale.ApplyInput{
		UserID:         u.ID,
		CompanyName:    req.CompanyName,
		BusinessNumber: req.BusinessNumber,
		ContactPhone:   req.ContactPhone,
		Message:        req.Message,
	})
	if err != nil {
		if errors.Is(err, wholesale.ErrOpenApplication) {
			middleware.Fail(c, apperr.ConflictErr("You already have a pending application."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":     app.ID,
		"status": app.Status,
	})
}
