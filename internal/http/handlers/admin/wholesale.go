package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

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

func (h *WholesaleHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	res, err := h.Svc.List(c.Request.Context(), wholesale.ListParams{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, app := range res.Items {
		item := gin.H{
			"id":              app.ID,
			"user_id":         app.UserID,
			"company_name":    app.CompanyName,
			"business_number": app.BusinessNumber,
			"status":          app.Status,
			"created_at":      app.CreatedAt.Format(time.RFC3339),
		}
		if app.ReviewNote != nil {
			item["review_note"] = *app.ReviewNote
		}
		items = append(items, item)
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

type reviewRequest struct {
	Decision string `json:"decision" binding:"required,oneof=approved rejected"`
	Note     string `json:"note" binding:"max=512"`
}

func (h *WholesaleHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)

	err := h.Svc.Review(c.Request.Context(), c.Param("id"), u.ID, req.Decision, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Application not found."))
		case errors.Is(err, wholesale.ErrNotReviewable):
			middleware.Fail(c, apperr.ConflictErr("Application is not pending review."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "decision": req.Decision})
}
