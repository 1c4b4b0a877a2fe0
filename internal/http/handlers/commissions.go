package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/commissions"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type CommissionsHandler struct {
	Svc *commissions.Service
}

func NewCommissionsHandler(svc *commissions.Service) *CommissionsHandler {
	return &CommissionsHandler{Svc: svc}
}

// List serves the caller's own commissions.
func (h *CommissionsHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 20)

	res, err := h.Svc.List(c.Request.Context(), commissions.ListParams{
		UserID:   u.ID,
		Status:   c.Query("status"),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, cm := range res.Items {
		item := gin.H{
			"id":           cm.ID,
			"kind":         cm.Kind,
			"amount_cents": cm.AmountCents,
			"status":       cm.Status,
			"related_type": cm.RelatedType,
			"related_id":   cm.RelatedID,
			"rate_percent": cm.RatePercent,
			"created_at":   cm.CreatedAt.Format(time.RFC3339),
		}
		if cm.PaidAt != nil {
			item["paid_at"] = cm.PaidAt.Format(time.RFC3339)
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
