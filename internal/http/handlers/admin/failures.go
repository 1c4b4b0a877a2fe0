package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

// FailuresHandler serves the reconciliation queue of side effects that
// failed after a committed status transition.
type FailuresHandler struct {
	DB *gorm.DB
}

func NewFailuresHandler(db *gorm.DB) *FailuresHandler { return &FailuresHandler{DB: db} }

func (h *FailuresHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	var resolved *bool
	switch c.Query("resolved") {
	case "true":
		v := true
		resolved = &v
	case "false":
		v := false
		resolved = &v
	}

	items, total, err := orders.NewRepo(h.DB).ListSideEffectFailures(c.Request.Context(), orders.FailureListParams{
		Page:     page,
		PageSize: limit,
		Resolved: resolved,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, f := range items {
		out = append(out, gin.H{
			"id":         f.ID,
			"order_id":   f.OrderID,
			"effect":     f.Effect,
			"detail":     f.Detail,
			"error":      f.Error,
			"resolved":   f.Resolved,
			"created_at": f.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       out,
		"total":       total,
		"page":        page,
		"total_pages": pagesFromTotal(total, limit),
	})
}

func (h *FailuresHandler) Resolve(c *gin.Context) {
	err := orders.NewRepo(h.DB).ResolveSideEffectFailure(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Failure record not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
