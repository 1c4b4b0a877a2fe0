package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/fulfillment"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type FulfillmentsHandler struct {
	DB *gorm.DB
}

func NewFulfillmentsHandler(db *gorm.DB) *FulfillmentsHandler {
	return &FulfillmentsHandler{DB: db}
}

// Accept lets the assigned distributor take the job.
func (h *FulfillmentsHandler) Accept(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	err := fulfillment.NewRepo(h.DB).Accept(c.Request.Context(), c.Param("id"), u.ID)
	if err != nil {
		if errors.Is(err, fulfillment.ErrNotAssignable) {
			middleware.Fail(c, apperr.ConflictErr("Assignment is not available to accept."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
