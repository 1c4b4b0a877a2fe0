package admin

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

func (h *FulfillmentsHandler) Complete(c *gin.Context) {
	err := fulfillment.NewRepo(h.DB).Complete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, fulfillment.ErrNotAssignable):
			middleware.Fail(c, apperr.ConflictErr("Assignment is not in a completable state."))
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Assignment not found."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
