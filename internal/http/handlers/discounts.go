package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/discounts"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type DiscountsHandler struct {
	Svc *discounts.Service
}

func NewDiscountsHandler(svc *discounts.Service) *DiscountsHandler {
	return &DiscountsHandler{Svc: svc}
}

type applyDiscountRequest struct {
	Code    string `json:"code" binding:"required,max=64"`
	OrderID string `json:"order_id" binding:"required"`
}

func (h *DiscountsHandler) Apply(c *gin.Context) {
	var req applyDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)

	res, err := h.Svc.Apply(c.Request.Context(), discounts.ApplyInput{
		UserID:  u.ID,
		OrderID: req.OrderID,
		Code:    strings.ToUpper(strings.TrimSpace(req.Code)),
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		case errors.Is(err, discounts.ErrCodeNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Discount code not found."))
		case errors.Is(err, discounts.ErrAlreadyApplied):
			middleware.Fail(c, apperr.ConflictErr("A discount has already been applied to this order."))
		case errors.Is(err, discounts.ErrCodeExhausted):
			middleware.Fail(c, apperr.ConflictErr("This code has reached its usage limit."))
		default:
			// Remaining rejections are plain validation failures.
			for _, known := range []error{
				discounts.ErrCodeInactive, discounts.ErrCodeNotStarted, discounts.ErrCodeExpired,
				discounts.ErrOrderNotEligible, discounts.ErrMinOrderNotMet, discounts.ErrZeroDiscount,
			} {
				if errors.Is(err, known) {
					middleware.Fail(c, apperr.InvalidErr(known.Error(), nil))
					return
				}
			}
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"code":           res.Code,
		"discount_cents": res.DiscountCents,
		"total_cents":    res.NewTotalCents,
		"message":        "Discount applied.",
	})
}
