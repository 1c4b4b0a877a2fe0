package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/idempotency"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/checkout"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type CheckoutHandler struct {
	Svc    *checkout.Service
	Idemp  *idempotency.Store // optional
	Logger *slog.Logger
}

func NewCheckoutHandler(svc *checkout.Service, idemp *idempotency.Store, l *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{Svc: svc, Idemp: idemp, Logger: l}
}

type checkoutRequest struct {
	PaymentMethod  string `json:"payment_method" binding:"required,oneof=etransfer card btc"`
	IdempotencyKey string `json:"idempotency_key" binding:"max=64"`
}

func (h *CheckoutHandler) Create(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	idem := strings.TrimSpace(req.IdempotencyKey)
	if h.Idemp != nil && idem != "" {
		scoped := u.ID + ":" + idem
		fresh, err := h.Idemp.TryLock(ctx, "checkout", scoped)
		if err != nil {
			h.Logger.Warn("idempotency store unavailable, proceeding", "err", err)
		} else if !fresh {
			if orderID, ok, err := h.Idemp.Recall(ctx, "checkout", scoped); err == nil && ok {
				c.JSON(http.StatusOK, gin.H{"order_id": orderID, "replayed": true})
				return
			}
			middleware.Fail(c, apperr.ConflictErr("Checkout with this key is already in progress."))
			return
		}
	}

	res, err := h.Svc.CreateFromCart(ctx, checkout.CreateFromCartInput{
		UserID:        u.ID,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		var oos *checkout.OutOfStockError
		switch {
		case errors.Is(err, orders.ErrCartEmpty):
			middleware.Fail(c, apperr.InvalidErr("Your cart is empty.", nil))
		case errors.Is(err, orders.ErrProductUnavailable):
			middleware.Fail(c, apperr.ConflictErr("A product in your cart is no longer available."))
		case errors.As(err, &oos):
			fields := make(map[string]string, len(oos.Items))
			for _, it := range oos.Items {
				fields[it.ProductID] = "insufficient stock"
			}
			middleware.Fail(c, apperr.InvalidErr("Some items are out of stock.", fields))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	if h.Idemp != nil && idem != "" {
		if err := h.Idemp.Remember(ctx, "checkout", u.ID+":"+idem, res.OrderID); err != nil {
			h.Logger.Warn("remembering checkout result failed", "order_id", res.OrderID, "err", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id":    res.OrderID,
		"status":      res.Status,
		"total_cents": res.TotalCents,
	})
}
