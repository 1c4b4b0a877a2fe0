package admin

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/commissions"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/fulfillment"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type OrdersHandler struct {
	DB            *gorm.DB
	AdminSvc      *orders.AdminService
	CommissionSvc *commissions.Service
}

func NewOrdersHandler(db *gorm.DB, adminSvc *orders.AdminService, commissionSvc *commissions.Service) *OrdersHandler {
	return &OrdersHandler{DB: db, AdminSvc: adminSvc, CommissionSvc: commissionSvc}
}

func (h *OrdersHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	res, err := orders.NewRepo(h.DB).AdminList(c.Request.Context(), orders.AdminListParams{
		Q:        strings.TrimSpace(c.Query("q")),
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     page,
		PageSize: limit,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, gin.H{
			"id":             o.ID,
			"user_id":        o.UserID,
			"status":         o.Status,
			"payment_status": o.PaymentStatus,
			"total_cents":    o.TotalCents,
			"currency":       o.Currency,
			"created_at":     o.CreatedAt.Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

func (h *OrdersHandler) Detail(c *gin.Context) {
	o, items, events, err := orders.NewRepo(h.DB).AdminGetDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		return
	}

	lines := make([]gin.H, 0, len(items))
	for _, it := range items {
		lines = append(lines, gin.H{
			"product_id":       it.ProductID,
			"product_name":     it.ProductName,
			"sku":              it.SKU,
			"quantity":         it.Quantity,
			"unit_price_cents": it.UnitPriceCents,
			"line_total_cents": it.LineTotalCents,
		})
	}

	audit := make([]gin.H, 0, len(events))
	for _, ev := range events {
		e := gin.H{
			"action":      ev.Action,
			"from_status": ev.FromStatus,
			"to_status":   ev.ToStatus,
			"actor":       ev.ActorUserID,
			"created_at":  ev.CreatedAt.Format(time.RFC3339),
		}
		if ev.Note != nil {
			e["note"] = *ev.Note
		}
		audit = append(audit, e)
	}

	c.JSON(http.StatusOK, gin.H{
		"id":             o.ID,
		"user_id":        o.UserID,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"payment_method": o.PaymentMethod,
		"currency":       o.Currency,
		"subtotal_cents": o.SubtotalCents,
		"shipping_cents": o.ShippingCents,
		"tax_cents":      o.TaxCents,
		"discount_cents": o.DiscountCents,
		"total_cents":    o.TotalCents,
		"items":          lines,
		"events":         audit,
		"created_at":     o.CreatedAt.Format(time.RFC3339),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"required,max=512"`
}

func (h *OrdersHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)

	err := h.AdminSvc.Transition(c.Request.Context(), orders.TransitionInput{
		OrderID:     c.Param("id"),
		ActorUserID: u.ID,
		Status:      req.Status,
		Reason:      req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		case errors.Is(err, orders.ErrUnknownStatus):
			middleware.Fail(c, apperr.InvalidErr("Unknown order status.", nil))
		case errors.Is(err, orders.ErrReasonRequired):
			middleware.Fail(c, apperr.InvalidErr("A reason is required.", map[string]string{"reason": "This field is required."}))
		case errors.Is(err, orders.ErrInvalidTransition):
			middleware.Fail(c, apperr.ConflictErr("Status transition not allowed."))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "status": req.Status})
}

// CalculateCommission runs commission accrual for an order on demand and
// reports what happened on each path.
func (h *OrdersHandler) CalculateCommission(c *gin.Context) {
	results, err := h.CommissionSvc.CalculateForOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			middleware.Fail(c, apperr.NotFoundErr("Order not found."))
		case errors.Is(err, commissions.ErrOrderNotEligible):
			middleware.Fail(c, apperr.InvalidErr("Order status does not qualify for commission.", nil))
		default:
			middleware.Fail(c, apperr.Wrap(err))
		}
		return
	}

	out := make([]gin.H, 0, len(results))
	for _, r := range results {
		item := gin.H{
			"kind":         r.Kind,
			"amount_cents": r.AmountCents,
			"existing":     r.Existing,
			"skipped":      r.Skipped,
		}
		if r.CommissionID != "" {
			item["commission_id"] = r.CommissionID
		}
		if r.Reason != "" {
			item["reason"] = r.Reason
		}
		out = append(out, item)
	}

	c.JSON(http.StatusOK, gin.H{"results": out})
}

type assignDistributorRequest struct {
	DistributorID string `json:"distributor_id" binding:"required"`
}

func (h *OrdersHandler) AssignDistributor(c *gin.Context) {
	var req assignDistributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	a, err := fulfillment.NewRepo(h.DB).Assign(c.Request.Context(), c.Param("id"), req.DistributorID)
	if err != nil {
		if errors.Is(err, fulfillment.ErrAlreadyAssigned) {
			middleware.Fail(c, apperr.ConflictErr("Order already has a fulfillment assignment."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             a.ID,
		"order_id":       a.OrderID,
		"distributor_id": a.DistributorID,
		"status":         a.Status,
	})
}
