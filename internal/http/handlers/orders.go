package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type OrdersHandler struct {
	DB *gorm.DB
}

func NewOrdersHandler(db *gorm.DB) *OrdersHandler { return &OrdersHandler{DB: db} }

type orderListItem struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	TotalCents int    `json:"total_cents"`
	Currency   string `json:"currency"`
	CreatedAt  string `json:"created_at"`
}

func (h *OrdersHandler) List(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 20)

	res, err := orders.NewRepo(h.DB).ListByUser(c.Request.Context(), orders.ListByUserParams{
		UserID:   u.ID,
		Page:     page,
		PageSize: limit,
		Status:   c.Query("status"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]orderListItem, 0, len(res.Items))
	for _, o := range res.Items {
		items = append(items, orderListItem{
			ID:         o.ID,
			Status:     o.Status,
			TotalCents: o.TotalCents,
			Currency:   o.Currency,
			CreatedAt:  o.CreatedAt.Format(time.RFC3339),
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
	u, _ := middleware.CurrentUser(c)

	o, items, err := orders.NewRepo(h.DB).GetWithItems(c.Request.Context(), c.Param("id"))
	if err != nil || o.UserID != u.ID {
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

	resp := gin.H{
		"id":             o.ID,
		"status":         o.Status,
		"payment_status": o.PaymentStatus,
		"currency":       o.Currency,
		"subtotal_cents": o.SubtotalCents,
		"shipping_cents": o.ShippingCents,
		"tax_cents":      o.TaxCents,
		"discount_cents": o.DiscountCents,
		"total_cents":    o.TotalCents,
		"items":          lines,
		"created_at":     o.CreatedAt.Format(time.RFC3339),
	}
	if o.DiscountCode != nil {
		resp["discount_code"] = *o.DiscountCode
	}

	c.JSON(http.StatusOK, resp)
}
