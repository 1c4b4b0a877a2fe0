package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/cart"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/products"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type CartHandler struct {
	DB *gorm.DB
}

func NewCartHandler(db *gorm.DB) *CartHandler { return &CartHandler{DB: db} }

type cartLineView struct {
	ProductID      string `json:"product_id"`
	Name           string `json:"name"`
	SKU            string `json:"sku"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int    `json:"unit_price_cents"`
	LineTotalCents int    `json:"line_total_cents"`
}

func (h *CartHandler) Show(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	repo := cart.NewRepo(h.DB)

	crt, err := repo.GetOrCreateOpenCart(c.Request.Context(), u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	items, err := repo.Items(c.Request.Context(), crt.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	lines := make([]cartLineView, 0, len(items))
	subtotal := 0
	for _, it := range items {
		var p products.Product
		if err := h.DB.WithContext(c.Request.Context()).First(&p, "id = ?", it.ProductID).Error; err != nil {
			continue
		}
		line := cartLineView{
			ProductID:      p.ID,
			Name:           p.Name,
			SKU:            p.SKU,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
			LineTotalCents: p.PriceCents * it.Quantity,
		}
		subtotal += line.LineTotalCents
		lines = append(lines, line)
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_id":        crt.ID,
		"items":          lines,
		"subtotal_cents": subtotal,
	})
}

type cartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	var p products.Product
	if err := h.DB.WithContext(ctx).First(&p, "id = ?", req.ProductID).Error; err != nil || p.Status != products.StatusActive {
		middleware.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	repo := cart.NewRepo(h.DB)
	crt, err := repo.GetOrCreateOpenCart(ctx, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if err := repo.AddItem(ctx, crt.ID, req.ProductID, req.Quantity); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type cartSetRequest struct {
	Quantity int `json:"quantity" binding:"gte=0"`
}

func (h *CartHandler) SetItem(c *gin.Context) {
	var req cartSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	u, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	repo := cart.NewRepo(h.DB)
	crt, err := repo.GetOrCreateOpenCart(ctx, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if err := repo.SetItem(ctx, crt.ID, c.Param("productID"), req.Quantity); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	ctx := c.Request.Context()

	repo := cart.NewRepo(h.DB)
	crt, err := repo.GetOrCreateOpenCart(ctx, u.ID)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	if err := repo.RemoveItem(ctx, crt.ID, c.Param("productID")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
