package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type InventoryHandler struct {
	DB *gorm.DB
}

func NewInventoryHandler(db *gorm.DB) *InventoryHandler { return &InventoryHandler{DB: db} }

func (h *InventoryHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	items, total, err := inventory.NewRepo(h.DB).List(c.Request.Context(), page, limit)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	out := make([]gin.H, 0, len(items))
	for _, lv := range items {
		out = append(out, gin.H{
			"product_id": lv.ProductID,
			"location":   lv.Location,
			"quantity":   lv.Quantity,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       out,
		"total":       total,
		"page":        page,
		"total_pages": pagesFromTotal(total, limit),
	})
}

type adjustRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Location  string `json:"location" binding:"max=100"`
	Delta     int    `json:"delta" binding:"required"`
}

func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	location := req.Location
	if location == "" {
		location = inventory.DefaultLocation
	}

	repo := inventory.NewRepo(h.DB)
	if err := repo.Adjust(c.Request.Context(), req.ProductID, location, req.Delta); err != nil {
		if errors.Is(err, inventory.ErrInsufficientStock) {
			middleware.Fail(c, apperr.ConflictErr("Adjustment would drive stock negative."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	lv, err := repo.Get(c.Request.Context(), req.ProductID, location)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": req.ProductID,
		"location":   location,
		"quantity":   lv.Quantity,
	})
}
