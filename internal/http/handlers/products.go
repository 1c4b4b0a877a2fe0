package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/products"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type ProductsHandler struct {
	DB *gorm.DB
}

func NewProductsHandler(db *gorm.DB) *ProductsHandler { return &ProductsHandler{DB: db} }

type productView struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Slug       string   `json:"slug"`
	SKU        string   `json:"sku"`
	Flavor     string   `json:"flavor"`
	StrengthMG int      `json:"strength_mg"`
	PriceCents int      `json:"price_cents"`
	Currency   string   `json:"currency"`
	Images     []string `json:"images"`
}

func productToView(p products.Product) productView {
	urls := make([]string, 0, len(p.Images))
	for _, im := range p.Images {
		urls = append(urls, im.URL)
	}
	return productView{
		ID:         p.ID,
		Name:       p.Name,
		Slug:       p.Slug,
		SKU:        p.SKU,
		Flavor:     p.Flavor,
		StrengthMG: p.StrengthMG,
		PriceCents: p.PriceCents,
		Currency:   p.Currency,
		Images:     urls,
	}
}

// List serves the public catalog: active products only.
func (h *ProductsHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 20)

	res, err := products.NewRepo(h.DB).List(c.Request.Context(), products.ListParams{
		Page:     page,
		PageSize: limit,
		Status:   products.StatusActive,
		Q:        strings.TrimSpace(c.Query("q")),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]productView, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, productToView(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

func (h *ProductsHandler) Detail(c *gin.Context) {
	p, err := products.NewRepo(h.DB).GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil || p.Status != products.StatusActive {
		middleware.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	view := productToView(p)
	c.JSON(http.StatusOK, gin.H{
		"product":     view,
		"description": p.Description,
	})
}
