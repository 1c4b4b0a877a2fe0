package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/products"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/dberr"
	"github.com/jdevop33/hockey-pouches-sub002/internal/storage"
)

type ProductsHandler struct {
	DB      *gorm.DB
	Storage storage.Storage
}

func NewProductsHandler(db *gorm.DB, st storage.Storage) *ProductsHandler {
	return &ProductsHandler{DB: db, Storage: st}
}

func (h *ProductsHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	res, err := products.NewRepo(h.DB).List(c.Request.Context(), products.ListParams{
		Page:     page,
		PageSize: limit,
		Status:   c.Query("status"), // empty = all, for the back office
		Q:        c.Query("q"),
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, p := range res.Items {
		items = append(items, gin.H{
			"id":          p.ID,
			"name":        p.Name,
			"slug":        p.Slug,
			"sku":         p.SKU,
			"flavor":      p.Flavor,
			"strength_mg": p.StrengthMG,
			"price_cents": p.PriceCents,
			"status":      p.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

type productRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Slug        string `json:"slug" binding:"required,max=255"`
	SKU         string `json:"sku" binding:"required,max=64"`
	Description string `json:"description"`
	Flavor      string `json:"flavor" binding:"max=64"`
	StrengthMG  int    `json:"strength_mg" binding:"gte=0"`
	PriceCents  int    `json:"price_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"max=3"`
	Status      string `json:"status" binding:"omitempty,oneof=active archived"`
}

func (h *ProductsHandler) Create(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	p, err := products.NewRepo(h.DB).Create(c.Request.Context(), products.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		SKU:         req.SKU,
		Description: req.Description,
		Flavor:      req.Flavor,
		StrengthMG:  req.StrengthMG,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Status:      req.Status,
	})
	if err != nil {
		if dberr.IsDuplicateKey(err) {
			middleware.Fail(c, apperr.ConflictErr("Slug or SKU already in use."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": p.ID, "slug": p.Slug})
}

func (h *ProductsHandler) Update(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	err := products.NewRepo(h.DB).Update(c.Request.Context(), c.Param("id"), products.CreateInput{
		Name:        req.Name,
		Slug:        req.Slug,
		SKU:         req.SKU,
		Description: req.Description,
		Flavor:      req.Flavor,
		StrengthMG:  req.StrengthMG,
		PriceCents:  req.PriceCents,
		Currency:    req.Currency,
		Status:      req.Status,
	})
	if err != nil {
		if dberr.IsDuplicateKey(err) {
			middleware.Fail(c, apperr.ConflictErr("Slug or SKU already in use."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *ProductsHandler) Delete(c *gin.Context) {
	if err := products.NewRepo(h.DB).Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// UploadImage accepts a multipart "image" file and stores it via the
// configured storage backend.
func (h *ProductsHandler) UploadImage(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("id")

	repo := products.NewRepo(h.DB)
	if _, err := repo.Get(ctx, productID); err != nil {
		middleware.Fail(c, apperr.NotFoundErr("Product not found."))
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		middleware.Fail(c, apperr.InvalidErr("An image file is required.", map[string]string{"image": "This field is required."}))
		return
	}

	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	put, err := h.Storage.Put(ctx, f, storage.PutInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
	})
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	position := parseInt(c.PostForm("position"), 1)
	im, err := repo.AddImage(ctx, productID, put.Key, put.URL, position)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": im.ID, "url": im.URL})
}

func (h *ProductsHandler) DeleteImage(c *gin.Context) {
	ctx := c.Request.Context()
	repo := products.NewRepo(h.DB)

	im, err := repo.GetImage(ctx, c.Param("id"), c.Param("imageID"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			middleware.Fail(c, apperr.NotFoundErr("Image not found."))
			return
		}
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	if err := repo.DeleteImage(ctx, im.ProductID, im.ID); err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	// Blob removal is best-effort; the DB row is authoritative.
	_ = h.Storage.Delete(ctx, im.StorageKey)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
