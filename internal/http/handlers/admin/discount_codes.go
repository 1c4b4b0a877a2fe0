package admin

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/validation"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/discounts"
	"github.com/jdevop33/hockey-pouches-sub002/internal/shared/apperr"
)

type DiscountCodesHandler struct {
	DB *gorm.DB
}

func NewDiscountCodesHandler(db *gorm.DB) *DiscountCodesHandler {
	return &DiscountCodesHandler{DB: db}
}

func codeToJSON(dc discounts.DiscountCode) gin.H {
	out := gin.H{
		"id":               dc.ID,
		"code":             dc.Code,
		"kind":             dc.Kind,
		"percent_off":      dc.PercentOff,
		"amount_off_cents": dc.AmountOffCents,
		"min_order_cents":  dc.MinOrderCents,
		"starts_at":        dc.StartsAt.Format(time.RFC3339),
		"times_used":       dc.TimesUsed,
		"active":           dc.Active,
	}
	if dc.MaxDiscountCents != nil {
		out["max_discount_cents"] = *dc.MaxDiscountCents
	}
	if dc.EndsAt != nil {
		out["ends_at"] = dc.EndsAt.Format(time.RFC3339)
	}
	if dc.UsageLimit != nil {
		out["usage_limit"] = *dc.UsageLimit
	}
	return out
}

func (h *DiscountCodesHandler) List(c *gin.Context) {
	page := parseInt(c.Query("page"), 1)
	limit := parseInt(c.Query("limit"), 30)

	res, err := discounts.NewRepo(h.DB).List(c.Request.Context(), page, limit)
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}

	items := make([]gin.H, 0, len(res.Items))
	for _, dc := range res.Items {
		items = append(items, codeToJSON(dc))
	}

	c.JSON(http.StatusOK, gin.H{
		"items":       items,
		"total":       res.Total,
		"page":        page,
		"total_pages": pagesFromTotal(res.Total, limit),
	})
}

type codeRequest struct {
	Code             string     `json:"code" binding:"required,max=64"`
	Kind             string     `json:"kind" binding:"required,oneof=percentage fixed_amount"`
	PercentOff       float64    `json:"percent_off"`
	AmountOffCents   int        `json:"amount_off_cents"`
	MinOrderCents    int        `json:"min_order_cents" binding:"gte=0"`
	MaxDiscountCents *int       `json:"max_discount_cents"`
	StartsAt         *time.Time `json:"starts_at"`
	EndsAt           *time.Time `json:"ends_at"`
	UsageLimit       *int       `json:"usage_limit"`
	Active           bool       `json:"active"`
}

func (req codeRequest) toInput() discounts.CodeInput {
	in := discounts.CodeInput{
		Code:             req.Code,
		Kind:             req.Kind,
		PercentOff:       req.PercentOff,
		AmountOffCents:   req.AmountOffCents,
		MinOrderCents:    req.MinOrderCents,
		MaxDiscountCents: req.MaxDiscountCents,
		EndsAt:           req.EndsAt,
		UsageLimit:       req.UsageLimit,
		Active:           req.Active,
	}
	if req.StartsAt != nil {
		in.StartsAt = *req.StartsAt
	}
	return in
}

func failCodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, discounts.ErrDuplicateCode):
		middleware.Fail(c, apperr.ConflictErr("Discount code already exists."))
	case errors.Is(err, gorm.ErrRecordNotFound):
		middleware.Fail(c, apperr.NotFoundErr("Discount code not found."))
	case errors.Is(err, discounts.ErrInvalidKind),
		errors.Is(err, discounts.ErrInvalidValue),
		errors.Is(err, discounts.ErrPercentTooHigh),
		errors.Is(err, discounts.ErrInvalidWindow):
		middleware.Fail(c, apperr.InvalidErr(err.Error(), nil))
	default:
		middleware.Fail(c, apperr.Wrap(err))
	}
}

func (h *DiscountCodesHandler) Create(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	dc, err := discounts.NewRepo(h.DB).Create(c.Request.Context(), req.toInput())
	if err != nil {
		failCodeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, codeToJSON(dc))
}

func (h *DiscountCodesHandler) Update(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fields := validation.FromBindError(err, &req)
		middleware.Fail(c, apperr.InvalidErr("Check the highlighted fields.", fields))
		return
	}

	if err := discounts.NewRepo(h.DB).Update(c.Request.Context(), c.Param("id"), req.toInput()); err != nil {
		failCodeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *DiscountCodesHandler) Delete(c *gin.Context) {
	if err := discounts.NewRepo(h.DB).Delete(c.Request.Context(), c.Param("id")); err != nil {
		failCodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
