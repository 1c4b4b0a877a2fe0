package products

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repo struct{ db *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

type ListParams struct {
	Page     int
	PageSize int
	Status   string // optional; empty = active only for the public catalog
	Q        string
}

type ListResult struct {
	Items []Product
	Total int64
}

func (r *Repo) List(ctx context.Context, in ListParams) (ListResult, error) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	size := in.PageSize
	if size < 1 || size > 100 {
		size = 20
	}

	base := r.db.WithContext(ctx).Model(&Product{})
	if status := strings.TrimSpace(in.Status); status != "" {
		base = base.Where("status = ?", status)
	}
	if q := strings.TrimSpace(in.Q); q != "" {
		like := "%" + q + "%"
		base = base.Where("(name LIKE ? OR flavor LIKE ? OR sku LIKE ?)", like, like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return ListResult{}, err
	}

	var items []Product
	if err := base.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&items).Error; err != nil {
		return ListResult{}, err
	}
	return ListResult{Items: items, Total: total}, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, "id = ?", id).Error
	return p, err
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&p, "slug = ?", slug).Error
	return p, err
}

type CreateInput struct {
	Name        string
	Slug        string
	SKU         string
	Description string
	Flavor      string
	StrengthMG  int
	PriceCents  int
	Currency    string
	Status      string
}

func (r *Repo) Create(ctx context.Context, in CreateInput) (Product, error) {
	now := time.Now()
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Slug:        in.Slug,
		SKU:         in.SKU,
		Description: in.Description,
		Flavor:      in.Flavor,
		StrengthMG:  in.StrengthMG,
		PriceCents:  in.PriceCents,
		Currency:    in.Currency,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Currency == "" {
		p.Currency = "CAD"
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return Product{}, err
	}
	return p, nil
}

func (r *Repo) Update(ctx context.Context, id string, in CreateInput) error {
	return r.db.WithContext(ctx).Model(&Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        in.Name,
			"slug":        in.Slug,
			"sku":         in.SKU,
			"description": in.Description,
			"flavor":      in.Flavor,
			"strength_mg": in.StrengthMG,
			"price_cents": in.PriceCents,
			"currency":    in.Currency,
			"status":      in.Status,
			"updated_at":  time.Now(),
		}).Error
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&Product{}, "id = ?", id).Error
}

func (r *Repo) AddImage(ctx context.Context, productID, storageKey, url string, position int) (Image, error) {
	im := Image{
		ID:         uuid.NewString(),
		ProductID:  productID,
		StorageKey: storageKey,
		URL:        url,
		Position:   position,
		CreatedAt:  time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&im).Error; err != nil {
		return Image{}, err
	}
	return im, nil
}

func (r *Repo) GetImage(ctx context.Context, productID, imageID string) (Image, error) {
	var im Image
	err := r.db.WithContext(ctx).First(&im, "id = ? AND product_id = ?", imageID, productID).Error
	return im, err
}

func (r *Repo) DeleteImage(ctx context.Context, productID, imageID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&Image{}).Error
}
