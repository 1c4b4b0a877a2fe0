package checkout

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/cart"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/pricing"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/products"
)

type Service struct {
	db            *gorm.DB
	shippingCents int
	taxRate       float64
	currency      string
}

func NewService(db *gorm.DB, shippingCents int, taxRate float64, currency string) *Service {
	return &Service{db: db, shippingCents: shippingCents, taxRate: taxRate, currency: currency}
}

type CreateFromCartInput struct {
	UserID        string
	PaymentMethod string
}

type CreateFromCartResult struct {
	OrderID    string
	Status     string
	TotalCents int
}

// CreateFromCart prices the user's open cart, deducts stock and creates the
// order in one transaction. The cart is closed on success.
func (s *Service) CreateFromCart(ctx context.Context, in CreateFromCartInput) (CreateFromCartResult, error) {
	cartRepo := cart.NewRepo(s.db)

	crt, err := cartRepo.GetOrCreateOpenCart(ctx, in.UserID)
	if err != nil {
		return CreateFromCartResult{}, err
	}
	items, err := cartRepo.Items(ctx, crt.ID)
	if err != nil {
		return CreateFromCartResult{}, err
	}
	if len(items) == 0 {
		return CreateFromCartResult{}, orders.ErrCartEmpty
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	sort.Strings(ids)

	var prods []products.Product
	if err := s.db.WithContext(ctx).Find(&prods, "id IN ?", ids).Error; err != nil {
		return CreateFromCartResult{}, err
	}
	prodByID := make(map[string]products.Product, len(prods))
	for _, p := range prods {
		prodByID[p.ID] = p
	}

	lines := make([]pricing.Line, 0, len(items))
	stock := make([]StockLine, 0, len(items))
	for _, it := range items {
		p, ok := prodByID[it.ProductID]
		if !ok || p.Status != products.StatusActive {
			return CreateFromCartResult{}, orders.ErrProductUnavailable
		}
		lines = append(lines, pricing.Line{
			ProductID:      p.ID,
			Quantity:       it.Quantity,
			UnitPriceCents: p.PriceCents,
		})
		stock = append(stock, StockLine{ProductID: p.ID, Qty: it.Quantity})
	}

	quote := pricing.Compute(lines, s.shippingCents, s.taxRate)

	now := time.Now()
	order := orders.Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		Currency:      s.currency,
		SubtotalCents: quote.SubtotalCents,
		ShippingCents: quote.ShippingCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
		Status:        orders.StatusPendingPayment,
		PaymentStatus: orders.PaymentUnpaid,
		PaymentMethod: in.PaymentMethod,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = WithTxRetry(ctx, s.db, 3, func(tx *gorm.DB) error {
		if err := DeductStockInTx(ctx, tx, inventory.DefaultLocation, stock); err != nil {
			return err
		}

		if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
			return err
		}

		for _, it := range items {
			p := prodByID[it.ProductID]
			oi := orders.OrderItem{
				ID:             uuid.NewString(),
				OrderID:        order.ID,
				ProductID:      p.ID,
				ProductName:    p.Name,
				SKU:            p.SKU,
				Quantity:       it.Quantity,
				UnitPriceCents: p.PriceCents,
				LineTotalCents: p.PriceCents * it.Quantity,
				Currency:       s.currency,
				CreatedAt:      now,
			}
			if err := tx.WithContext(ctx).Create(&oi).Error; err != nil {
				return err
			}
		}

		ev := orders.OrderEvent{
			ID:          uuid.NewString(),
			OrderID:     order.ID,
			ActorUserID: in.UserID,
			Action:      "checkout",
			FromStatus:  "",
			ToStatus:    order.Status,
			CreatedAt:   now,
		}
		if err := tx.WithContext(ctx).Create(&ev).Error; err != nil {
			return err
		}

		return cart.NewRepo(s.db).CloseInTx(ctx, tx, crt.ID)
	})
	if err != nil {
		return CreateFromCartResult{}, err
	}

	log.Printf("order created: id=%s user=%s total_cents=%d", order.ID, in.UserID, order.TotalCents)
	return CreateFromCartResult{OrderID: order.ID, Status: order.Status, TotalCents: order.TotalCents}, nil
}
