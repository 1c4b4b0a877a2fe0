package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/config"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/handlers"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/handlers/admin"
	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/idempotency"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/checkout"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/commissions"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/discounts"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/wholesale"
	"github.com/jdevop33/hockey-pouches-sub002/internal/storage"
)

// NewRouter wires middleware, services and handlers into the gin engine.
func NewRouter(l *slog.Logger, db *gorm.DB, cfg config.Config, idemp *idempotency.Store, store storage.Storage) *gin.Engine {
	r := gin.New()

	sessionCfg := middleware.SessionCfg{
		DB:         db,
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.Secure,
		TTL:        cfg.Session.TTL,
	}

	// Order matters: ErrorHandler must wrap Recovery so recovered panics
	// still produce a JSON error, and Metrics wraps both to see the final
	// status.
	r.Use(
		middleware.RequestID(),
		middleware.Logger(l),
		middleware.Metrics(),
		middleware.ErrorHandler(l),
		middleware.Recovery(l),
		middleware.SessionMiddleware(sessionCfg),
	)

	commissionSvc := commissions.NewService(db)
	adminOrderSvc := orders.NewAdminService(db, commissionSvc)
	checkoutSvc := checkout.NewService(db, cfg.Checkout.ShippingCents, cfg.Checkout.TaxRate, cfg.Checkout.Currency)
	discountSvc := discounts.NewService(db)
	wholesaleSvc := wholesale.NewService(db)

	authH := handlers.NewAuthHandler(db, sessionCfg)
	productsH := handlers.NewProductsHandler(db)
	cartH := handlers.NewCartHandler(db)
	checkoutH := handlers.NewCheckoutHandler(checkoutSvc, idemp, l)
	ordersH := handlers.NewOrdersHandler(db)
	discountsH := handlers.NewDiscountsHandler(discountSvc)
	commissionsH := handlers.NewCommissionsHandler(commissionSvc)
	wholesaleH := handlers.NewWholesaleHandler(wholesaleSvc)
	fulfillH := handlers.NewFulfillmentsHandler(db)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.Storage.Driver == "local" {
		r.Static(cfg.Storage.LocalURLBase, cfg.Storage.LocalDir)
	}

	r.POST("/register", authH.Register)
	r.POST("/login", authH.Login)
	r.POST("/logout", authH.Logout)

	r.GET("/products", productsH.List)
	r.GET("/products/:slug", productsH.Detail)

	authed := r.Group("/", middleware.RequireAuth())
	{
		authed.GET("/cart", cartH.Show)
		authed.POST("/cart/items", cartH.AddItem)
		authed.PUT("/cart/items/:productID", cartH.SetItem)
		authed.DELETE("/cart/items/:productID", cartH.RemoveItem)

		authed.POST("/checkout", checkoutH.Create)
		authed.POST("/discount/apply", discountsH.Apply)

		authed.GET("/orders", ordersH.List)
		authed.GET("/orders/:id", ordersH.Detail)

		authed.GET("/commissions", commissionsH.List)
		authed.POST("/wholesale/apply", wholesaleH.Apply)
	}

	distributor := r.Group("/", middleware.RequireRole(users.RoleDistributor))
	{
		distributor.POST("/fulfillments/:id/accept", fulfillH.Accept)
	}

	adminOrdersH := admin.NewOrdersHandler(db, adminOrderSvc, commissionSvc)
	adminCodesH := admin.NewDiscountCodesHandler(db)
	adminProductsH := admin.NewProductsHandler(db, store)
	adminTasksH := admin.NewTasksHandler(db)
	adminInventoryH := admin.NewInventoryHandler(db)
	adminCommissionsH := admin.NewCommissionsHandler(commissionSvc)
	adminWholesaleH := admin.NewWholesaleHandler(wholesaleSvc)
	adminFulfillH := admin.NewFulfillmentsHandler(db)
	adminFailuresH := admin.NewFailuresHandler(db)

	ag := r.Group("/admin", middleware.RequireAdmin())
	{
		ag.GET("/orders", adminOrdersH.List)
		ag.GET("/orders/:id", adminOrdersH.Detail)
		ag.PUT("/orders/:id/status", adminOrdersH.UpdateStatus)
		ag.POST("/orders/:id/calculate-commission", adminOrdersH.CalculateCommission)
		ag.POST("/orders/:id/assign-distributor", adminOrdersH.AssignDistributor)
		ag.POST("/fulfillments/:id/complete", adminFulfillH.Complete)

		ag.GET("/discount-codes", adminCodesH.List)
		ag.POST("/discount-codes", adminCodesH.Create)
		ag.PUT("/discount-codes/:id", adminCodesH.Update)
		ag.DELETE("/discount-codes/:id", adminCodesH.Delete)

		ag.GET("/products", adminProductsH.List)
		ag.POST("/products", adminProductsH.Create)
		ag.PUT("/products/:id", adminProductsH.Update)
		ag.DELETE("/products/:id", adminProductsH.Delete)
		ag.POST("/products/:id/images", adminProductsH.UploadImage)
		ag.DELETE("/products/:id/images/:imageID", adminProductsH.DeleteImage)

		ag.GET("/tasks", adminTasksH.List)
		ag.POST("/tasks", adminTasksH.Create)
		ag.PUT("/tasks/:id", adminTasksH.Update)

		ag.GET("/inventory", adminInventoryH.List)
		ag.POST("/inventory/adjust", adminInventoryH.Adjust)

		ag.GET("/commissions", adminCommissionsH.List)
		ag.POST("/commissions/:id/pay", adminCommissionsH.Pay)

		ag.GET("/wholesale/applications", adminWholesaleH.List)
		ag.POST("/wholesale/applications/:id/review", adminWholesaleH.Review)

		ag.GET("/side-effect-failures", adminFailuresH.List)
		ag.POST("/side-effect-failures/:id/resolve", adminFailuresH.Resolve)
	}

	return r
}
