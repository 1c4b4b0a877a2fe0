package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/jdevop33/hockey-pouches-sub002/internal/http/middleware"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/cart"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/commissions"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/discounts"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/fulfillment"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/inventory"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/orders"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/products"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/tasks"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/users"
	"github.com/jdevop33/hockey-pouches-sub002/internal/modules/wholesale"
)

// Creates/updates every table from the GORM models. Dev convenience; run
// once against a fresh database.
func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("POUCH_MYSQL__DSN")
	if dsn == "" {
		log.Fatal("POUCH_MYSQL__DSN environment variable is required")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(
		&users.User{},
		&middleware.Session{},
		&products.Product{},
		&products.Image{},
		&cart.Cart{},
		&cart.CartItem{},
		&orders.Order{},
		&orders.OrderItem{},
		&orders.OrderEvent{},
		&orders.SideEffectFailure{},
		&discounts.DiscountCode{},
		&commissions.Commission{},
		&tasks.Task{},
		&inventory.Level{},
		&fulfillment.Assignment{},
		&wholesale.Application{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate tables: %v", err)
	}

	log.Println("✓ all tables migrated successfully")
}
