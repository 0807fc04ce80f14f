// seed-demo loads a small set of demo customers and orders into the store
// and runs one recalculation, so a fresh install has something to show on
// the dashboard.
//
// Usage (from the repository root):
//
//	DATA_PATH=data/pedalpost.db go run ./cmd/seed-demo
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

func main() {
	if _, err := config.Load(); err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.Order{},
		&models.Customer{},
		&models.DailySale{},
		&models.WeeklySale{},
		&models.Prediction{},
		&models.Report{},
		&models.Notification{},
		&models.Counter{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	store := services.InitStore(db)
	ledger, err := services.InitLedger(store, nil)
	if err != nil {
		log.Fatalf("failed to load ledger: %v", err)
	}
	if len(ledger.Orders()) > 0 {
		log.Fatal("refusing to seed: the store already contains orders")
	}

	customers := []models.Customer{
		{ShopName: "Harbourside Deli", ContactName: "Priya Shah", Phone: "0117 946 0001", Address: "12 Welsh Back", Postcode: "BS1 4SB"},
		{ShopName: "Stokes Croft Coffee", ContactName: "Dan Mercer", Phone: "0117 946 0002", Address: "101 Stokes Croft", Postcode: "BS1 3RW"},
		{ShopName: "Clifton Flowers", ContactName: "Ana Costa", Phone: "0117 946 0003", Address: "5 The Mall", Postcode: "BS8 4DP"},
	}
	for _, c := range customers {
		if _, err := ledger.CreateCustomer(c); err != nil {
			log.Fatalf("failed to seed customer %s: %v", c.ShopName, err)
		}
	}

	now := time.Now().UTC()
	day := func(daysAgo int, hour int) *time.Time {
		t := now.AddDate(0, 0, -daysAgo)
		t = time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, time.UTC)
		return &t
	}

	orders := []models.Order{
		{ShopName: "Harbourside Deli", CustomerName: "Priya Shah", Address: "12 Welsh Back", Postcode: "BS1 4SB", TotalAmount: "42.50", Status: models.StatusDelivered, PaymentMethod: models.PaymentCash, CreatedAt: day(2, 9)},
		{ShopName: "Stokes Croft Coffee", CustomerName: "Dan Mercer", Address: "101 Stokes Croft", Postcode: "BS1 3RW", TotalAmount: "18.00", Status: models.StatusDelivered, PaymentMethod: models.PaymentCard, CreatedAt: day(2, 11)},
		{ShopName: "Clifton Flowers", CustomerName: "Ana Costa", Address: "5 The Mall", Postcode: "BS8 4DP", TotalAmount: "65.00", Status: models.StatusDelivered, PaymentMethod: models.PaymentBankTransfer, CreatedAt: day(1, 10)},
		{ShopName: "Harbourside Deli", CustomerName: "Priya Shah", Address: "12 Welsh Back", Postcode: "BS1 4SB", TotalAmount: "31.25", Status: models.StatusInProcess, PaymentMethod: models.PaymentBalance, CreatedAt: day(0, 8)},
		{ShopName: "Stokes Croft Coffee", CustomerName: "Dan Mercer", Address: "101 Stokes Croft", Postcode: "BS1 3RW", TotalAmount: "22.75", Status: models.StatusPending, CreatedAt: day(0, 9)},
	}
	for _, o := range orders {
		if _, err := ledger.CreateOrder(o); err != nil {
			log.Fatalf("failed to seed order for %s: %v", o.ShopName, err)
		}
	}

	fmt.Printf("seeded %d customers and %d orders\n", len(customers), len(orders))
}
