package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pedalpost/pedalpost-api/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
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
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return &Store{db: db}
}

func TestReplaceOrdersRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	created := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)

	orders := []models.Order{
		{ID: 1, ShopName: "A", TotalAmount: "10", Status: models.StatusPending, CreatedAt: &created},
		{ID: 2, ShopName: "B", TotalAmount: "20", Status: models.StatusDelivered, CreatedAt: &created},
	}
	assert.NoError(t, store.ReplaceOrders(orders))

	loaded, err := store.GetOrders()
	assert.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "A", loaded[0].ShopName)

	// Replacing again fully discards the previous contents.
	assert.NoError(t, store.ReplaceOrders(orders[:1]))
	loaded, err = store.GetOrders()
	assert.NoError(t, err)
	assert.Len(t, loaded, 1)

	// Replacing with nothing empties the collection.
	assert.NoError(t, store.ReplaceOrders(nil))
	loaded, err = store.GetOrders()
	assert.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestReplaceDerivedCollections(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.ReplaceDailySales([]models.DailySale{{Date: "2024-03-05", ID: 20240305, TotalRevenue: 30}}))
	assert.NoError(t, store.ReplaceWeeklySales([]models.WeeklySale{{Week: "2024-W10", ID: 10, TotalRevenue: 30}}))
	assert.NoError(t, store.ReplacePredictions([]models.Prediction{{ID: 1, PredictedValue: 33, Confidence: 85}}))
	assert.NoError(t, store.ReplaceReports([]models.Report{{ID: 1, Week: "2024-W10", TopShop: "A"}}))

	daily, err := store.GetDailySales()
	assert.NoError(t, err)
	assert.Len(t, daily, 1)
	assert.Equal(t, 20240305, daily[0].ID)

	weekly, err := store.GetWeeklySales()
	assert.NoError(t, err)
	assert.Equal(t, "2024-W10", weekly[0].Week)

	predictions, err := store.GetPredictions()
	assert.NoError(t, err)
	assert.Equal(t, 33.0, predictions[0].PredictedValue)

	reports, err := store.GetReports()
	assert.NoError(t, err)
	assert.Equal(t, "A", reports[0].TopShop)
}

func TestUpsertAndDeleteDailySale(t *testing.T) {
	store := setupTestStore(t)

	assert.NoError(t, store.UpsertDailySale(models.DailySale{Date: "2024-03-05", ID: 20240305, TotalRevenue: 10}))
	assert.NoError(t, store.UpsertDailySale(models.DailySale{Date: "2024-03-05", ID: 20240305, TotalRevenue: 25}))

	daily, err := store.GetDailySales()
	assert.NoError(t, err)
	assert.Len(t, daily, 1)
	assert.Equal(t, 25.0, daily[0].TotalRevenue)

	assert.NoError(t, store.DeleteDailySale("2024-03-05"))
	daily, err = store.GetDailySales()
	assert.NoError(t, err)
	assert.Empty(t, daily)
}

func TestSyntheticNotificationsLeaveUserRowsAlone(t *testing.T) {
	store := setupTestStore(t)

	user := models.Notification{Type: models.NotificationInfo, Message: "van in the shop Friday", Timestamp: time.Now().UTC()}
	assert.NoError(t, store.AppendNotification(&user))
	assert.NotZero(t, user.ID)

	synthetic := []models.Notification{{Type: models.NotificationOrderUpdate, Message: "Order #7 delivered successfully", Timestamp: time.Now().UTC()}}
	assert.NoError(t, store.ReplaceSyntheticNotifications(synthetic))

	all, err := store.GetNotifications()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	// Synthetic entry first, then user notifications.
	assert.True(t, all[0].Synthetic)
	assert.Equal(t, "Order #7 delivered successfully", all[0].Message)
	assert.False(t, all[1].Synthetic)
	assert.Equal(t, "van in the shop Friday", all[1].Message)

	// A second recalculation replaces the synthetic entry, not the user one.
	assert.NoError(t, store.ReplaceSyntheticNotifications([]models.Notification{
		{Type: models.NotificationOrderUpdate, Message: "Order #8 delivered successfully", Timestamp: time.Now().UTC()},
	}))
	all, err = store.GetNotifications()
	assert.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "Order #8 delivered successfully", all[0].Message)
	assert.Equal(t, "van in the shop Friday", all[1].Message)

	// And an empty recalculation clears only the synthetic entry.
	assert.NoError(t, store.ReplaceSyntheticNotifications(nil))
	all, err = store.GetNotifications()
	assert.NoError(t, err)
	assert.Len(t, all, 1)
	assert.False(t, all[0].Synthetic)
}

func TestNextCounter(t *testing.T) {
	store := setupTestStore(t)

	first, err := store.NextCounter("notifications")
	assert.NoError(t, err)
	second, err := store.NextCounter("notifications")
	assert.NoError(t, err)
	assert.Equal(t, first+1, second)

	other, err := store.NextCounter("something-else")
	assert.NoError(t, err)
	assert.Equal(t, uint(1), other)
}
