package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

// initTestApp wires the full service stack against an in-memory database and
// returns the real production router, with no auth domain configured so the
// guard passes requests through.
func initTestApp(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

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
	config.SetDB(db)

	cfg := &config.Config{
		GoEnv:     "test",
		Port:      "8080",
		DepotName: "Test Depot",
		SheetDir:  t.TempDir(),
	}
	config.SetConfig(cfg)

	store := services.InitStore(db)
	services.SetHub(services.NewHub())
	if _, err := services.InitLedger(store, services.GetHub()); err != nil {
		t.Fatalf("Failed to initialize ledger: %v", err)
	}
	services.NewMockGeocoder().SetAsMockForTesting()
	services.InitSheetService(nil, cfg.SheetDir)

	return setupRouter(cfg)
}

func request(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// TestHealthEndpointIntegration tests the /api/v1/health endpoint with full routing
func TestHealthEndpointIntegration(t *testing.T) {
	router := initTestApp(t)

	w := request(router, "GET", "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, w.Code, "Expected status 200 OK")

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err, "Response should be valid JSON")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "PedalPost API is running", response["message"])
}

// TestOrderToAnalyticsIntegration drives an order through the real router and
// verifies the derived collections follow it.
func TestOrderToAnalyticsIntegration(t *testing.T) {
	router := initTestApp(t)

	w := request(router, "POST", "/api/v1/orders", map[string]interface{}{
		"shopName":      "Harbourside Deli",
		"totalAmount":   "42.50",
		"status":        "Pending",
		"paymentMethod": "Cash",
		"createdAt":     "2024-05-06T09:30:00Z",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	order := created["data"].(map[string]interface{})
	assert.Equal(t, "B-1", order["basketNumber"])
	assert.Equal(t, "D-1", order["deliveryNumber"])

	w = request(router, "GET", "/api/v1/analytics/daily-sales", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var daily map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &daily))
	buckets := daily["data"].([]interface{})
	assert.Len(t, buckets, 1)
	bucket := buckets[0].(map[string]interface{})
	assert.Equal(t, "2024-05-06", bucket["date"])
	assert.Equal(t, 42.5, bucket["totalRevenue"])
	assert.Equal(t, float64(1), bucket["pendingOrders"])

	// The same ledger state lands in the weekly view under the ISO week key.
	w = request(router, "GET", "/api/v1/analytics/weekly-sales", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var weekly map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &weekly))
	weeks := weekly["data"].([]interface{})
	assert.Len(t, weeks, 1)
	assert.Equal(t, "2024-W19", weeks[0].(map[string]interface{})["week"])
}

// TestMetricsEndpointIntegration verifies the Prometheus endpoint is mounted
func TestMetricsEndpointIntegration(t *testing.T) {
	router := initTestApp(t)

	w := request(router, "GET", "/metrics", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
