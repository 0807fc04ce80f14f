package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/controllers"
	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// AnalyticsIntegrationTestSuite exercises the recalculation engine through
// the HTTP layer against the real store.
type AnalyticsIntegrationTestSuite struct {
	suite.Suite
	router *gin.Engine
	db     *gorm.DB
}

func (suite *AnalyticsIntegrationTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	os.Setenv("GO_ENV", "test")
	_, err := config.Load()
	suite.NoError(err)
}

func (suite *AnalyticsIntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&models.Order{},
		&models.Customer{},
		&models.DailySale{},
		&models.WeeklySale{},
		&models.Prediction{},
		&models.Report{},
		&models.Notification{},
		&models.Counter{},
	)
	suite.NoError(err)

	config.SetDB(db)

	store := services.InitStore(db)
	services.SetHub(services.NewHub())
	_, err = services.InitLedger(store, services.GetHub())
	suite.NoError(err)

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	{
		v1.POST("/orders", controllers.CreateOrder)
		v1.DELETE("/orders/:id", controllers.DeleteOrder)
		v1.GET("/analytics/daily-sales", controllers.GetDailySales)
		v1.GET("/analytics/weekly-sales", controllers.GetWeeklySales)
		v1.GET("/analytics/predictions", controllers.GetPredictions)
		v1.GET("/analytics/reports", controllers.GetReports)
		v1.GET("/analytics/export", controllers.ExportSales)
		v1.POST("/analytics/recalculate", controllers.RecalculateAnalytics)
	}
}

func (suite *AnalyticsIntegrationTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (suite *AnalyticsIntegrationTestSuite) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *AnalyticsIntegrationTestSuite) createOrder(shop, amount, status, method, createdAt string) {
	w := suite.doJSON("POST", "/api/v1/orders", gin.H{
		"shopName":      shop,
		"totalAmount":   amount,
		"status":        status,
		"paymentMethod": method,
		"createdAt":     createdAt,
	})
	suite.Equal(http.StatusCreated, w.Code)
}

// TestDerivedCollectionsArePersisted verifies the derived rows land in the
// database, not just in memory.
func (suite *AnalyticsIntegrationTestSuite) TestDerivedCollectionsArePersisted() {
	suite.createOrder("Shop A", "20.00", "Delivered", "Cash", "2024-05-06T09:00:00Z")
	suite.createOrder("Shop B", "30.00", "Pending", "Card", "2024-05-07T09:00:00Z")

	var dailyCount, weeklyCount, predictionCount, reportCount int64
	suite.db.Model(&models.DailySale{}).Count(&dailyCount)
	suite.db.Model(&models.WeeklySale{}).Count(&weeklyCount)
	suite.db.Model(&models.Prediction{}).Count(&predictionCount)
	suite.db.Model(&models.Report{}).Count(&reportCount)

	suite.Equal(int64(2), dailyCount)
	suite.Equal(int64(1), weeklyCount, "both days fall in ISO week 2024-W19")
	suite.Equal(int64(1), predictionCount)
	suite.Equal(int64(1), reportCount)
}

// TestMutationsReplaceDerivedRows verifies a delete shrinks the derived set
func (suite *AnalyticsIntegrationTestSuite) TestMutationsReplaceDerivedRows() {
	suite.createOrder("Shop A", "20.00", "Delivered", "Cash", "2024-05-06T09:00:00Z")
	suite.createOrder("Shop B", "30.00", "Pending", "Card", "2024-05-13T09:00:00Z")

	w := suite.doJSON("DELETE", "/api/v1/orders/2", nil)
	suite.Equal(http.StatusOK, w.Code)

	var dailyCount, weeklyCount int64
	suite.db.Model(&models.DailySale{}).Count(&dailyCount)
	suite.db.Model(&models.WeeklySale{}).Count(&weeklyCount)
	suite.Equal(int64(1), dailyCount)
	suite.Equal(int64(1), weeklyCount)

	var remaining models.DailySale
	suite.NoError(suite.db.First(&remaining).Error)
	suite.Equal("2024-05-06", remaining.Date)
}

// TestRecalculateIsIdempotent verifies repeated recalculation yields the same
// buckets (timestamps aside)
func (suite *AnalyticsIntegrationTestSuite) TestRecalculateIsIdempotent() {
	suite.createOrder("Shop A", "20.00", "Delivered", "Cash", "2024-05-06T09:00:00Z")
	suite.createOrder("Shop B", "30.00", "In Process", "Bank Transfer", "2024-05-06T12:00:00Z")

	first := suite.doJSON("GET", "/api/v1/analytics/daily-sales", nil)
	suite.Equal(http.StatusOK, first.Code)

	w := suite.doJSON("POST", "/api/v1/analytics/recalculate", nil)
	suite.Equal(http.StatusOK, w.Code)
	w = suite.doJSON("POST", "/api/v1/analytics/recalculate", nil)
	suite.Equal(http.StatusOK, w.Code)

	second := suite.doJSON("GET", "/api/v1/analytics/daily-sales", nil)
	suite.Equal(http.StatusOK, second.Code)
	suite.JSONEq(first.Body.String(), second.Body.String())
}

// TestExportEndpoint verifies the XLSX export streams a workbook
func (suite *AnalyticsIntegrationTestSuite) TestExportEndpoint() {
	suite.createOrder("Shop A", "20.00", "Delivered", "Cash", "2024-05-06T09:00:00Z")

	w := suite.doJSON("GET", "/api/v1/analytics/export", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal(
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"),
	)
	body := w.Body.Bytes()
	suite.True(len(body) > 2)
	suite.Equal("PK", string(body[:2]), "XLSX is a zip container")
}

func TestAnalyticsIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsIntegrationTestSuite))
}
