package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/controllers"
	"github.com/pedalpost/pedalpost-api/middleware"
	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

func main() {
	log.Println("Starting PedalPost API server...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.ApplyLogLevel(cfg.LogLevel)

	// Connect to database (postgres, or the sqlite file fallback)
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
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
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Wire the collaborators: storage, realtime hub, geocoder, sheet
	// publishing, then the ledger on top of them.
	store := services.InitStore(db)
	hub := services.InitHub()
	services.InitGeocoder(cfg.GeocoderURL)

	var s3Service services.S3Interface
	if cfg.AWSS3Bucket != "" {
		s3Service, err = services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3: %v", err)
		}
	}
	services.InitSheetService(s3Service, cfg.SheetDir)

	ledger, err := services.InitLedger(store, hub)
	if err != nil {
		log.Fatalf("Failed to load ledger: %v", err)
	}
	// Derived collections follow the ledger, so bring them up to date with
	// whatever state the store was left in.
	ledger.Recalculate()

	router := setupRouter(cfg)

	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the full route table. Mutating routes are guarded by
// the Auth0 JWT middleware whenever AUTH0_DOMAIN is configured; without it
// the API runs open (local development parity).
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	guard := func(c *gin.Context) { c.Next() }
	if cfg.Auth0Domain != "" {
		guard = middleware.EnsureValidToken(cfg)
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/database/status", databaseStatus)
		v1.GET("/ws", controllers.ServeWS)

		v1.GET("/orders", controllers.ListOrders)
		v1.GET("/orders/:id", controllers.GetOrder)
		v1.POST("/orders", guard, controllers.CreateOrder)
		v1.PATCH("/orders/:id", guard, controllers.UpdateOrder)
		v1.DELETE("/orders/:id", guard, controllers.DeleteOrder)

		v1.GET("/customers", controllers.ListCustomers)
		v1.GET("/customers/:id", controllers.GetCustomer)
		v1.POST("/customers", guard, controllers.CreateCustomer)
		v1.PATCH("/customers/:id", guard, controllers.UpdateCustomer)
		v1.DELETE("/customers/:id", guard, controllers.DeleteCustomer)

		analytics := v1.Group("/analytics")
		{
			analytics.GET("/daily-sales", controllers.GetDailySales)
			analytics.GET("/weekly-sales", controllers.GetWeeklySales)
			analytics.GET("/predictions", controllers.GetPredictions)
			analytics.GET("/reports", controllers.GetReports)
			analytics.GET("/export", controllers.ExportSales)
			analytics.POST("/recalculate", guard, controllers.RecalculateAnalytics)
			analytics.POST("/daily-sales/:date/recompute", guard, controllers.RecomputeDailySale)
			analytics.POST("/predictions/advanced", controllers.AdvancedPredictions)
		}

		v1.GET("/notifications", controllers.ListNotifications)
		v1.POST("/notifications", guard, controllers.CreateNotification)

		v1.POST("/routes/optimize", controllers.OptimizeRoute)
		v1.GET("/routes/sheet", controllers.RouteSheet)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "PedalPost API is running",
	})
}

// databaseStatus checks database connectivity
func databaseStatus(c *gin.Context) {
	db := config.GetDB()

	sqlDB, err := db.DB()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to get database instance",
			},
		})
		return
	}

	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_CONNECTION_ERROR",
				"message": "Database connection failed",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Database connected",
	})
}
