package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalpost/pedalpost-api/services"
)

// AdvancedPredictionsRequest represents the request body for the on-demand
// least-squares forecaster. The series is externally supplied (for example a
// month of daily revenue figures exported from the dashboard).
type AdvancedPredictionsRequest struct {
	Series  []float64 `json:"series" binding:"required"`
	Periods int       `json:"periods"`
}

func storeReadError(c *gin.Context, what string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": fmt.Sprintf("Failed to load %s", what),
		},
	})
}

// GetDailySales handles GET /api/v1/analytics/daily-sales
func GetDailySales(c *gin.Context) {
	sales, err := services.GetStore().GetDailySales()
	if err != nil {
		storeReadError(c, "daily sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sales})
}

// GetWeeklySales handles GET /api/v1/analytics/weekly-sales
func GetWeeklySales(c *gin.Context) {
	sales, err := services.GetStore().GetWeeklySales()
	if err != nil {
		storeReadError(c, "weekly sales")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": sales})
}

// GetPredictions handles GET /api/v1/analytics/predictions
func GetPredictions(c *gin.Context) {
	predictions, err := services.GetStore().GetPredictions()
	if err != nil {
		storeReadError(c, "predictions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": predictions})
}

// GetReports handles GET /api/v1/analytics/reports
func GetReports(c *gin.Context) {
	reports, err := services.GetStore().GetReports()
	if err != nil {
		storeReadError(c, "reports")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": reports})
}

// RecalculateAnalytics handles POST /api/v1/analytics/recalculate - explicit
// full recomputation of every derived collection from the current ledger
func RecalculateAnalytics(c *gin.Context) {
	result := services.GetLedger().Recalculate()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// RecomputeDailySale handles POST /api/v1/analytics/daily-sales/:date/recompute.
// The single bucket is recomputed and upserted; a date with no orders removes
// the stored bucket and returns null data.
func RecomputeDailySale(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DATE",
				"message": "Date must be YYYY-MM-DD",
			},
		})
		return
	}

	orders := services.GetLedger().Orders()
	sale, ok := services.RecalculateDay(orders, date)
	if !ok {
		if err := services.GetStore().DeleteDailySale(date); err != nil {
			storeReadError(c, "daily sales")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": nil})
		return
	}

	if err := services.GetStore().UpsertDailySale(sale); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to store daily sale",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": sale})
}

// AdvancedPredictions handles POST /api/v1/analytics/predictions/advanced
func AdvancedPredictions(c *gin.Context) {
	var req AdvancedPredictionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}
	if req.Periods == 0 {
		req.Periods = 7
	}

	points, err := services.AdvancedForecast(req.Series, req.Periods)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

// ExportSales handles GET /api/v1/analytics/export - streams an XLSX
// workbook with the daily and weekly sale buckets
func ExportSales(c *gin.Context) {
	daily, err := services.GetStore().GetDailySales()
	if err != nil {
		storeReadError(c, "daily sales")
		return
	}
	weekly, err := services.GetStore().GetWeeklySales()
	if err != nil {
		storeReadError(c, "weekly sales")
		return
	}

	workbook, err := services.BuildSalesWorkbook(daily, weekly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "EXPORT_ERROR",
				"message": "Failed to build sales workbook",
			},
		})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=sales-export.xlsx")
	if err := workbook.Write(c.Writer); err != nil {
		c.Status(http.StatusInternalServerError)
	}
}
