package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/services"
)

// OptimizeRouteRequest represents the request body for route planning
type OptimizeRouteRequest struct {
	Date string `json:"date" binding:"required"`
}

func validDate(c *gin.Context, date string) bool {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_DATE",
				"message": "Date must be YYYY-MM-DD",
			},
		})
		return false
	}
	return true
}

// OptimizeRoute handles POST /api/v1/routes/optimize - plans a
// nearest-neighbor route over the date's undelivered orders
func OptimizeRoute(c *gin.Context) {
	var req OptimizeRouteRequest
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
	if !validDate(c, req.Date) {
		return
	}

	cfg := config.GetConfig()
	route := services.PlanRoute(
		services.GetLedger().Orders(),
		req.Date,
		services.GetGeocoder(),
		cfg.DepotName,
		cfg.DepotLat,
		cfg.DepotLng,
	)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": route})
}

// RouteSheet handles GET /api/v1/routes/sheet?date=YYYY-MM-DD - renders the
// PDF route sheet. With ?upload=true the sheet is published (S3 presigned
// URL or local archive path) and the location returned instead of the bytes.
func RouteSheet(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if !validDate(c, date) {
		return
	}

	cfg := config.GetConfig()
	route := services.PlanRoute(
		services.GetLedger().Orders(),
		date,
		services.GetGeocoder(),
		cfg.DepotName,
		cfg.DepotLat,
		cfg.DepotLng,
	)

	sheets := services.GetSheetService()
	content, err := sheets.RenderSheet(route)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SHEET_ERROR",
				"message": "Failed to render route sheet",
			},
		})
		return
	}

	if c.Query("upload") == "true" {
		location, err := sheets.PublishSheet(date, content)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "SHEET_PUBLISH_ERROR",
					"message": "Failed to publish route sheet",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    gin.H{"date": date, "url": location},
		})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=route-"+date+".pdf")
	c.Data(http.StatusOK, "application/pdf", content)
}
