package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	ShopName      string     `json:"shopName" binding:"required"`
	CustomerName  string     `json:"customerName"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Postcode      string     `json:"postcode"`
	TotalAmount   string     `json:"totalAmount"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"paymentMethod"`
	CreatedAt     *time.Time `json:"createdAt"` // optional; defaults to now
}

// parseID parses the :id path parameter.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "ID must be a positive integer",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// ledgerErrorResponse maps a ledger error to the HTTP envelope.
func ledgerErrorResponse(c *gin.Context, err error) {
	var lerr *services.LedgerError
	if errors.As(err, &lerr) {
		status := http.StatusBadRequest
		switch lerr.Code {
		case "ORDER_NOT_FOUND", "CUSTOMER_NOT_FOUND":
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    lerr.Code,
				"message": lerr.Message,
			},
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "INTERNAL_ERROR",
			"message": "Unexpected error",
		},
	})
}

// ListOrders handles GET /api/v1/orders - lists orders in ledger order with
// optional ?page=&limit= pagination
func ListOrders(c *gin.Context) {
	orders := services.GetLedger().Orders()
	total := len(orders)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if page < 1 {
		page = 1
	}
	if limit > 0 {
		start := (page - 1) * limit
		if start > total {
			start = total
		}
		end := start + limit
		if end > total {
			end = total
		}
		orders = orders[start:end]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"meta": gin.H{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id
func GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	order, err := services.GetLedger().FindOrder(id)
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// CreateOrder handles POST /api/v1/orders - creates an order, recalculates
// analytics and broadcasts before responding
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
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

	order, err := services.GetLedger().CreateOrder(models.Order{
		ShopName:      req.ShopName,
		CustomerName:  req.CustomerName,
		Phone:         req.Phone,
		Address:       req.Address,
		Postcode:      req.Postcode,
		TotalAmount:   req.TotalAmount,
		Status:        req.Status,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     req.CreatedAt,
	})
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PATCH /api/v1/orders/:id - applies a typed partial
// update; only the Pending/In Process -> Delivered transition stamps the
// delivery timestamp and notes
func UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var patch models.OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
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

	order, err := services.GetLedger().UpdateOrder(id, patch)
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func DeleteOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := services.GetLedger().DeleteOrder(id); err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"orderId": id, "deleted": true},
	})
}
