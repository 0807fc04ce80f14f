package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pedalpost/pedalpost-api/models"
	"github.com/pedalpost/pedalpost-api/services"
)

// CustomerRequest represents the request body for creating or updating a customer
type CustomerRequest struct {
	ShopName    string `json:"shopName" binding:"required"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	Notes       string `json:"notes"`
}

func (r CustomerRequest) toModel() models.Customer {
	return models.Customer{
		ShopName:    r.ShopName,
		ContactName: r.ContactName,
		Phone:       r.Phone,
		Email:       r.Email,
		Address:     r.Address,
		Postcode:    r.Postcode,
		Notes:       r.Notes,
	}
}

// ListCustomers handles GET /api/v1/customers
func ListCustomers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    services.GetLedger().Customers(),
	})
}

// GetCustomer handles GET /api/v1/customers/:id
func GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	customer, err := services.GetLedger().FindCustomer(id)
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// CreateCustomer handles POST /api/v1/customers. Customer mutations persist
// and broadcast a data-update but never trigger an analytics recalculation:
// no aggregate reads customer data.
func CreateCustomer(c *gin.Context) {
	var req CustomerRequest
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

	customer, err := services.GetLedger().CreateCustomer(req.toModel())
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    customer,
	})
}

// UpdateCustomer handles PATCH /api/v1/customers/:id
func UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req CustomerRequest
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

	customer, err := services.GetLedger().UpdateCustomer(id, req.toModel())
	if err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    customer,
	})
}

// DeleteCustomer handles DELETE /api/v1/customers/:id
func DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := services.GetLedger().DeleteCustomer(id); err != nil {
		ledgerErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    gin.H{"customerId": id, "deleted": true},
	})
}
