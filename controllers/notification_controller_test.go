package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCreateNotification(t *testing.T) {
	setupTestEnv(t)
	router := setupTestRouter()

	w := doJSON(t, router, "POST", "/api/v1/notifications", gin.H{
		"type":    "warning",
		"message": "Depot closed Friday",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "warning", data["type"])
	assert.Equal(t, "Depot closed Friday", data["message"])
	assert.Equal(t, false, data["synthetic"])
}

func TestCreateNotificationDefaultsTypeToInfo(t *testing.T) {
	setupTestEnv(t)
	router := setupTestRouter()

	w := doJSON(t, router, "POST", "/api/v1/notifications", gin.H{"message": "Hello"})
	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "info", data["type"])
}

func TestCreateNotificationRequiresMessage(t *testing.T) {
	setupTestEnv(t)
	router := setupTestRouter()

	w := doJSON(t, router, "POST", "/api/v1/notifications", gin.H{"type": "info"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListNotificationsSyntheticFirst(t *testing.T) {
	setupTestEnv(t)
	router := setupTestRouter()

	w := doJSON(t, router, "POST", "/api/v1/notifications", gin.H{"message": "First"})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, "POST", "/api/v1/notifications", gin.H{"message": "Second"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// A delivered order produces the synthetic delivery notification.
	w = doJSON(t, router, "POST", "/api/v1/orders", gin.H{
		"shopName": "Shop A", "totalAmount": "25.00", "status": "Pending",
	})
	assert.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, router, "PATCH", "/api/v1/orders/1", gin.H{"status": "Delivered"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, "GET", "/api/v1/notifications", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, list, 3)

	first := list[0].(map[string]interface{})
	assert.Equal(t, true, first["synthetic"])
	assert.Equal(t, "Order #1 delivered successfully", first["message"])

	// User notifications follow, newest first.
	assert.Equal(t, "Second", list[1].(map[string]interface{})["message"])
	assert.Equal(t, "First", list[2].(map[string]interface{})["message"])
}

func TestSyntheticNotificationReplacedOnRecalculation(t *testing.T) {
	setupTestEnv(t)
	router := setupTestRouter()

	for _, shop := range []string{"Shop A", "Shop B"} {
		w := doJSON(t, router, "POST", "/api/v1/orders", gin.H{
			"shopName": shop, "totalAmount": "10.00", "status": "Delivered",
		})
		assert.Equal(t, http.StatusCreated, w.Code)
	}

	w := doJSON(t, router, "GET", "/api/v1/notifications", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	list := decodeBody(t, w)["data"].([]interface{})
	assert.Len(t, list, 1)
	assert.Equal(t, "Order #2 delivered successfully", list[0].(map[string]interface{})["message"])
}
