package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pedalpost/pedalpost-api/models"
)

func routeOrder(id uint, shop, address, postcode, status string, created *time.Time) models.Order {
	return models.Order{
		ID:       id,
		ShopName: shop,
		Address:  address,
		Postcode: postcode,
		Status:   status,
		CreatedAt: created,
	}
}

func TestPlanRouteNearestNeighbor(t *testing.T) {
	created := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	geocoder := NewMockGeocoder()
	// Depot at origin; stops due north at increasing distance.
	geocoder.AddLocation("far, FA1", 0.3, 0)
	geocoder.AddLocation("near, NE1", 0.1, 0)
	geocoder.AddLocation("mid, MI1", 0.2, 0)

	orders := []models.Order{
		routeOrder(1, "Far", "far", "FA1", models.StatusPending, &created),
		routeOrder(2, "Near", "near", "NE1", models.StatusPending, &created),
		routeOrder(3, "Mid", "mid", "MI1", models.StatusInProcess, &created),
	}

	route := PlanRoute(orders, "2024-03-05", geocoder, "Depot", 0, 0)

	assert.Len(t, route.Stops, 3)
	assert.Equal(t, "Near", route.Stops[0].Order.ShopName)
	assert.Equal(t, "Mid", route.Stops[1].Order.ShopName)
	assert.Equal(t, "Far", route.Stops[2].Order.ShopName)
	assert.True(t, route.Stops[0].Geocoded)

	// Leg distances accumulate into the total.
	var sum float64
	for _, stop := range route.Stops {
		sum += stop.DistanceKm
	}
	assert.InDelta(t, route.TotalKm, sum, 1e-9)
	assert.Greater(t, route.TotalKm, 0.0)
}

func TestPlanRouteFiltersStatusAndDate(t *testing.T) {
	onDate := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	otherDate := time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)
	geocoder := NewMockGeocoder()
	geocoder.AddLocation("a, A1", 0.1, 0)
	geocoder.AddLocation("b, B1", 0.2, 0)
	geocoder.AddLocation("c, C1", 0.3, 0)
	geocoder.AddLocation("d, D1", 0.4, 0)

	orders := []models.Order{
		routeOrder(1, "Pending", "a", "A1", models.StatusPending, &onDate),
		routeOrder(2, "Delivered", "b", "B1", models.StatusDelivered, &onDate),
		routeOrder(3, "Cancelled", "c", "C1", models.StatusCancelled, &onDate),
		routeOrder(4, "WrongDay", "d", "D1", models.StatusPending, &otherDate),
	}

	route := PlanRoute(orders, "2024-03-05", geocoder, "Depot", 0, 0)

	assert.Len(t, route.Stops, 1)
	assert.Equal(t, "Pending", route.Stops[0].Order.ShopName)
}

func TestPlanRouteUngeocodableGoToTail(t *testing.T) {
	created := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	geocoder := NewMockGeocoder()
	geocoder.AddLocation("known, KN1", 0.5, 0)

	orders := []models.Order{
		routeOrder(1, "NoWhere", "nowhere", "XX1", models.StatusPending, &created),
		routeOrder(2, "Known", "known", "KN1", models.StatusPending, &created),
		routeOrder(3, "AlsoLost", "missing", "XX2", models.StatusPending, &created),
	}

	route := PlanRoute(orders, "2024-03-05", geocoder, "Depot", 0, 0)

	assert.Len(t, route.Stops, 3)
	assert.Equal(t, "Known", route.Stops[0].Order.ShopName)
	// Failed geocodes keep their ledger order at the tail.
	assert.Equal(t, "NoWhere", route.Stops[1].Order.ShopName)
	assert.Equal(t, "AlsoLost", route.Stops[2].Order.ShopName)
	assert.False(t, route.Stops[1].Geocoded)
	assert.Zero(t, route.Stops[1].DistanceKm)
}

func TestPlanRouteEmptyDate(t *testing.T) {
	route := PlanRoute(nil, "2024-03-05", NewMockGeocoder(), "Depot", 0, 0)
	assert.Empty(t, route.Stops)
	assert.Zero(t, route.TotalKm)
	assert.Equal(t, "2024-03-05", route.Date)
}

func TestHaversine(t *testing.T) {
	// One degree of latitude is roughly 111 km.
	assert.InDelta(t, 111.2, haversineKm(0, 0, 1, 0), 0.5)
	assert.Zero(t, haversineKm(51.45, -2.58, 51.45, -2.58))
}
