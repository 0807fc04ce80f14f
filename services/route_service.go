package services

import (
	"math"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/models"
)

// Nearest-neighbor route planning over geocoded order addresses. This is a
// deliberately simple heuristic: start at the depot, always ride to the
// closest unvisited stop. Good enough for a handful of bicycle deliveries.

const earthRadiusKm = 6371.0

// RouteStop is one delivery on a planned route.
type RouteStop struct {
	Order      models.Order `json:"order"`
	Lat        float64      `json:"lat"`
	Lng        float64      `json:"lng"`
	Geocoded   bool         `json:"geocoded"`
	DistanceKm float64      `json:"distanceKm"` // leg distance from the previous stop
}

// Route is a planned delivery run for one date.
type Route struct {
	Date    string      `json:"date"`
	Depot   string      `json:"depot"`
	Stops   []RouteStop `json:"stops"`
	TotalKm float64     `json:"totalKm"`
}

// PlanRoute orders the undelivered orders of a date (Pending or In Process)
// into a nearest-neighbor route from the depot. Stops whose address cannot
// be geocoded are appended to the tail in ledger order with no leg distance.
func PlanRoute(orders []models.Order, date string, geocoder Geocoder, depotName string, depotLat, depotLng float64) Route {
	route := Route{Date: date, Depot: depotName, Stops: []RouteStop{}}

	var candidates []RouteStop
	var tail []RouteStop
	for _, o := range orders {
		if o.Status != models.StatusPending && o.Status != models.StatusInProcess {
			continue
		}
		if o.CreatedAt == nil || dayKey(*o.CreatedAt) != date {
			continue
		}
		lat, lng, err := geocoder.Geocode(o.Address + ", " + o.Postcode)
		if err != nil {
			config.GetLogger().WithField("orderId", o.ID).WithError(err).Warn("route planning could not geocode address")
			tail = append(tail, RouteStop{Order: o})
			continue
		}
		candidates = append(candidates, RouteStop{Order: o, Lat: lat, Lng: lng, Geocoded: true})
	}

	curLat, curLng := depotLat, depotLng
	for len(candidates) > 0 {
		best := 0
		bestDist := haversineKm(curLat, curLng, candidates[0].Lat, candidates[0].Lng)
		for i := 1; i < len(candidates); i++ {
			d := haversineKm(curLat, curLng, candidates[i].Lat, candidates[i].Lng)
			if d < bestDist {
				best = i
				bestDist = d
			}
		}
		stop := candidates[best]
		stop.DistanceKm = bestDist
		route.Stops = append(route.Stops, stop)
		route.TotalKm += bestDist
		curLat, curLng = stop.Lat, stop.Lng
		candidates = append(candidates[:best], candidates[best+1:]...)
	}

	route.Stops = append(route.Stops, tail...)
	return route
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
