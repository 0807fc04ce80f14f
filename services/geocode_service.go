package services

import (
	"fmt"
	"strings"
	"sync"

	geo "github.com/codingsince1985/geo-golang"
	"github.com/codingsince1985/geo-golang/openstreetmap"
)

// Geocoder resolves a free-form address to coordinates. Route planning is
// the only consumer; failures push a stop to the tail of the route rather
// than failing the request.
type Geocoder interface {
	Geocode(address string) (lat, lng float64, err error)
}

// OSMGeocoder geocodes through Nominatim (openstreetmap.org or a custom
// installation) with a simple in-memory cache, since route planning asks for
// the same shop addresses day after day.
type OSMGeocoder struct {
	geocoder geo.Geocoder

	mu    sync.Mutex
	cache map[string][2]float64
}

var geocoderInstance Geocoder

// InitGeocoder initializes the geocoder. An empty nominatimURL uses the
// public openstreetmap.org endpoint.
func InitGeocoder(nominatimURL string) Geocoder {
	var g geo.Geocoder
	if nominatimURL != "" {
		g = openstreetmap.GeocoderWithURL(nominatimURL)
	} else {
		g = openstreetmap.Geocoder()
	}
	geocoderInstance = &OSMGeocoder{
		geocoder: g,
		cache:    make(map[string][2]float64),
	}
	return geocoderInstance
}

// GetGeocoder returns the initialized geocoder instance
func GetGeocoder() Geocoder {
	return geocoderInstance
}

// SetGeocoder sets the geocoder instance (primarily for testing)
func SetGeocoder(g Geocoder) {
	geocoderInstance = g
}

// Geocode resolves an address, consulting the cache first.
func (g *OSMGeocoder) Geocode(address string) (float64, float64, error) {
	key := strings.ToLower(strings.TrimSpace(address))
	if key == "" {
		return 0, 0, fmt.Errorf("empty address")
	}

	g.mu.Lock()
	if coords, ok := g.cache[key]; ok {
		g.mu.Unlock()
		return coords[0], coords[1], nil
	}
	g.mu.Unlock()

	location, err := g.geocoder.Geocode(address)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to geocode %q: %w", address, err)
	}
	if location == nil {
		return 0, 0, fmt.Errorf("no geocoding result for %q", address)
	}

	g.mu.Lock()
	g.cache[key] = [2]float64{location.Lat, location.Lng}
	g.mu.Unlock()
	return location.Lat, location.Lng, nil
}
