package services

import (
	"fmt"
	"strings"
	"sync"
)

// MockGeocoder is an in-memory Geocoder for testing route planning without
// network access.
type MockGeocoder struct {
	mu        sync.RWMutex
	locations map[string][2]float64
}

// NewMockGeocoder creates an empty mock geocoder.
func NewMockGeocoder() *MockGeocoder {
	return &MockGeocoder{locations: make(map[string][2]float64)}
}

// SetAsMockForTesting sets this mock as the global geocoder instance for testing
func (m *MockGeocoder) SetAsMockForTesting() {
	SetGeocoder(m)
}

// AddLocation registers a known address.
func (m *MockGeocoder) AddLocation(address string, lat, lng float64) {
	m.mu.Lock()
	m.locations[strings.ToLower(strings.TrimSpace(address))] = [2]float64{lat, lng}
	m.mu.Unlock()
}

// Geocode resolves only addresses registered through AddLocation.
func (m *MockGeocoder) Geocode(address string) (float64, float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	coords, ok := m.locations[strings.ToLower(strings.TrimSpace(address))]
	if !ok {
		return 0, 0, fmt.Errorf("no geocoding result for %q", address)
	}
	return coords[0], coords[1], nil
}
