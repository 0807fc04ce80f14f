package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pedalpost/pedalpost-api/models"
)

func sampleRoute(t *testing.T) Route {
	t.Helper()
	created := time.Date(2024, 3, 5, 8, 0, 0, 0, time.UTC)
	return Route{
		Date:  "2024-03-05",
		Depot: "PedalPost Depot",
		Stops: []RouteStop{
			{
				Order: models.Order{
					ID: 1, ShopName: "Harbourside Deli", CustomerName: "Priya Shah",
					Address: "12 Welsh Back", Postcode: "BS1 4SB", TotalAmount: "42.50",
					BasketNumber: "B-1", CreatedAt: &created,
				},
				Lat: 51.45, Lng: -2.59, Geocoded: true, DistanceKm: 1.2,
			},
			{
				Order: models.Order{
					ID: 2, ShopName: "Lost Shop", Address: "nowhere", Postcode: "XX1",
					BasketNumber: "B-2", CreatedAt: &created,
				},
			},
		},
		TotalKm: 1.2,
	}
}

func TestRenderSheetProducesPDF(t *testing.T) {
	svc := &RouteSheetService{sheetDir: t.TempDir()}

	content, err := svc.RenderSheet(sampleRoute(t))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"), "output should be a PDF document")
	assert.Greater(t, len(content), 500)
}

func TestRenderSheetEmptyRoute(t *testing.T) {
	svc := &RouteSheetService{sheetDir: t.TempDir()}

	content, err := svc.RenderSheet(Route{Date: "2024-03-05", Depot: "Depot", Stops: []RouteStop{}})
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "%PDF"))
}

func TestPublishSheetToS3(t *testing.T) {
	mockS3 := NewMockS3Service()
	svc := &RouteSheetService{s3Service: mockS3}

	url, err := svc.PublishSheet("2024-03-05", []byte("%PDF-1.4 test"))
	assert.NoError(t, err)
	assert.Contains(t, url, "sheets/route-2024-03-05.pdf")
	assert.True(t, mockS3.ArtifactExists("sheets/route-2024-03-05.pdf"))
}

func TestPublishSheetLocalFallback(t *testing.T) {
	dir := t.TempDir()
	svc := &RouteSheetService{sheetDir: dir}

	path, err := svc.PublishSheet("2024-03-05", []byte("%PDF-1.4 test"))
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "route-2024-03-05.pdf"), path)

	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(content))
}
