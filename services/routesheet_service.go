package services

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/pedalpost/pedalpost-api/utils"
)

// SheetService renders PDF route sheets for the riders and publishes them
// either to S3 (returning a presigned URL) or to the local sheet archive.
type SheetService interface {
	// RenderSheet renders a route into PDF bytes
	RenderSheet(route Route) ([]byte, error)

	// PublishSheet stores rendered PDF bytes and returns a URL or local path
	PublishSheet(date string, content []byte) (string, error)
}

// RouteSheetService implements SheetService with gofpdf rendering and an S3
// or local-directory backend.
type RouteSheetService struct {
	s3Service S3Interface // nil when S3 is not configured
	sheetDir  string
}

var sheetServiceInstance SheetService

// InitSheetService initializes the sheet service. s3Service may be nil, in
// which case sheets are archived under sheetDir.
func InitSheetService(s3Service S3Interface, sheetDir string) SheetService {
	sheetServiceInstance = &RouteSheetService{
		s3Service: s3Service,
		sheetDir:  sheetDir,
	}
	return sheetServiceInstance
}

// GetSheetService returns the initialized sheet service instance
func GetSheetService() SheetService {
	return sheetServiceInstance
}

// SetSheetService sets the sheet service instance (primarily for testing)
func SetSheetService(service SheetService) {
	sheetServiceInstance = service
}

// RenderSheet renders the route as an A4 route sheet: one row per stop with
// the shop, customer contact details, amount due and basket number.
func (s *RouteSheetService) RenderSheet(route Route) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Route sheet %s", route.Date), false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s - Route Sheet %s", route.Depot, route.Date), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d stops, %.1f km", len(route.Stops), route.TotalKm), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	headers := []struct {
		label string
		width float64
	}{
		{"#", 8},
		{"Shop", 35},
		{"Customer", 32},
		{"Address", 55},
		{"Postcode", 20},
		{"Amount", 18},
		{"Basket", 22},
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, h := range headers {
		pdf.CellFormat(h.width, 7, h.label, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, stop := range route.Stops {
		o := stop.Order
		pdf.CellFormat(8, 7, fmt.Sprintf("%d", i+1), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 7, o.ShopName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(32, 7, o.CustomerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(55, 7, o.Address, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, o.Postcode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(18, 7, fmt.Sprintf("%.2f", o.Amount()), "1", 0, "R", false, 0, "")
		basket := o.BasketNumber
		if !stop.Geocoded {
			basket += " *"
		}
		pdf.CellFormat(22, 7, basket, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if len(route.Stops) == 0 {
		pdf.CellFormat(0, 8, "No deliveries scheduled for this date.", "", 1, "L", false, 0, "")
	} else {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 5, "* address could not be located; ask dispatch before leaving", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render route sheet: %w", err)
	}
	return buf.Bytes(), nil
}

// PublishSheet stores the rendered sheet. With S3 configured it uploads
// under sheets/route-<date>.pdf and returns a presigned URL; otherwise it
// writes into the local sheet archive and returns the file path.
func (s *RouteSheetService) PublishSheet(date string, content []byte) (string, error) {
	name := fmt.Sprintf("route-%s.pdf", date)

	if s.s3Service != nil {
		key := "sheets/" + name
		if err := s.s3Service.UploadArtifact(key, content, "application/pdf"); err != nil {
			return "", fmt.Errorf("failed to publish route sheet: %w", err)
		}
		url, err := s.s3Service.GetPresignedURL(key)
		if err != nil {
			return "", fmt.Errorf("failed to link route sheet: %w", err)
		}
		return url, nil
	}

	path, err := utils.SaveArtifact(s.sheetDir, name, content)
	if err != nil {
		return "", fmt.Errorf("failed to archive route sheet: %w", err)
	}
	return path, nil
}
