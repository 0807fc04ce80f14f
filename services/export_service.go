package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/pedalpost/pedalpost-api/models"
)

// XLSX export of the derived sales aggregates, for the office staff who live
// in spreadsheets.

const (
	dailySheetName  = "Daily Sales"
	weeklySheetName = "Weekly Sales"
)

var salesHeaders = []string{
	"Key", "Total Revenue", "Total Orders", "Delivered", "Pending", "In Process",
	"Average Order Value", "Balance", "Cash", "Card", "Bank", "Top Shop", "Top Shop Revenue",
}

// BuildSalesWorkbook builds a workbook with one sheet of daily buckets and
// one of weekly buckets. The caller writes it to the response.
func BuildSalesWorkbook(daily []models.DailySale, weekly []models.WeeklySale) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", dailySheetName); err != nil {
		return nil, fmt.Errorf("failed to create daily sheet: %w", err)
	}
	if _, err := f.NewSheet(weeklySheetName); err != nil {
		return nil, fmt.Errorf("failed to create weekly sheet: %w", err)
	}

	writeHeader := func(sheet string) error {
		for col, h := range salesHeaders {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, h); err != nil {
				return err
			}
		}
		return nil
	}
	if err := writeHeader(dailySheetName); err != nil {
		return nil, fmt.Errorf("failed to write daily header: %w", err)
	}
	if err := writeHeader(weeklySheetName); err != nil {
		return nil, fmt.Errorf("failed to write weekly header: %w", err)
	}

	writeRow := func(sheet string, row int, values []interface{}) error {
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
		return nil
	}

	for i, d := range daily {
		values := []interface{}{
			d.Date, d.TotalRevenue, d.TotalOrders, d.DeliveredOrders, d.PendingOrders,
			d.InProcessOrders, d.AverageOrderValue, d.PaymentBreakdown.Balance,
			d.PaymentBreakdown.Cash, d.PaymentBreakdown.Card, d.PaymentBreakdown.Bank,
			d.TopShop, d.TopShopRevenue,
		}
		if err := writeRow(dailySheetName, i+2, values); err != nil {
			return nil, fmt.Errorf("failed to write daily row %d: %w", i, err)
		}
	}

	for i, w := range weekly {
		values := []interface{}{
			w.Week, w.TotalRevenue, w.TotalOrders, w.DeliveredOrders, w.PendingOrders,
			w.InProcessOrders, w.AverageOrderValue, w.PaymentBreakdown.Balance,
			w.PaymentBreakdown.Cash, w.PaymentBreakdown.Card, w.PaymentBreakdown.Bank,
			w.TopShop, w.TopShopRevenue,
		}
		if err := writeRow(weeklySheetName, i+2, values); err != nil {
			return nil, fmt.Errorf("failed to write weekly row %d: %w", i, err)
		}
	}

	return f, nil
}
