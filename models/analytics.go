package models

import "time"

// PaymentBreakdown buckets bucket revenue by payment method. It always
// carries exactly these four keys; "Bank Transfer" orders land in Bank and
// unrecognized methods are dropped entirely (intentional lossy behavior kept
// from the dashboard this backend feeds).
type PaymentBreakdown struct {
	Balance float64 `json:"Balance"`
	Cash    float64 `json:"Cash"`
	Card    float64 `json:"Card"`
	Bank    float64 `json:"Bank"`
}

// DailySale is the derived aggregate for one calendar day (UTC). The whole
// collection is replaced on every recalculation; it is never edited directly
// except through the single-day recompute endpoint.
type DailySale struct {
	Date              string           `gorm:"primaryKey;size:10" json:"date"` // YYYY-MM-DD
	ID                int              `gorm:"index" json:"id"`                // date digits, e.g. 20240102
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	DeliveredOrders   int              `json:"deliveredOrders"`
	PendingOrders     int              `json:"pendingOrders"`
	InProcessOrders   int              `json:"inProcessOrders"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	PaymentBreakdown  PaymentBreakdown `gorm:"embedded;embeddedPrefix:payment_" json:"paymentBreakdown"`
	TopShop           string           `json:"topShop"`
	TopShopRevenue    float64          `json:"topShopRevenue"`
}

// TableName specifies the table name for the DailySale model
func (DailySale) TableName() string {
	return "daily_sales"
}

// WeeklySale is the derived aggregate for one ISO week. The numeric ID keeps
// only the week number (the year lives in the Week key alone), matching the
// dashboard contract this backend replaced.
type WeeklySale struct {
	Week              string           `gorm:"primaryKey;size:10" json:"week"` // e.g. 2024-W1
	ID                int              `gorm:"index" json:"id"`                // week number only
	TotalRevenue      float64          `json:"totalRevenue"`
	TotalOrders       int              `json:"totalOrders"`
	DeliveredOrders   int              `json:"deliveredOrders"`
	PendingOrders     int              `json:"pendingOrders"`
	InProcessOrders   int              `json:"inProcessOrders"`
	AverageOrderValue float64          `json:"averageOrderValue"`
	PaymentBreakdown  PaymentBreakdown `gorm:"embedded;embeddedPrefix:payment_" json:"paymentBreakdown"`
	TopShop           string           `json:"topShop"`
	TopShopRevenue    float64          `json:"topShopRevenue"`
}

// TableName specifies the table name for the WeeklySale model
func (WeeklySale) TableName() string {
	return "weekly_sales"
}

// Prediction is the single naive next-day revenue projection. This is a
// placeholder heuristic (last day's revenue plus ten percent), not a
// statistical model.
type Prediction struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PredictedValue float64   `json:"predictedValue"`
	Confidence     float64   `json:"confidence"`
	Basis          string    `json:"basis"` // date of the source day bucket, or "fallback"
	GeneratedAt    time.Time `json:"generatedAt"`
}

// TableName specifies the table name for the Prediction model
func (Prediction) TableName() string {
	return "predictions"
}

// Report is the single summary of the most recent weekly bucket.
type Report struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Week              string    `json:"week"`
	TotalRevenue      float64   `json:"totalRevenue"`
	TotalOrders       int       `json:"totalOrders"`
	DeliveredOrders   int       `json:"deliveredOrders"`
	PendingOrders     int       `json:"pendingOrders"`
	InProcessOrders   int       `json:"inProcessOrders"`
	AverageOrderValue float64   `json:"averageOrderValue"`
	TopShop           string    `json:"topShop"`
	TopShopRevenue    float64   `json:"topShopRevenue"`
	GeneratedAt       time.Time `json:"generatedAt"`
}

// TableName specifies the table name for the Report model
func (Report) TableName() string {
	return "reports"
}

// Counter backs the storage layer's named incrementing sequences.
type Counter struct {
	Name  string `gorm:"primaryKey;size:64" json:"name"`
	Value uint   `json:"value"`
}

// TableName specifies the table name for the Counter model
func (Counter) TableName() string {
	return "counters"
}
