package services

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/models"
)

// The recalculation engine. Recalculate is a pure projection of the order
// ledger: every derived collection is recomputed from scratch and replaced
// wholesale, so the output is always a function of the ledger at the moment
// of the last mutation. The caller persists the result and broadcasts.

// Fallback prediction when there are no day buckets to project from.
const (
	fallbackPrediction   = 850.00
	predictionConfidence = 85.0
	predictionGrowth     = 1.1
)

// RecalcResult is the full replacement set for the derived collections.
type RecalcResult struct {
	DailySales    []models.DailySale    `json:"dailySales"`
	WeeklySales   []models.WeeklySale   `json:"weeklySales"`
	Predictions   []models.Prediction   `json:"predictions"`
	Reports       []models.Report       `json:"reports"`
	Notifications []models.Notification `json:"notifications"`
}

// bucket is a time-keyed group of orders. Buckets are kept in first-encounter
// order of their keys so that repeated runs over the same ledger produce
// identical output and "last bucket" is well defined.
type bucket struct {
	Key    string
	Orders []models.Order
}

// Recalculate computes the full derived set from the given ledger snapshot.
// Orders without a creation timestamp are skipped from aggregation (logged,
// never fatal); the ledger back-fills timestamps at load so such orders only
// appear if a caller bypasses it.
func Recalculate(orders []models.Order) RecalcResult {
	valid := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.CreatedAt == nil {
			skippedOrdersTotal.Inc()
			config.GetLogger().WithFields(logrus.Fields{
				"orderId": o.ID,
				"shop":    o.ShopName,
			}).Warn("skipping order without creation timestamp during recalculation")
			continue
		}
		valid = append(valid, o)
	}

	dayBuckets := groupOrders(valid, dayKey)
	weekBuckets := groupOrders(valid, weekKey)

	dailySales := make([]models.DailySale, 0, len(dayBuckets))
	for _, b := range dayBuckets {
		dailySales = append(dailySales, buildDailySale(b))
	}
	weeklySales := make([]models.WeeklySale, 0, len(weekBuckets))
	for _, b := range weekBuckets {
		weeklySales = append(weeklySales, buildWeeklySale(b))
	}

	return RecalcResult{
		DailySales:    dailySales,
		WeeklySales:   weeklySales,
		Predictions:   []models.Prediction{predictNext(dailySales)},
		Reports:       []models.Report{buildReport(weeklySales)},
		Notifications: deriveNotifications(orders),
	}
}

// RecalculateDay recomputes the bucket for a single calendar date
// (YYYY-MM-DD). The second return is false when no order falls on that date,
// in which case the stored bucket should be removed.
func RecalculateDay(orders []models.Order, date string) (models.DailySale, bool) {
	var members []models.Order
	for _, o := range orders {
		if o.CreatedAt != nil && dayKey(*o.CreatedAt) == date {
			members = append(members, o)
		}
	}
	if len(members) == 0 {
		return models.DailySale{}, false
	}
	return buildDailySale(bucket{Key: date, Orders: members}), true
}

// dayKey truncates a timestamp to its UTC calendar date.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// weekKey computes the ISO-8601 week key (YYYY-Www, no zero padding): shift
// the date to the nearest Thursday, then derive the week number from that
// date's day-of-year divided by seven, rounded up. The year in the key is the
// shifted date's year (the ISO week-numbering year).
func weekKey(t time.Time) string {
	t = t.UTC()
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	d = d.AddDate(0, 0, 4-weekday)
	yearStart := time.Date(d.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	week := int(math.Ceil((d.Sub(yearStart).Hours()/24 + 1) / 7))
	return fmt.Sprintf("%d-W%d", d.Year(), week)
}

// groupOrders partitions orders into buckets keyed by keyFn over the
// creation timestamp, keys in first-encounter order.
func groupOrders(orders []models.Order, keyFn func(time.Time) string) []bucket {
	index := make(map[string]int, len(orders))
	var buckets []bucket
	for _, o := range orders {
		key := keyFn(*o.CreatedAt)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, bucket{Key: key})
		}
		buckets[i].Orders = append(buckets[i].Orders, o)
	}
	return buckets
}

// bucketMetrics holds the aggregates shared by day and week buckets.
type bucketMetrics struct {
	TotalRevenue      float64
	TotalOrders       int
	DeliveredOrders   int
	PendingOrders     int
	InProcessOrders   int
	AverageOrderValue float64
	PaymentBreakdown  models.PaymentBreakdown
	TopShop           string
	TopShopRevenue    float64
}

// aggregate computes the metrics for one bucket's members. Cancelled orders
// count toward totals and revenue but have no status counter of their own at
// bucket level. Payment methods outside the four recognized ones are dropped
// from the breakdown entirely (intentional lossy behavior carried over from
// the dashboard contract).
func aggregate(orders []models.Order) bucketMetrics {
	var m bucketMetrics
	m.TotalOrders = len(orders)

	type shopTotal struct {
		name    string
		revenue float64
	}
	var shops []*shopTotal
	shopIndex := make(map[string]*shopTotal)

	for _, o := range orders {
		amount := o.Amount()
		m.TotalRevenue += amount

		switch o.Status {
		case models.StatusDelivered:
			m.DeliveredOrders++
		case models.StatusPending:
			m.PendingOrders++
		case models.StatusInProcess:
			m.InProcessOrders++
		}

		switch o.PaymentMethod {
		case models.PaymentBalance:
			m.PaymentBreakdown.Balance += amount
		case models.PaymentCash:
			m.PaymentBreakdown.Cash += amount
		case models.PaymentCard:
			m.PaymentBreakdown.Card += amount
		case models.PaymentBankTransfer:
			m.PaymentBreakdown.Bank += amount
		}

		s, ok := shopIndex[o.ShopName]
		if !ok {
			s = &shopTotal{name: o.ShopName}
			shopIndex[o.ShopName] = s
			shops = append(shops, s)
		}
		s.revenue += amount
	}

	if m.TotalOrders > 0 {
		m.AverageOrderValue = m.TotalRevenue / float64(m.TotalOrders)
	}

	// Left-to-right fold with strict >, so equal revenues keep the shop that
	// entered the bucket first.
	if len(shops) == 0 {
		m.TopShop = "N/A"
	} else {
		top := shops[0]
		for _, s := range shops[1:] {
			if s.revenue > top.revenue {
				top = s
			}
		}
		m.TopShop = top.name
		m.TopShopRevenue = top.revenue
	}

	return m
}

func buildDailySale(b bucket) models.DailySale {
	m := aggregate(b.Orders)
	return models.DailySale{
		Date:              b.Key,
		ID:                dateID(b.Key),
		TotalRevenue:      m.TotalRevenue,
		TotalOrders:       m.TotalOrders,
		DeliveredOrders:   m.DeliveredOrders,
		PendingOrders:     m.PendingOrders,
		InProcessOrders:   m.InProcessOrders,
		AverageOrderValue: m.AverageOrderValue,
		PaymentBreakdown:  m.PaymentBreakdown,
		TopShop:           m.TopShop,
		TopShopRevenue:    m.TopShopRevenue,
	}
}

func buildWeeklySale(b bucket) models.WeeklySale {
	m := aggregate(b.Orders)
	return models.WeeklySale{
		Week:              b.Key,
		ID:                weekID(b.Key),
		TotalRevenue:      m.TotalRevenue,
		TotalOrders:       m.TotalOrders,
		DeliveredOrders:   m.DeliveredOrders,
		PendingOrders:     m.PendingOrders,
		InProcessOrders:   m.InProcessOrders,
		AverageOrderValue: m.AverageOrderValue,
		PaymentBreakdown:  m.PaymentBreakdown,
		TopShop:           m.TopShop,
		TopShopRevenue:    m.TopShopRevenue,
	}
}

// dateID turns YYYY-MM-DD into its digits (20240102).
func dateID(date string) int {
	id, err := strconv.Atoi(strings.ReplaceAll(date, "-", ""))
	if err != nil {
		return 0
	}
	return id
}

// weekID keeps only the week number from YYYY-Www. The year is dropped, so
// the numeric id collides across years; the Week key itself stays unique.
func weekID(week string) int {
	_, num, ok := strings.Cut(week, "-W")
	if !ok {
		return 0
	}
	id, err := strconv.Atoi(num)
	if err != nil {
		return 0
	}
	return id
}

// predictNext projects the next day's revenue from the last day bucket plus
// ten percent growth. A placeholder heuristic, not a statistical model; the
// on-demand forecaster in forecast_service.go does the real curve fitting.
func predictNext(dailySales []models.DailySale) models.Prediction {
	p := models.Prediction{
		ID:             1,
		PredictedValue: fallbackPrediction,
		Confidence:     predictionConfidence,
		Basis:          "fallback",
		GeneratedAt:    time.Now().UTC(),
	}
	if len(dailySales) > 0 {
		last := dailySales[len(dailySales)-1]
		p.PredictedValue = last.TotalRevenue * predictionGrowth
		p.Basis = last.Date
	}
	return p
}

// buildReport summarizes the most recent weekly bucket. With no weeks it
// reports zero metrics and "N/A" for the top shop.
func buildReport(weeklySales []models.WeeklySale) models.Report {
	r := models.Report{
		ID:          1,
		TopShop:     "N/A",
		GeneratedAt: time.Now().UTC(),
	}
	if len(weeklySales) > 0 {
		last := weeklySales[len(weeklySales)-1]
		r.Week = last.Week
		r.TotalRevenue = last.TotalRevenue
		r.TotalOrders = last.TotalOrders
		r.DeliveredOrders = last.DeliveredOrders
		r.PendingOrders = last.PendingOrders
		r.InProcessOrders = last.InProcessOrders
		r.AverageOrderValue = last.AverageOrderValue
		r.TopShop = last.TopShop
		r.TopShopRevenue = last.TopShopRevenue
	}
	return r
}

// deriveNotifications emits at most one synthetic notification: when the
// last order in ledger order (not the most recently delivered by timestamp)
// has status Delivered. That quirk is part of the dashboard contract.
func deriveNotifications(orders []models.Order) []models.Notification {
	if len(orders) == 0 {
		return []models.Notification{}
	}
	last := orders[len(orders)-1]
	if last.Status != models.StatusDelivered {
		return []models.Notification{}
	}
	ts := time.Now().UTC()
	if last.DeliveredAt != nil {
		ts = *last.DeliveredAt
	}
	return []models.Notification{{
		Type:      models.NotificationOrderUpdate,
		Message:   fmt.Sprintf("Order #%d delivered successfully", last.ID),
		Timestamp: ts,
		Synthetic: true,
	}}
}
