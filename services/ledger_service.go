package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pedalpost/pedalpost-api/config"
	"github.com/pedalpost/pedalpost-api/models"
)

// Ledger owns the authoritative in-process copy of orders and customers.
// Every mutation runs start-to-finish under the write lock, so writers are
// serialized and the recalculation always projects a committed snapshot.
// Persistence failures are logged and do not roll back the in-memory
// mutation (best-effort semantics: the caller still reports success).
type Ledger struct {
	mu        sync.RWMutex
	orders    []models.Order
	customers []models.Customer

	store StoreInterface
	hub   *Hub
}

// LedgerError is a data-shape failure (not found, invalid field) surfaced to
// the transport layer.
type LedgerError struct {
	Code    string
	Message string
}

func (e *LedgerError) Error() string {
	return e.Message
}

var ledgerInstance *Ledger

// InitLedger loads orders and customers from the store and establishes the
// ledger as the single owner of both collections. Orders that arrive without
// a creation timestamp are back-filled once, from the delivered timestamp or
// the current time, and the repaired set is written back.
func InitLedger(store StoreInterface, hub *Hub) (*Ledger, error) {
	orders, err := store.GetOrders()
	if err != nil {
		return nil, fmt.Errorf("failed to load order ledger: %w", err)
	}
	customers, err := store.GetCustomers()
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}

	repaired := false
	for i := range orders {
		if orders[i].CreatedAt == nil {
			ts := time.Now().UTC()
			if orders[i].DeliveredAt != nil {
				ts = *orders[i].DeliveredAt
			}
			orders[i].CreatedAt = &ts
			repaired = true
			config.GetLogger().WithField("orderId", orders[i].ID).Warn("back-filled missing creation timestamp at load")
		}
	}
	if repaired {
		if err := store.ReplaceOrders(orders); err != nil {
			config.GetLogger().WithError(err).Error("failed to persist back-filled creation timestamps")
			persistenceFailuresTotal.Inc()
		}
	}

	ledgerInstance = &Ledger{
		orders:    orders,
		customers: customers,
		store:     store,
		hub:       hub,
	}
	return ledgerInstance, nil
}

// GetLedger returns the initialized ledger instance
func GetLedger() *Ledger {
	return ledgerInstance
}

// SetLedger sets the ledger instance (primarily for testing)
func SetLedger(l *Ledger) {
	ledgerInstance = l
}

// Snapshot returns copies of the order and customer collections.
func (l *Ledger) Snapshot() ([]models.Order, []models.Customer) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	orders := make([]models.Order, len(l.orders))
	copy(orders, l.orders)
	customers := make([]models.Customer, len(l.customers))
	copy(customers, l.customers)
	return orders, customers
}

// Orders returns a copy of the order collection in ledger order.
func (l *Ledger) Orders() []models.Order {
	orders, _ := l.Snapshot()
	return orders
}

// FindOrder returns the order with the given id.
func (l *Ledger) FindOrder(id uint) (models.Order, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return models.Order{}, &LedgerError{Code: "ORDER_NOT_FOUND", Message: fmt.Sprintf("Order %d not found", id)}
}

// CreateOrder appends a new order. The id is max-existing+1; basket and
// delivery numbers are derived from it and never change. A zero creation
// timestamp means "now". The new order is persisted, analytics are
// recalculated, and both realtime events fire before this returns.
func (l *Ledger) CreateOrder(o models.Order) (models.Order, error) {
	if o.ShopName == "" {
		return models.Order{}, &LedgerError{Code: "VALIDATION_ERROR", Message: "shopName is required"}
	}
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if !models.ValidStatus(o.Status) {
		return models.Order{}, &LedgerError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf("invalid status %q", o.Status)}
	}
	if !models.ValidPaymentMethod(o.PaymentMethod) {
		return models.Order{}, &LedgerError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf("invalid payment method %q", o.PaymentMethod)}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var maxID uint
	for _, existing := range l.orders {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	o.ID = maxID + 1
	o.BasketNumber = models.BasketNumberFor(o.ID)
	o.DeliveryNumber = models.DeliveryNumberFor(o.ID)
	if o.CreatedAt == nil {
		now := time.Now().UTC()
		o.CreatedAt = &now
	}
	if o.Status == models.StatusDelivered && o.DeliveredAt == nil {
		now := time.Now().UTC()
		o.DeliveredAt = &now
	}

	l.orders = append(l.orders, o)
	orderMutationsTotal.WithLabelValues("create").Inc()
	l.saveAndRecalculate()
	l.broadcastOrderEvent(map[string]interface{}{"orderId": o.ID, "newOrder": o})
	return o, nil
}

// UpdateOrder applies a typed patch to an order. Only the transition
// Pending/In Process -> Delivered has a side effect: it stamps DeliveredAt
// (if absent) and applies DeliveryNotes. Re-delivering an already Delivered
// order keeps the original stamp and ignores the notes.
func (l *Ledger) UpdateOrder(id uint, patch models.OrderPatch) (models.Order, error) {
	if patch.Status != nil && !models.ValidStatus(*patch.Status) {
		return models.Order{}, &LedgerError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf("invalid status %q", *patch.Status)}
	}
	if patch.PaymentMethod != nil && !models.ValidPaymentMethod(*patch.PaymentMethod) {
		return models.Order{}, &LedgerError{Code: "VALIDATION_ERROR", Message: fmt.Sprintf("invalid payment method %q", *patch.PaymentMethod)}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.orders {
		if l.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Order{}, &LedgerError{Code: "ORDER_NOT_FOUND", Message: fmt.Sprintf("Order %d not found", id)}
	}

	o := &l.orders[idx]
	if patch.ShopName != nil {
		o.ShopName = *patch.ShopName
	}
	if patch.CustomerName != nil {
		o.CustomerName = *patch.CustomerName
	}
	if patch.Phone != nil {
		o.Phone = *patch.Phone
	}
	if patch.Address != nil {
		o.Address = *patch.Address
	}
	if patch.Postcode != nil {
		o.Postcode = *patch.Postcode
	}
	if patch.TotalAmount != nil {
		o.TotalAmount = *patch.TotalAmount
	}
	if patch.PaymentMethod != nil {
		o.PaymentMethod = *patch.PaymentMethod
	}
	if patch.Status != nil {
		deliverable := o.Status == models.StatusPending || o.Status == models.StatusInProcess
		if *patch.Status == models.StatusDelivered && deliverable {
			if o.DeliveredAt == nil {
				now := time.Now().UTC()
				o.DeliveredAt = &now
			}
			if patch.DeliveryNotes != nil {
				o.DeliveryNotes = *patch.DeliveryNotes
			}
		}
		o.Status = *patch.Status
	}

	updated := *o
	orderMutationsTotal.WithLabelValues("update").Inc()
	l.saveAndRecalculate()
	l.broadcastOrderEvent(map[string]interface{}{"orderId": updated.ID, "updatedOrder": updated})
	return updated, nil
}

// DeleteOrder removes an order by id.
func (l *Ledger) DeleteOrder(id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := -1
	for i := range l.orders {
		if l.orders[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &LedgerError{Code: "ORDER_NOT_FOUND", Message: fmt.Sprintf("Order %d not found", id)}
	}

	l.orders = append(l.orders[:idx], l.orders[idx+1:]...)
	orderMutationsTotal.WithLabelValues("delete").Inc()
	l.saveAndRecalculate()
	l.broadcastOrderEvent(map[string]interface{}{"orderId": id, "deleted": true})
	return nil
}

// Recalculate re-derives and persists the analytics collections from the
// current ledger without mutating orders. Used by the explicit recalculation
// endpoint and at startup.
func (l *Ledger) Recalculate() RecalcResult {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.persistDerived()
}

// Customers returns a copy of the customer collection.
func (l *Ledger) Customers() []models.Customer {
	_, customers := l.Snapshot()
	return customers
}

// FindCustomer returns the customer with the given id.
func (l *Ledger) FindCustomer(id uint) (models.Customer, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, c := range l.customers {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Customer{}, &LedgerError{Code: "CUSTOMER_NOT_FOUND", Message: fmt.Sprintf("Customer %d not found", id)}
}

// CreateCustomer appends a customer. The id is the current collection length
// plus one, which collides after deletions; that weakness is part of the
// contract this backend replaced and is kept deliberately.
func (l *Ledger) CreateCustomer(c models.Customer) (models.Customer, error) {
	if c.ShopName == "" {
		return models.Customer{}, &LedgerError{Code: "VALIDATION_ERROR", Message: "shopName is required"}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	c.ID = uint(len(l.customers) + 1)
	l.customers = append(l.customers, c)
	l.persistCustomers()
	l.broadcastData()
	return c, nil
}

// UpdateCustomer replaces the mutable fields of a customer.
func (l *Ledger) UpdateCustomer(id uint, c models.Customer) (models.Customer, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.customers {
		if l.customers[i].ID == id {
			c.ID = id
			l.customers[i] = c
			l.persistCustomers()
			l.broadcastData()
			return c, nil
		}
	}
	return models.Customer{}, &LedgerError{Code: "CUSTOMER_NOT_FOUND", Message: fmt.Sprintf("Customer %d not found", id)}
}

// DeleteCustomer removes a customer by id.
func (l *Ledger) DeleteCustomer(id uint) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.customers {
		if l.customers[i].ID == id {
			l.customers = append(l.customers[:i], l.customers[i+1:]...)
			l.persistCustomers()
			l.broadcastData()
			return nil
		}
	}
	return &LedgerError{Code: "CUSTOMER_NOT_FOUND", Message: fmt.Sprintf("Customer %d not found", id)}
}

// saveAndRecalculate persists the order collection, re-derives the analytics
// collections, and persists those too. Callers must hold the write lock.
// Storage failures are logged and counted, never propagated: the in-memory
// state is authoritative and the triggering request still succeeds.
func (l *Ledger) saveAndRecalculate() {
	if err := l.store.ReplaceOrders(l.orders); err != nil {
		config.GetLogger().WithError(err).Error("failed to persist orders")
		persistenceFailuresTotal.Inc()
	}
	l.persistDerived()
}

// persistDerived recalculates from the current orders and writes the derived
// collections in a fixed order: daily sales, weekly sales, predictions,
// reports, notifications. The writes are transactional per collection but
// not across them.
func (l *Ledger) persistDerived() RecalcResult {
	snapshot := make([]models.Order, len(l.orders))
	copy(snapshot, l.orders)
	result := Recalculate(snapshot)
	recalculationsTotal.Inc()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"dailySales", func() error { return l.store.ReplaceDailySales(result.DailySales) }},
		{"weeklySales", func() error { return l.store.ReplaceWeeklySales(result.WeeklySales) }},
		{"predictions", func() error { return l.store.ReplacePredictions(result.Predictions) }},
		{"reports", func() error { return l.store.ReplaceReports(result.Reports) }},
		{"notifications", func() error { return l.store.ReplaceSyntheticNotifications(result.Notifications) }},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			config.GetLogger().WithFields(logrus.Fields{"collection": step.name}).WithError(err).Error("failed to persist derived collection")
			persistenceFailuresTotal.Inc()
		}
	}
	return result
}

func (l *Ledger) persistCustomers() {
	if err := l.store.ReplaceCustomers(l.customers); err != nil {
		config.GetLogger().WithError(err).Error("failed to persist customers")
		persistenceFailuresTotal.Inc()
	}
}

// broadcastOrderEvent emits the order-updated event followed by the full
// data-update snapshot. Callers must hold the write lock.
func (l *Ledger) broadcastOrderEvent(payload map[string]interface{}) {
	if l.hub == nil {
		return
	}
	l.hub.Broadcast(EventOrderUpdated, payload)
	l.hub.Broadcast(EventDataUpdate, l.snapshotLocked())
}

func (l *Ledger) broadcastData() {
	if l.hub == nil {
		return
	}
	l.hub.Broadcast(EventDataUpdate, l.snapshotLocked())
}

// DataSnapshot is the payload of a data-update event.
type DataSnapshot struct {
	Orders    []models.Order    `json:"orders"`
	Customers []models.Customer `json:"customers"`
}

func (l *Ledger) snapshotLocked() DataSnapshot {
	orders := make([]models.Order, len(l.orders))
	copy(orders, l.orders)
	customers := make([]models.Customer, len(l.customers))
	copy(customers, l.customers)
	return DataSnapshot{Orders: orders, Customers: customers}
}

// DataSnapshot returns the payload sent to a newly subscribed client.
func (l *Ledger) DataSnapshot() DataSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}
