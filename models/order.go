package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Order statuses. Status strings are matched exactly by the analytics
// aggregator, so these constants are the only valid spellings.
const (
	StatusPending   = "Pending"
	StatusInProcess = "In Process"
	StatusDelivered = "Delivered"
	StatusCancelled = "Cancelled"
)

// Payment methods accepted at the door. "Bank Transfer" is folded into the
// "Bank" column of the payment breakdown; anything else is ignored by the
// aggregator.
const (
	PaymentBalance      = "Balance"
	PaymentCash         = "Cash"
	PaymentCard         = "Card"
	PaymentBankTransfer = "Bank Transfer"
)

// Order represents a single delivery order in the ledger
type Order struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	ShopName       string     `gorm:"not null;index" json:"shopName"`
	CustomerName   string     `json:"customerName"`
	Phone          string     `json:"phone"`
	Address        string     `json:"address"`
	Postcode       string     `json:"postcode"`
	TotalAmount    string     `json:"totalAmount"` // decimal stored as text; non-numeric counts as 0 in aggregation
	Status         string     `gorm:"not null;default:'Pending'" json:"status"`
	PaymentMethod  string     `json:"paymentMethod"`           // empty when unset
	CreatedAt      *time.Time `json:"createdAt"`               // set once by the ledger, immutable afterwards
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`   // stamped on the transition to Delivered
	DeliveryNotes  string     `json:"deliveryNotes,omitempty"` // set only alongside the Delivered transition
	BasketNumber   string     `json:"basketNumber"`            // derived from ID at creation, immutable
	DeliveryNumber string     `json:"deliveryNumber"`          // derived from ID at creation, immutable
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// Amount parses the text-stored total into a float. Missing or non-numeric
// amounts are treated as 0; the aggregator depends on this.
func (o *Order) Amount() float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(o.TotalAmount), 64)
	if err != nil {
		return 0
	}
	return v
}

// BasketNumberFor derives the basket label for an order id. Baskets cycle
// through 50 physical crates at the depot.
func BasketNumberFor(id uint) string {
	return fmt.Sprintf("B-%d", (id-1)%50+1)
}

// DeliveryNumberFor derives the delivery label for an order id.
func DeliveryNumberFor(id uint) string {
	return fmt.Sprintf("D-%d", id)
}

// ValidStatus reports whether s is one of the four order statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProcess, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// ValidPaymentMethod reports whether s is a recognized payment method.
// The empty string is valid: payment method may be unset.
func ValidPaymentMethod(s string) bool {
	switch s {
	case "", PaymentBalance, PaymentCash, PaymentCard, PaymentBankTransfer:
		return true
	}
	return false
}

// OrderPatch enumerates the fields a partial update may touch. Nil means
// "leave unchanged". ID, CreatedAt, BasketNumber and DeliveryNumber are
// immutable and deliberately absent; DeliveryNotes is applied only when the
// patch also performs the Pending/In Process -> Delivered transition.
type OrderPatch struct {
	ShopName      *string `json:"shopName"`
	CustomerName  *string `json:"customerName"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
	Postcode      *string `json:"postcode"`
	TotalAmount   *string `json:"totalAmount"`
	Status        *string `json:"status"`
	PaymentMethod *string `json:"paymentMethod"`
	DeliveryNotes *string `json:"deliveryNotes"`
}
