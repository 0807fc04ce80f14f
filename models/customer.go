package models

// Customer represents a shop account we deliver for. There is no foreign key
// between customers and orders; orders reference shops by name only.
type Customer struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	ShopName    string `gorm:"not null" json:"shopName"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	Postcode    string `json:"postcode"`
	Notes       string `json:"notes"`
}

// TableName specifies the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
