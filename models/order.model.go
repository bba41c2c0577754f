package models

import (
	"time"
)

// Order states: processing -> {shipped, cancelled} -> delivered. No endpoint
// mutates status after creation; fulfillment happens out of band.
const (
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order is an immutable snapshot of a completed checkout.
type Order struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"index;not null" json:"user_id"`
	Status      string  `gorm:"default:'processing';size:20;not null" json:"status"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`

	ShippingAddress string `gorm:"type:text;not null" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100;not null" json:"shipping_city"`
	ShippingState   string `gorm:"size:100;not null" json:"shipping_state"`
	ShippingZip     string `gorm:"size:20;not null" json:"shipping_zip"`
	ShippingCountry string `gorm:"size:100;not null" json:"shipping_country"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User        `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"-"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem captures PricePerUnit at purchase time, decoupled from any later
// change to the product row.
type OrderItem struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	OrderID      uint    `gorm:"index;not null" json:"order_id"`
	ProductID    uint    `gorm:"index;not null" json:"product_id"`
	Quantity     int     `gorm:"not null;check:quantity > 0" json:"quantity"`
	PricePerUnit float64 `gorm:"not null" json:"price_per_unit"`

	Order   Order   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL" json:"-"`
}
