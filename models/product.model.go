package models

import (
	"time"
)

// Product lifecycle states. Products are never hard-deleted: "deleted" is a
// terminal state that keeps the row visible to historical order items.
const (
	ProductStatusActive  = "active"
	ProductStatusSold    = "sold"
	ProductStatusDraft   = "draft"
	ProductStatusDeleted = "deleted"
)

type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	SellerID    uint    `gorm:"index;not null" json:"seller_id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null;check:price > 0" json:"price"`
	Category    string  `gorm:"size:50;not null;index" json:"category"`
	Condition   string  `gorm:"size:50;not null" json:"condition"` // new, used
	EcoRating   *int    `gorm:"check:eco_rating BETWEEN 1 AND 5" json:"eco_rating"`
	EcoDetails  string  `gorm:"type:text" json:"eco_details"`
	Status      string  `gorm:"default:'active';size:20;index" json:"status"`
	Views       int     `gorm:"default:0" json:"views"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Seller User           `gorm:"foreignKey:SellerID;constraint:OnDelete:CASCADE" json:"-"`
	Images []ProductImage `gorm:"foreignKey:ProductID" json:"-"`
}
