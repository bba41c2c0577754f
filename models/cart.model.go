package models

import (
	"time"
)

// Cart is created lazily on first access, one per user.
type Cart struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User  User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// CartItem holds at most one line per product per cart; repeated adds
// accumulate into Quantity.
type CartItem struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CartID    uint `gorm:"index:idx_cart_product,unique;not null" json:"cart_id"`
	ProductID uint `gorm:"index:idx_cart_product,unique;not null" json:"product_id"`
	Quantity  int  `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`

	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`

	Cart    Cart    `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"-"`
	Product Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`
}
