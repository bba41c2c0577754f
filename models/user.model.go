package models

import (
	"time"
)

type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Login credentials
	Email        string `gorm:"unique;not null;size:255;index" json:"email"`
	PasswordHash string `gorm:"not null;size:255" json:"-"`

	// Profile
	Name            string `gorm:"not null;size:255" json:"name"`
	Bio             string `gorm:"type:text" json:"bio"`
	ProfileImageURL string `gorm:"size:255" json:"profile_image_url"`
	IsVerified      bool   `gorm:"default:false" json:"is_verified"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Products []Product `gorm:"foreignKey:SellerID" json:"-"`
	Orders   []Order   `gorm:"foreignKey:UserID" json:"-"`
}
