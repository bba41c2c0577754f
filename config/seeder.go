package config

import (
	"log"

	"ecofinds_backend/models"
	"ecofinds_backend/utils"

	"gorm.io/gorm"
)

func SeedUsers(db *gorm.DB) {
	log.Println("🌱 Seeding users...")

	password, _ := utils.HashPassword("password123")

	users := []models.User{
		{
			Email:        "seller@example.com",
			PasswordHash: password,
			Name:         "Demo Seller",
		},
		{
			Email:        "buyer@example.com",
			PasswordHash: password,
			Name:         "Demo Buyer",
		},
	}

	for _, user := range users {
		var existingUser models.User
		if err := db.Where("email = ?", user.Email).First(&existingUser).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				if err := db.Create(&user).Error; err != nil {
					log.Printf("Failed to seed user %s: %v", user.Email, err)
				} else {
					log.Printf("User seeded: %s (ID: %d)", user.Email, user.ID)
				}
			}
		} else {
			log.Printf("User already exists: %s", user.Email)
		}
	}

	log.Println("✅ Seeding complete.")
}

func SeedProducts(db *gorm.DB) {
	log.Println("🌱 Seeding products...")

	var seller models.User
	if err := db.Where("email = ?", "seller@example.com").First(&seller).Error; err != nil {
		log.Printf("Seed seller not found, skipping product seed: %v", err)
		return
	}

	rating := 4
	products := []models.Product{
		{
			SellerID:    seller.ID,
			Name:        "Refurbished Laptop",
			Description: "13-inch laptop, new battery, factory reset.",
			Price:       299.99,
			Category:    "Electronics",
			Condition:   "used",
			EcoRating:   &rating,
			Status:      models.ProductStatusActive,
		},
		{
			SellerID:    seller.ID,
			Name:        "Wool Sweater",
			Description: "Hand-knitted, worn twice.",
			Price:       24.50,
			Category:    "Clothing",
			Condition:   "used",
			Status:      models.ProductStatusActive,
		},
	}

	for _, product := range products {
		var existing models.Product
		err := db.Where("seller_id = ? AND name = ?", product.SellerID, product.Name).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&product).Error; err != nil {
				log.Printf("Failed to seed product %s: %v", product.Name, err)
			} else {
				log.Printf("Product seeded: %s (ID: %d)", product.Name, product.ID)
			}
		}
	}

	log.Println("✅ Seeding complete.")
}
