package model

import (
	"time"
)

type Product struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	StoreID     uint    `gorm:"index;not null" json:"storeId"`
	Name        string  `gorm:"not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Category    string  `gorm:"index" json:"category"`
	ImageURL    string  `json:"imageUrl"`

	AvailableColors StringArray `gorm:"type:text" json:"availableColors"`
	AvailableSizes  StringArray `gorm:"type:text" json:"availableSizes"`

	// Denormalized current discount percentage. Kept in sync with the
	// discounts table by the discount-update operation.
	Discount float64 `gorm:"default:0" json:"discount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Store      *Store      `gorm:"foreignKey:StoreID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
