package model

import (
	"time"
)

type Discount struct {
	ID         uint    `gorm:"primarykey" json:"id"`
	StoreID    uint    `gorm:"index;not null" json:"storeId"`
	ProductID  uint    `gorm:"index;not null" json:"productId"`
	Percentage float64 `gorm:"not null" json:"percentage"`

	// Inactive discounts are retained as history.
	Active    bool      `gorm:"default:true;index" json:"active"`
	StartDate time.Time `json:"startDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Store         *Store         `gorm:"foreignKey:StoreID" json:"-"`
	Product       *Product       `gorm:"foreignKey:ProductID" json:"-"`
	Notifications []Notification `gorm:"foreignKey:DiscountID" json:"-"`
}

func (Discount) TableName() string {
	return "discounts"
}
