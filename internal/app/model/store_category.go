package model

import (
	"time"
)

type StoreCategory struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	StoreID  uint   `gorm:"index;not null" json:"storeId"`
	Category string `gorm:"not null" json:"category"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Store *Store `gorm:"foreignKey:StoreID" json:"-"`
}

func (StoreCategory) TableName() string {
	return "store_categories"
}
