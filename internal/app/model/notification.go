package model

import (
	"time"
)

type Notification struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	UserID     uint   `gorm:"index;not null" json:"userId"`
	StoreID    uint   `gorm:"index;not null" json:"storeId"`
	DiscountID *uint  `gorm:"index" json:"discountId,omitempty"`
	Message    string `gorm:"type:text;not null" json:"message"`
	Read       bool   `gorm:"default:false;index" json:"read"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User     *User     `gorm:"foreignKey:UserID" json:"-"`
	Store    *Store    `gorm:"foreignKey:StoreID" json:"-"`
	Discount *Discount `gorm:"foreignKey:DiscountID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
