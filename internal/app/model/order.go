package model

import (
	"time"
)

type OrderStatus string

const (
	// OrderStatusPending marks the active shopping cart for a
	// (user, store) pair. At most one pending order exists per pair.
	OrderStatusPending OrderStatus = "Pending"
	OrderStatusPaid    OrderStatus = "paid"
)

type Order struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	UserID      uint        `gorm:"index;not null" json:"userId"`
	StoreID     uint        `gorm:"index;not null" json:"storeId"`
	Status      OrderStatus `gorm:"type:varchar(20);default:'Pending'" json:"status"`
	TotalAmount float64     `gorm:"default:0" json:"totalAmount"`
	OrderDate   time.Time   `json:"orderDate"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User       *User       `gorm:"foreignKey:UserID" json:"-"`
	Store      *Store      `gorm:"foreignKey:StoreID" json:"-"`
	OrderItems []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID        uint `gorm:"primarykey" json:"id"`
	OrderID   uint `gorm:"index;not null" json:"orderId"`
	ProductID uint `gorm:"index;not null" json:"productId"`
	Quantity  int  `gorm:"not null" json:"quantity"`

	// Snapshot of the product price at add-time. Never recalculated from
	// the product's current price.
	PriceAtPurchase float64 `gorm:"not null" json:"priceAtPurchase"`

	Sizes  StringArray `gorm:"type:text" json:"sizes"`
	Colors StringArray `gorm:"type:text" json:"colors"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Order   *Order   `gorm:"foreignKey:OrderID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
