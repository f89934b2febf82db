package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringArray stores an ordered sequence of strings as a JSON column so it
// round-trips identically on PostgreSQL and the SQLite test database.
type StringArray []string

// Value implements database/sql/driver.Valuer
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements database/sql.Scanner
func (s *StringArray) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan StringArray")
	}

	return json.Unmarshal(bytes, s)
}

type Store struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OwnerID     uint   `gorm:"index;not null" json:"ownerId"`
	Name        string `gorm:"not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	// Geographic point (WGS84). Nullable so a store can be registered
	// before its location is set.
	Latitude  *float64 `gorm:"type:decimal(10,8)" json:"latitude,omitempty"`
	Longitude *float64 `gorm:"type:decimal(11,8)" json:"longitude,omitempty"`

	PictureURL string `json:"pictureUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Owner         *User           `gorm:"foreignKey:OwnerID" json:"-"`
	Products      []Product       `gorm:"foreignKey:StoreID" json:"-"`
	Orders        []Order         `gorm:"foreignKey:StoreID" json:"-"`
	Notifications []Notification  `gorm:"foreignKey:StoreID" json:"-"`
	Discounts     []Discount      `gorm:"foreignKey:StoreID" json:"-"`
	Categories    []StoreCategory `gorm:"foreignKey:StoreID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}
