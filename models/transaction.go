package models

import "time"

// DateLayout is the wire format for transaction dates (dd/mm/yyyy).
const DateLayout = "02/01/2006"

// Transaction represents a single account movement belonging to a user.
type Transaction struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	UserID    uint      `gorm:"index;not null"`
	Alias     string    `gorm:"size:255"` // optional label
	Category  Category  `gorm:"size:32;not null;index"`
	Amount    int64     `gorm:"not null"` // smallest currency unit (cents), never negative
	Date      time.Time `gorm:"not null"`
}
