package models

import (
	"time"
)

// User model. Email is normalized to lowercase before storage and unique;
// the password is stored only as a bcrypt hash and must never be logged.
type User struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Name            string `gorm:"size:255;not null"`
	Email           string `gorm:"size:255;not null;unique"`
	HashedPassword  []byte `gorm:"not null"`
	PrivacyAccepted bool   `gorm:"not null"`
	Transactions    []Transaction
}
