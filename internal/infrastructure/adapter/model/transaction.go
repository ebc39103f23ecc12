package model

import (
	"time"
)

// Transaction represents the database model for ramp transactions
type Transaction struct {
	Reference      string    `gorm:"primaryKey;size:128"`
	UserID         int64     `gorm:"not null;index"`
	Type           string    `gorm:"not null;size:16"`
	Asset          string    `gorm:"not null;size:64"`
	Amount         string    `gorm:"not null;size:78"` // decimal text, never float
	Status         string    `gorm:"not null;size:32;index"`
	Hash           string    `gorm:"size:128"`
	DepositAddress string    `gorm:"size:128"`
	CreatedAt      time.Time `gorm:"not null;index"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
