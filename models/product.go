package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Manufacturer string          `json:"manufacturer"`
	Description  string          `json:"description"`
	ReleaseDate  time.Time       `json:"release_date"`
	Weight       decimal.Decimal `gorm:"type:decimal(10,2)" json:"weight"`
	Price        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	// PreviousPrice holds the pre-drop price only while the most recent
	// update lowered the price; any other update clears it.
	PreviousPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"previous_price"`
	Photo         string          `json:"photo"`
	CreatedByID   string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
