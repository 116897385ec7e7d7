package model

import (
	"time"

	"gorm.io/datatypes"
)

// BuyerHistory is an append-only audit entry. Rows are never updated or
// deleted, and they survive deletion of the buyer they reference.
type BuyerHistory struct {
	ID        string         `json:"id" gorm:"primaryKey"`
	BuyerID   string         `json:"buyerId" gorm:"index;not null"`
	ChangedBy string         `json:"changedBy" gorm:"not null"`
	ChangedAt time.Time      `json:"changedAt" gorm:"index"`
	Diff      datatypes.JSON `json:"diff" gorm:"not null"`
}
