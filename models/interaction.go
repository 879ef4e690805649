package models

import (
	"time"
)

// Interaction types recorded against a part
const (
	InteractionView      = "view"
	InteractionInquiry   = "inquiry"
	InteractionCustomize = "customize"
)

// PartInteraction records a customer touching a part (views feed the dashboards)
type PartInteraction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	PartID          uint      `json:"part_id" gorm:"not null;index"`
	CustomerID      string    `json:"customer_id" gorm:"size:64"`
	InteractionType string    `json:"interaction_type" gorm:"size:32;not null;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"index"`
}

// InteractionInput is the body of an interaction log request
type InteractionInput struct {
	CustomerID      string `json:"customer_id"`
	InteractionType string `json:"interaction_type" binding:"required"`
}
