package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part represents an inventory line item
type Part struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	Brand         string          `json:"brand" gorm:"size:120;not null;index"`
	Model         string          `json:"model" gorm:"size:160;not null"`
	Category      string          `json:"category" gorm:"size:80;not null;index"`
	Unit          string          `json:"unit" gorm:"size:80;not null;index"`
	Price         decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Availability  int             `json:"availability" gorm:"not null;default:0"`
	AddedQuantity int             `json:"added_quantity" gorm:"not null;default:0"`
	SoldQuantity  int             `json:"sold_quantity" gorm:"not null;default:0"`
	IsArchived    bool            `json:"is_archived" gorm:"not null;default:false;index"`
	PartViews     int             `json:"part_views" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"modified"`
}

// PartInput holds data for creating/updating a part
type PartInput struct {
	Brand        string           `json:"brand" binding:"required"`
	Model        string           `json:"model" binding:"required"`
	Category     string           `json:"category" binding:"required"`
	Unit         string           `json:"unit" binding:"required"`
	Availability *int             `json:"availability" binding:"required"`
	Price        *decimal.Decimal `json:"price" binding:"required"`
}

// StockInput is the body of add-stock and mark-as-sold requests
type StockInput struct {
	Quantity int `json:"quantity" binding:"required"`
}

// BulkIDsInput selects several parts at once
type BulkIDsInput struct {
	IDs []uint `json:"ids" binding:"required"`
}

// Archive filter values for PartFilter.Archived
const (
	ArchivedExclude = "false"
	ArchivedOnly    = "true"
	ArchivedAll     = "all"
)

// PartFilter narrows and orders a part listing
type PartFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Unit     string `form:"unit"`
	Archived string `form:"archived"`
	Sort     string `form:"sort"`
	Order    string `form:"order"`
}
