package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleRecord is an append-only entry written whenever stock is marked as sold
type SaleRecord struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	PartID    uint            `json:"part_id" gorm:"not null;index"`
	Part      *Part           `json:"part,omitempty" gorm:"foreignKey:PartID"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null"`
	SoldBy    uint            `json:"sold_by" gorm:"index"`
	CreatedAt time.Time       `json:"created_at" gorm:"index"`
}

// Total returns quantity times the unit price captured at sale time.
func (s SaleRecord) Total() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// SaleFilter narrows the sales history. Dates are UTC calendar days.
type SaleFilter struct {
	PartID uint      `form:"part_id"`
	From   time.Time `form:"from" time_format:"2006-01-02" time_utc:"1"`
	To     time.Time `form:"to" time_format:"2006-01-02" time_utc:"1"`
}
