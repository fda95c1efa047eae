package models

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// OrderShippingDates records the dates promised when an order was placed.
// Zero dates are stored as NULL.
type OrderShippingDates struct {
	OrderID       string         `gorm:"column:order_id;primaryKey"`
	MethodID      string         `gorm:"column:method_id;not null"`
	RuleType      enums.RuleType `gorm:"column:rule_type;type:text;not null"`
	ShipByDate    types.Date     `gorm:"column:ship_by_date;type:date"`
	DeliverByDate types.Date     `gorm:"column:deliver_by_date;type:date"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (OrderShippingDates) TableName() string { return "order_shipping_dates" }
