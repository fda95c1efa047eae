package models

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// Holiday is a store-wide non-working date.
type Holiday struct {
	Date      types.Date `gorm:"column:holiday_date;primaryKey;type:date"`
	Label     string     `gorm:"column:label;not null;default:''"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (Holiday) TableName() string { return "holidays" }
