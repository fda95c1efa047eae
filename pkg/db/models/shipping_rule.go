package models

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/enums"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// ShippingRule stores the restriction configured for one shipping method.
type ShippingRule struct {
	MethodID  string             `gorm:"column:method_id;primaryKey"`
	RuleType  enums.RuleType     `gorm:"column:rule_type;type:text;not null"`
	Document  types.RuleDocument `gorm:"column:document;type:jsonb;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShippingRule) TableName() string { return "shipping_rules" }
