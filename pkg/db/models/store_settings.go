package models

import (
	"time"

	"github.com/angelmondragon/advanced-shipping/pkg/types"
)

// StoreSettingsID is the primary key of the single settings row.
const StoreSettingsID = 1

type StoreSettings struct {
	ID        int                    `gorm:"column:id;primaryKey;autoIncrement:false"`
	Document  types.SettingsDocument `gorm:"column:document;type:jsonb;not null"`
	UpdatedAt time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSettings) TableName() string { return "store_settings" }
