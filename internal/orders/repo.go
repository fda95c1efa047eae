package orders

import (
	"context"
	"errors"

	"github.com/angelmondragon/advanced-shipping/internal/repo"
	"github.com/angelmondragon/advanced-shipping/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when an order has no stamped shipping dates.
var ErrNotFound = errors.New("order shipping dates not found")

// Repository persists the dates promised per order.
type Repository struct {
	repo.Base
}

// NewRepository constructs an order dates repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Upsert writes the dates for an order, replacing any earlier stamp.
func (r *Repository) Upsert(ctx context.Context, row models.OrderShippingDates) error {
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"method_id", "rule_type", "ship_by_date", "deliver_by_date", "updated_at"}),
		}).
		Create(&row).
		Error
}

// Get returns the stamped dates for orderID.
func (r *Repository) Get(ctx context.Context, orderID string) (models.OrderShippingDates, error) {
	var row models.OrderShippingDates
	err := r.DB(ctx).Where("order_id = ?", orderID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.OrderShippingDates{}, ErrNotFound
	}
	return row, err
}

// UpdateDates rewrites both date columns; zero dates are stored as NULL.
func (r *Repository) UpdateDates(ctx context.Context, row models.OrderShippingDates) error {
	return r.DB(ctx).
		Model(&models.OrderShippingDates{}).
		Where("order_id = ?", row.OrderID).
		Updates(map[string]any{
			"ship_by_date":    row.ShipByDate,
			"deliver_by_date": row.DeliverByDate,
		}).
		Error
}
