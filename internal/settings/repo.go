package settings

import (
	"context"
	"errors"

	"github.com/angelmondragon/advanced-shipping/internal/repo"
	"github.com/angelmondragon/advanced-shipping/pkg/db/models"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository encapsulates rule, holiday and store settings persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a settings repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Transaction runs fn with a repository bound to a single transaction.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.Base.Transaction(ctx, func(tx repo.Base) error {
		return fn(&Repository{Base: tx})
	})
}

// ListRules returns every stored rule ordered by method id.
func (r *Repository) ListRules(ctx context.Context) ([]models.ShippingRule, error) {
	var rules []models.ShippingRule
	if err := r.DB(ctx).Order("method_id ASC").Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// ReplaceRules swaps the full rule set.
func (r *Repository) ReplaceRules(ctx context.Context, rules []models.ShippingRule) error {
	return repo.ReplaceAll(ctx, r.Base, rules)
}

// UpdateRuleDocument rewrites a single rule's document.
func (r *Repository) UpdateRuleDocument(ctx context.Context, methodID string, doc types.RuleDocument) error {
	return r.DB(ctx).
		Model(&models.ShippingRule{}).
		Where("method_id = ?", methodID).
		Update("document", doc).
		Error
}

// DeleteRules removes the rules for the given methods.
func (r *Repository) DeleteRules(ctx context.Context, methodIDs []string) error {
	if len(methodIDs) == 0 {
		return nil
	}
	return r.DB(ctx).
		Where("method_id IN ?", methodIDs).
		Delete(&models.ShippingRule{}).
		Error
}

// ListHolidays returns holidays in calendar order.
func (r *Repository) ListHolidays(ctx context.Context) ([]models.Holiday, error) {
	var holidays []models.Holiday
	if err := r.DB(ctx).Order("holiday_date ASC").Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

// ReplaceHolidays swaps the full holiday list.
func (r *Repository) ReplaceHolidays(ctx context.Context, holidays []models.Holiday) error {
	return repo.ReplaceAll(ctx, r.Base, holidays)
}

// GetSettings returns the stored settings document. ok is false when nothing
// has been saved yet.
func (r *Repository) GetSettings(ctx context.Context) (types.SettingsDocument, bool, error) {
	var row models.StoreSettings
	err := r.DB(ctx).Where("id = ?", models.StoreSettingsID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.SettingsDocument{}, false, nil
	}
	if err != nil {
		return types.SettingsDocument{}, false, err
	}
	return row.Document, true, nil
}

// SaveSettings upserts the settings document.
func (r *Repository) SaveSettings(ctx context.Context, doc types.SettingsDocument) error {
	row := models.StoreSettings{ID: models.StoreSettingsID, Document: doc}
	return r.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
		}).
		Create(&row).
		Error
}
