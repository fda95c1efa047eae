package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories.
type Base struct {
	db *gorm.DB
}

// NewBase constructs a Base repository backed by the provided GORM connection.
func NewBase(db *gorm.DB) Base {
	return Base{db: db}
}

// DB returns the GORM connection bound to the supplied context (if any).
func (b Base) DB(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return b.db
	}
	return b.db.WithContext(ctx)
}

// Transaction runs fn with a Base bound to a single transaction. Any error
// returned by fn rolls the transaction back.
func (b Base) Transaction(ctx context.Context, fn func(tx Base) error) error {
	return b.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewBase(tx))
	})
}

// ReplaceAll deletes every row in T's table and inserts rows. Callers that
// need atomicity run it inside Transaction.
func ReplaceAll[T any](ctx context.Context, b Base, rows []T) error {
	db := b.DB(ctx)
	var zero T
	if err := db.Where("1 = 1").Delete(&zero).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.Create(&rows).Error
}
