package repo

import (
	"context"

	"gorm.io/gorm"
)

// Base provides a shared foundation for the catalog and zone repositories.
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

// With returns a copy of the base bound to tx, so repository methods can run
// inside a caller-owned transaction.
func (b Base) With(tx *gorm.DB) Base {
	if tx == nil {
		return b
	}
	return Base{db: tx}
}

// Transaction runs fn in a transaction on the bound connection.
func (b Base) Transaction(ctx context.Context, fn func(tx Base) error) error {
	return b.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Base{db: tx})
	})
}
