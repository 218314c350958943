package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// Product is a catalog listing offered on the storefront.
type Product struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name        string            `gorm:"column:name;not null"`
	Category    string            `gorm:"column:category;not null"`
	Description *string           `gorm:"column:description"`
	VariantKind enums.VariantKind `gorm:"column:variant_kind;not null;default:'fixed'"`
	Price       decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	SizePrices  *SizePrices       `gorm:"column:size_prices;type:jsonb;serializer:json"`
	Colors      types.Colors      `gorm:"column:colors;type:jsonb;serializer:json"`
	ImageURL    *string           `gorm:"column:image_url"`
	IsActive    bool              `gorm:"column:is_active;not null"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// SizePrices carries per-size pricing for sized products.
type SizePrices struct {
	Small  *decimal.Decimal `json:"small,omitempty"`
	Medium *decimal.Decimal `json:"medium,omitempty"`
	Large  *decimal.Decimal `json:"large,omitempty"`
}

// For returns the price configured for size, if any.
func (p *SizePrices) For(size enums.ProductSize) (decimal.Decimal, bool) {
	if p == nil {
		return decimal.Zero, false
	}
	var price *decimal.Decimal
	switch size {
	case enums.ProductSizeSmall:
		price = p.Small
	case enums.ProductSizeMedium:
		price = p.Medium
	case enums.ProductSizeLarge:
		price = p.Large
	}
	if price == nil {
		return decimal.Zero, false
	}
	return *price, true
}

// Empty reports whether no size carries a price.
func (p *SizePrices) Empty() bool {
	return p == nil || (p.Small == nil && p.Medium == nil && p.Large == nil)
}

func (Product) TableName() string {
	return "products"
}

// BeforeCreate assigns an id when the caller did not.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
