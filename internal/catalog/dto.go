package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/bloomkart/storefront-backend/pkg/db/models"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// ProductDTO is the API shape of a catalog product.
type ProductDTO struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Category    string            `json:"category"`
	Description *string           `json:"description,omitempty"`
	VariantKind enums.VariantKind `json:"variant_kind"`
	Price       types.Money       `json:"price"`
	SizePrices  *SizePricesDTO    `json:"size_prices,omitempty"`
	Colors      types.Colors      `json:"colors,omitempty"`
	ImageURL    *string           `json:"image_url,omitempty"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// SizePricesDTO lists the resolved price of every size.
type SizePricesDTO struct {
	Small  types.Money `json:"small"`
	Medium types.Money `json:"medium"`
	Large  types.Money `json:"large"`
}

// ListResult is one page of products.
type ListResult struct {
	Items      []ProductDTO `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// FromModel converts a product model to its API shape.
func FromModel(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		VariantKind: p.VariantKind,
		Price:       types.NewMoney(p.Price),
		Colors:      p.Colors,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.VariantKind == enums.VariantKindSized {
		dto.SizePrices = &SizePricesDTO{
			Small:  types.NewMoney(PriceFor(p, enums.ProductSizeSmall)),
			Medium: types.NewMoney(PriceFor(p, enums.ProductSizeMedium)),
			Large:  types.NewMoney(PriceFor(p, enums.ProductSizeLarge)),
		}
	}
	return dto
}
