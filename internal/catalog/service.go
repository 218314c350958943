package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/bloomkart/storefront-backend/pkg/db/models"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/pagination"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// Service exposes catalog reads for the storefront and writes for the admin dashboard.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Create(ctx context.Context, input UpsertInput) (*ProductDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*ProductDTO, error)
	Snapshot(ctx context.Context, productID uuid.UUID, size enums.ProductSize, colorID string) (*VariantSnapshot, error)
}

type service struct {
	repo ProductRepository
}

// NewService builds a catalog service backed by repo.
func NewService(repo ProductRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

// ListInput captures storefront listing parameters.
type ListInput struct {
	Query           string
	Category        string
	Kind            string
	Sort            string
	IncludeInactive bool
	pagination.Params
}

// UpsertInput is the admin payload for creating or replacing a product.
type UpsertInput struct {
	Name        string
	Category    string
	Description *string
	VariantKind string
	Price       decimal.Decimal
	SizePrices  *models.SizePrices
	Colors      types.Colors
	ImageURL    *string
	IsActive    *bool
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	offset, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	var kind enums.VariantKind
	if strings.TrimSpace(input.Kind) != "" {
		if kind, err = enums.ParseVariantKind(input.Kind); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant kind")
		}
	}
	sort := strings.ToLower(strings.TrimSpace(input.Sort))
	if sort == "" {
		sort = SortNewest
	}
	if _, ok := orderClauses[sort]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort").
			WithDetails(map[string]any{"allowed": []string{SortNewest, SortPriceAsc, SortPriceDesc, SortName}})
	}

	limit := pagination.NormalizeLimit(input.Limit)
	products, err := s.repo.List(ctx, ListFilter{
		Query:           input.Query,
		Category:        input.Category,
		Kind:            kind,
		IncludeInactive: input.IncludeInactive,
		Sort:            sort,
		Limit:           pagination.LimitWithBuffer(limit),
		Offset:          offset,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	result := &ListResult{Items: make([]ProductDTO, 0, len(products))}
	if len(products) > limit {
		products = products[:limit]
		result.NextCursor = pagination.EncodeCursor(offset + limit)
	}
	for i := range products {
		result.Items = append(result.Items, FromModel(&products[i]))
	}
	return result, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*ProductDTO, error) {
	product := &models.Product{IsActive: true}
	if err := applyUpsert(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := FromModel(product)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyUpsert(product, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := FromModel(product)
	return &dto, nil
}

// Snapshot validates a customization and captures name, category and price.
func (s *service) Snapshot(ctx context.Context, productID uuid.UUID, size enums.ProductSize, colorID string) (*VariantSnapshot, error) {
	product, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	return VariantFor(product, size, strings.TrimSpace(colorID))
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func applyUpsert(product *models.Product, input UpsertInput) error {
	name := strings.TrimSpace(input.Name)
	category := strings.TrimSpace(input.Category)
	if name == "" || category == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name and category are required")
	}
	kind, err := enums.ParseVariantKind(input.VariantKind)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid variant kind")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	sizePrices := input.SizePrices
	colors := input.Colors
	switch kind {
	case enums.VariantKindSized:
		if len(colors) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "sized products cannot carry colours")
		}
		if err := validateSizePrices(sizePrices); err != nil {
			return err
		}
	case enums.VariantKindColored:
		if !sizePrices.Empty() {
			return pkgerrors.New(pkgerrors.CodeValidation, "coloured products cannot carry size prices")
		}
		if err := validateColors(colors); err != nil {
			return err
		}
		sizePrices = nil
	default:
		if !sizePrices.Empty() || len(colors) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "fixed products have no size or colour options")
		}
		sizePrices = nil
	}
	if sizePrices.Empty() {
		sizePrices = nil
	}

	product.Name = name
	product.Category = category
	product.Description = input.Description
	product.VariantKind = kind
	product.Price = input.Price
	product.SizePrices = sizePrices
	product.Colors = colors
	product.ImageURL = input.ImageURL
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	return nil
}

func validateSizePrices(prices *models.SizePrices) error {
	if prices == nil {
		return nil
	}
	for _, price := range []*decimal.Decimal{prices.Small, prices.Medium, prices.Large} {
		if price != nil && price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "size prices must be non-negative")
		}
	}
	return nil
}

func validateColors(colors types.Colors) error {
	if len(colors) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "coloured products need at least one colour")
	}
	seen := map[string]struct{}{}
	for _, color := range colors {
		id := strings.ToLower(strings.TrimSpace(color.ID))
		if id == "" || strings.TrimSpace(color.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "every colour needs an id and a name")
		}
		if _, dup := seen[id]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "colour ids must be unique").
				WithDetails(map[string]any{"color_id": color.ID})
		}
		seen[id] = struct{}{}
	}
	return nil
}
