package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/bloomkart/storefront-backend/internal/repo"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
	"github.com/bloomkart/storefront-backend/pkg/enums"
)

// Sort orders accepted by List.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

var orderClauses = map[string]string{
	SortNewest:    "created_at DESC, id DESC",
	SortPriceAsc:  "price ASC, id ASC",
	SortPriceDesc: "price DESC, id ASC",
	SortName:      "LOWER(name) ASC, id ASC",
}

// ProductRepository defines persistence for catalog products.
type ProductRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
}

// ListFilter narrows a product listing.
type ListFilter struct {
	Query           string
	Category        string
	Kind            enums.VariantKind
	IncludeInactive bool
	Sort            string
	Limit           int
	Offset          int
}

// Repository is the gorm-backed ProductRepository.
type Repository struct {
	repo.Base
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(base repo.Base) *Repository {
	return &Repository{Base: base}
}

func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	query := r.DB(ctx).Model(&models.Product{})
	if !filter.IncludeInactive {
		query = query.Where("is_active = ?", true)
	}
	if term := strings.ToLower(strings.TrimSpace(filter.Query)); term != "" {
		like := "%" + escapeLike(term) + "%"
		query = query.Where("(LOWER(name) LIKE ? ESCAPE '\\' OR LOWER(category) LIKE ? ESCAPE '\\')", like, like)
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		query = query.Where("LOWER(category) = ?", strings.ToLower(category))
	}
	if filter.Kind != "" {
		query = query.Where("variant_kind = ?", filter.Kind)
	}

	order, ok := orderClauses[filter.Sort]
	if !ok {
		order = orderClauses[SortNewest]
	}
	query = query.Order(order)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Create(product).Error
}

func (r *Repository) Update(ctx context.Context, product *models.Product) error {
	return r.DB(ctx).Save(product).Error
}

func escapeLike(term string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(term)
}
