package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bloomkart/storefront-backend/api/responses"
	"github.com/bloomkart/storefront-backend/api/validators"
	"github.com/bloomkart/storefront-backend/internal/catalog"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/pagination"
	"github.com/bloomkart/storefront-backend/pkg/types"
)

// ListProducts serves the storefront catalog with search, filters and sorting.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		query := r.URL.Query()
		result, err := svc.List(r.Context(), catalog.ListInput{
			Query:    validators.SanitizeString(query.Get("q"), 100),
			Category: validators.SanitizeString(query.Get("category"), 64),
			Kind:     strings.TrimSpace(query.Get("kind")),
			Sort:     strings.TrimSpace(query.Get("sort")),
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(query.Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type upsertProductRequest struct {
	Name        string             `json:"name" validate:"required,max=120"`
	Category    string             `json:"category" validate:"required,max=64"`
	Description *string            `json:"description,omitempty" validate:"omitempty,max=2000"`
	VariantKind string             `json:"variant_kind" validate:"required,oneof=sized colored fixed"`
	Price       decimal.Decimal    `json:"price"`
	SizePrices  *models.SizePrices `json:"size_prices,omitempty"`
	Colors      types.Colors       `json:"colors,omitempty" validate:"omitempty,dive"`
	ImageURL    *string            `json:"image_url,omitempty" validate:"omitempty,url"`
	IsActive    *bool              `json:"is_active,omitempty"`
}

func (p upsertProductRequest) toInput() catalog.UpsertInput {
	return catalog.UpsertInput{
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		VariantKind: p.VariantKind,
		Price:       p.Price,
		SizePrices:  p.SizePrices,
		Colors:      p.Colors,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
	}
}

// AdminCreateProduct adds a product from the admin dashboard.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		var payload upsertProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct replaces a product. Lines already in a combo keep the
// price they were added with.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}
		id, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload upsertProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}
