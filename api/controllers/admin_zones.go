package controllers

import (
	"net/http"

	"github.com/bloomkart/storefront-backend/api/responses"
	"github.com/bloomkart/storefront-backend/api/validators"
	"github.com/bloomkart/storefront-backend/internal/zones"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/logger"
)

type zoneRequest struct {
	Name     string   `json:"name" validate:"required,max=80"`
	City     string   `json:"city" validate:"max=80"`
	Pincodes []string `json:"pincodes" validate:"required,min=1,max=5000,dive,pincode"`
	IsActive *bool    `json:"is_active,omitempty"`
}

func (z zoneRequest) toInput() zones.ZoneInput {
	return zones.ZoneInput{Name: z.Name, City: z.City, Pincodes: z.Pincodes, IsActive: z.IsActive}
}

func zoneServiceMissing(w http.ResponseWriter, r *http.Request, svc zones.Service, logg *logger.Logger) bool {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "zone service unavailable"))
		return true
	}
	return false
}

func AdminListZones(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if zoneServiceMissing(w, r, svc, logg) {
			return
		}
		includeInactive, err := boolQuery(r, "include_inactive")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), includeInactive)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if zoneServiceMissing(w, r, svc, logg) {
			return
		}
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zone)
	}
}

// AdminCreateZone adds a delivery zone. Pincodes already owned by another
// zone are rejected with a conflict listing them.
func AdminCreateZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if zoneServiceMissing(w, r, svc, logg) {
			return
		}
		var payload zoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, zone)
	}
}

func AdminUpdateZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if zoneServiceMissing(w, r, svc, logg) {
			return
		}
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload zoneRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		zone, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, zone)
	}
}

func AdminDeleteZone(svc zones.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if zoneServiceMissing(w, r, svc, logg) {
			return
		}
		id, err := uuidParam(r, "zoneId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
