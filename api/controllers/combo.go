package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/bloomkart/storefront-backend/api/middleware"
	"github.com/bloomkart/storefront-backend/api/responses"
	"github.com/bloomkart/storefront-backend/api/validators"
	"github.com/bloomkart/storefront-backend/internal/combo"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/logger"
)

type comboItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Size      string `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	ColorID   string `json:"color_id,omitempty" validate:"max=64"`
	Quantity  int    `json:"quantity" validate:"min=0,max=99"`
}

func (r comboItemRequest) ref() combo.ItemRef {
	return combo.ItemRef{ProductID: r.ProductID, Size: r.Size, ColorID: r.ColorID}
}

type comboItemRefRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Size      string `json:"size,omitempty" validate:"omitempty,oneof=small medium large"`
	ColorID   string `json:"color_id,omitempty" validate:"max=64"`
}

type pincodeRequest struct {
	Pincode string `json:"pincode" validate:"max=32"`
}

type deliveryRequest struct {
	Option string `json:"option" validate:"required"`
}

func comboSession(w http.ResponseWriter, r *http.Request, svc combo.Service, logg *logger.Logger) (string, bool) {
	if svc == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "combo service unavailable"))
		return "", false
	}
	id := middleware.ComboSessionFromContext(r.Context())
	if id == "" {
		responses.WriteError(r.Context(), logg, w, combo.ErrSessionRequired)
		return "", false
	}
	return id, true
}

func writeComboView(w http.ResponseWriter, r *http.Request, logg *logger.Logger, view *combo.View, err error) {
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return
	}
	responses.WriteSuccess(w, view)
}

// GetCombo returns the session's combo with its quote.
func GetCombo(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), sessionID)
		writeComboView(w, r, logg, view, err)
	}
}

// AddComboItem adds a catalog variant to the combo. The price is taken from
// the catalog, never from the request.
func AddComboItem(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload comboItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id"))
			return
		}
		quantity := payload.Quantity
		if quantity == 0 {
			quantity = 1
		}

		view, err := svc.AddItem(r.Context(), sessionID, combo.AddItemInput{
			ProductID: productID,
			Size:      payload.Size,
			ColorID:   payload.ColorID,
			Quantity:  quantity,
		})
		writeComboView(w, r, logg, view, err)
	}
}

// UpdateComboItem sets a line's quantity; zero removes the line.
func UpdateComboItem(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload comboItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetQuantity(r.Context(), sessionID, payload.ref(), payload.Quantity)
		writeComboView(w, r, logg, view, err)
	}
}

func RemoveComboItem(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload comboItemRefRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ref := combo.ItemRef{ProductID: payload.ProductID, Size: payload.Size, ColorID: payload.ColorID}
		view, err := svc.RemoveItem(r.Context(), sessionID, ref)
		writeComboView(w, r, logg, view, err)
	}
}

func ClearCombo(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		view, err := svc.Clear(r.Context(), sessionID)
		writeComboView(w, r, logg, view, err)
	}
}

// SetComboPincode records the pincode text as the customer types it.
func SetComboPincode(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload pincodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SetPincode(r.Context(), sessionID, payload.Pincode)
		writeComboView(w, r, logg, view, err)
	}
}

// VerifyComboPincode checks serviceability. An unavailable or malformed
// pincode is a normal outcome reported with success=false, not an error.
func VerifyComboPincode(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload pincodeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.VerifyPincode(r.Context(), sessionID, payload.Pincode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SelectComboDelivery(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		var payload deliveryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.SelectDelivery(r.Context(), sessionID, payload.Option)
		writeComboView(w, r, logg, view, err)
	}
}

// FinalizeCombo submits the combo as one cart line. With ?dry_run=true it only
// returns the payload.
func FinalizeCombo(svc combo.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, ok := comboSession(w, r, svc, logg)
		if !ok {
			return
		}
		dryRun, err := boolQuery(r, "dry_run")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Finalize(r.Context(), sessionID, combo.FinalizeOptions{DryRun: dryRun})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status := http.StatusOK
		if result.Submitted {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
