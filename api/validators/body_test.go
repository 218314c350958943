package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

type zoneBody struct {
	Name     string   `json:"name" validate:"required,max=80"`
	Pincodes []string `json:"pincodes" validate:"required,min=1,dive,pincode"`
}

func TestDecodeJSONBodyAcceptsValidPayload(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mumbai","pincodes":["400001","400002"]}`))
	var body zoneBody
	if err := DecodeJSONBody(req, &body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body.Pincodes) != 2 {
		t.Fatalf("expected 2 pincodes, got %d", len(body.Pincodes))
	}
}

func TestDecodeJSONBodyRejectsBadPincode(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mumbai","pincodes":["40001"]}`))
	var body zoneBody
	err := DecodeJSONBody(req, &body)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := pkgerrors.As(err).Details().(map[string]string)
	if !ok {
		t.Fatalf("expected field details, got %#v", pkgerrors.As(err).Details())
	}
	if details["pincodes[0]"] != "enter a valid 6-digit pincode" {
		t.Fatalf("unexpected details %v", details)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Mumbai","pincodes":["400001"],"fee":10}`))
	var body zoneBody
	if err := DecodeJSONBody(req, &body); !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/?limit=30&bad=x&big=1000", nil)
	if v, err := ParseQueryInt(req, "limit", 24, 1, 100); err != nil || v != 30 {
		t.Fatalf("expected 30, got %d (%v)", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 24, 1, 100); err != nil || v != 24 {
		t.Fatalf("expected default, got %d (%v)", v, err)
	}
	if _, err := ParseQueryInt(req, "bad", 24, 1, 100); err == nil {
		t.Fatal("expected error for non-numeric value")
	}
	if _, err := ParseQueryInt(req, "big", 24, 1, 100); err == nil {
		t.Fatal("expected error for out-of-range value")
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("  roses and lilies  ", 5); got != "roses" {
		t.Fatalf("unexpected %q", got)
	}
}
