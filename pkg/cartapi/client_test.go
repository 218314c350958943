package cartapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

func TestNewClientRequiresBaseURL(t *testing.T) {
	if _, err := NewClient("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestAddToCartPostsPayload(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":42}}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL+"/api/", WithToken("secret"), WithTimeout(time.Second))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	receipt, err := client.AddToCart(context.Background(), map[string]any{"product_id": "combo-1", "isCombo": true})
	if err != nil {
		t.Fatalf("add to cart: %v", err)
	}
	if gotPath != "/api/cart" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody["product_id"] != "combo-1" || gotBody["isCombo"] != true {
		t.Fatalf("unexpected body %v", gotBody)
	}
	if receipt.StatusCode != http.StatusCreated || receipt.CartItemID != "42" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}
}

func TestAddToCartMapsFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "cart locked", http.StatusConflict)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)
	_, err := client.AddToCart(context.Background(), map[string]any{})
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	var nilClient *Client
	if _, err := nilClient.AddToCart(context.Background(), nil); !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error for nil client, got %v", err)
	}
}

func TestExtractID(t *testing.T) {
	cases := map[string]string{
		`{"id":"abc"}`:          "abc",
		`{"data":{"id":"xyz"}}`: "xyz",
		`not json`:              "",
		``:                      "",
	}
	for raw, want := range cases {
		if got := extractID([]byte(raw)); got != want {
			t.Fatalf("extractID(%q) = %q, want %q", raw, got, want)
		}
	}
}
