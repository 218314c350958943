package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeRateStore struct {
	counts map[string]int64
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func verifyRequest(ip, session string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/combo/pincode/verify", strings.NewReader(`{"pincode":"400001"}`))
	req.RemoteAddr = ip + ":1234"
	return req.WithContext(WithComboSession(req.Context(), session))
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("pincode", time.Minute, 3, 3)
	handler := RateLimit(policy, store, nil)(okHandler())

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, verifyRequest("10.0.0.1", "session-0001"))
		if resp.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, resp.Code)
		}
	}
}

func TestRateLimitSessionLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("pincode", time.Minute, 100, 2)
	handler := RateLimit(policy, store, nil)(okHandler())

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		handler.ServeHTTP(last, verifyRequest("10.0.0.1", "session-0001"))
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After header, got %q", last.Header().Get("Retry-After"))
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, verifyRequest("10.0.0.1", "session-0002"))
	if resp.Code != http.StatusOK {
		t.Fatalf("other session should pass, got %d", resp.Code)
	}
}

func TestRateLimitIPLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := NewRateLimitPolicy("pincode", time.Minute, 1, 0)
	handler := RateLimit(policy, store, nil)(okHandler())

	handler.ServeHTTP(httptest.NewRecorder(), verifyRequest("10.0.0.9", "session-0001"))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, verifyRequest("10.0.0.9", "session-0002"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if _, ok := store.counts["pincode:ip:10.0.0.9"]; !ok {
		t.Fatalf("expected ip scope key, got %v", store.counts)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := RateLimit(NewRateLimitPolicy("pincode", 0, 1, 1), newFakeRateStore(), nil)(okHandler())
	for i := 0; i < 5; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, verifyRequest("10.0.0.1", "session-0001"))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
}
