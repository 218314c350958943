package pincode

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

type countingStrategy struct {
	calls   int
	verdict Verdict
	err     error
}

func (c *countingStrategy) Check(context.Context, string) (Verdict, error) {
	c.calls++
	return c.verdict, c.err
}

func TestVerifyRejectsMalformedWithoutCallingStrategy(t *testing.T) {
	strategy := &countingStrategy{verdict: Verdict{Available: true}}
	verifier, err := NewVerifier(strategy, time.Second)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	for _, code := range []string{"12345", "1234567", "12a456"} {
		result, err := verifier.Verify(context.Background(), code)
		if err != nil {
			t.Fatalf("Verify(%q) returned error: %v", code, err)
		}
		if result.Success || result.Reason != ReasonInvalidFormat || result.Message != InvalidFormatMessage {
			t.Fatalf("Verify(%q) unexpected result %+v", code, result)
		}
	}
	if strategy.calls != 0 {
		t.Fatalf("strategy should not be called for malformed input, got %d calls", strategy.calls)
	}
}

func TestVerifyThresholdScenarios(t *testing.T) {
	verifier, err := NewVerifier(ThresholdStrategy{}, time.Second)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	ok, err := verifier.Verify(context.Background(), "400001")
	if err != nil {
		t.Fatalf("verify 400001: %v", err)
	}
	if !ok.Success || ok.Category != ThresholdCategory || ok.Pincode != "400001" {
		t.Fatalf("expected 400001 to be available, got %+v", ok)
	}

	no, err := verifier.Verify(context.Background(), "600001")
	if err != nil {
		t.Fatalf("verify 600001: %v", err)
	}
	if no.Success || no.Reason != ReasonUnavailable || no.Message == "" {
		t.Fatalf("expected 600001 to be unavailable, got %+v", no)
	}

	edge, _ := verifier.Verify(context.Background(), "500000")
	if edge.Success {
		t.Fatal("500000 is not below the limit")
	}
}

func TestVerifyUsesStrategyMessage(t *testing.T) {
	verifier, _ := NewVerifier(StrategyFunc(func(context.Context, string) (Verdict, error) {
		return Verdict{Available: false, Message: "monsoon closure"}, nil
	}), 0)
	result, err := verifier.Verify(context.Background(), "110001")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Message != "monsoon closure" {
		t.Fatalf("expected strategy message, got %q", result.Message)
	}
}

func TestVerifyStaleWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	verifier, _ := NewVerifier(StrategyFunc(func(context.Context, string) (Verdict, error) {
		cancel()
		return Verdict{Available: true}, nil
	}), time.Second)

	_, err := verifier.Verify(ctx, "400001")
	if !pkgerrors.IsCode(err, pkgerrors.CodeStale) {
		t.Fatalf("expected stale error, got %v", err)
	}
}

func TestVerifyTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)
	verifier, _ := NewVerifier(StrategyFunc(func(ctx context.Context, _ string) (Verdict, error) {
		select {
		case <-release:
		case <-time.After(time.Second):
		}
		return Verdict{Available: true}, nil
	}), 20*time.Millisecond)

	_, err := verifier.Verify(context.Background(), "400001")
	if !pkgerrors.IsCode(err, pkgerrors.CodeTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
}

func TestVerifyDependencyFailure(t *testing.T) {
	verifier, _ := NewVerifier(&countingStrategy{err: errors.New("boom")}, time.Second)
	_, err := verifier.Verify(context.Background(), "400001")
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

type fakeZones struct {
	zones map[string]*models.DeliveryZone
}

func (f fakeZones) FindByPincode(_ context.Context, code string) (*models.DeliveryZone, error) {
	zone, ok := f.zones[code]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no zone")
	}
	return zone, nil
}

func TestZoneStrategy(t *testing.T) {
	zones := fakeZones{zones: map[string]*models.DeliveryZone{
		"560034": {Name: "Bengaluru South", IsActive: true},
		"560001": {Name: "Bengaluru Central", IsActive: false},
	}}
	strategy := ZoneStrategy{Zones: zones}

	verdict, err := strategy.Check(context.Background(), "560034")
	if err != nil || !verdict.Available || verdict.Category != "Bengaluru South" {
		t.Fatalf("unexpected verdict %+v err %v", verdict, err)
	}
	verdict, err = strategy.Check(context.Background(), "560001")
	if err != nil || verdict.Available {
		t.Fatalf("inactive zone should not be serviceable: %+v %v", verdict, err)
	}
	verdict, err = strategy.Check(context.Background(), "999999")
	if err != nil || verdict.Available {
		t.Fatalf("unknown pincode should not be serviceable: %+v %v", verdict, err)
	}
}

func TestNewStrategy(t *testing.T) {
	s, err := NewStrategy(config.PincodeConfig{Strategy: "Threshold", ThresholdLimit: 300000}, nil)
	if err != nil {
		t.Fatalf("threshold: %v", err)
	}
	if th, ok := s.(ThresholdStrategy); !ok || th.Limit != 300000 {
		t.Fatalf("expected threshold strategy with limit, got %#v", s)
	}
	if _, err := NewStrategy(config.PincodeConfig{Strategy: "zones"}, nil); err == nil {
		t.Fatal("zones strategy without a finder should fail")
	}
	if _, err := NewStrategy(config.PincodeConfig{Strategy: "zones"}, fakeZones{}); err != nil {
		t.Fatalf("zones: %v", err)
	}
	if _, err := NewStrategy(config.PincodeConfig{Strategy: "geo"}, nil); err == nil {
		t.Fatal("unknown strategy should fail")
	}
}
