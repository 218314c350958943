package pincode

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bloomkart/storefront-backend/pkg/config"
	"github.com/bloomkart/storefront-backend/pkg/db/models"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

// DefaultThresholdLimit is the cut-off used by ThresholdStrategy.
const DefaultThresholdLimit = 500000

// ThresholdCategory labels pincodes accepted by ThresholdStrategy.
const ThresholdCategory = "standard"

// Verdict is the availability answer for one pincode.
type Verdict struct {
	Available bool
	// Category names the serviceable area, e.g. the delivery zone.
	Category string
	// Message overrides the default customer-facing text when set.
	Message string
}

// Strategy decides whether a well-formed pincode is serviceable.
type Strategy interface {
	Check(ctx context.Context, pincode string) (Verdict, error)
}

// StrategyFunc adapts a plain function to Strategy.
type StrategyFunc func(ctx context.Context, pincode string) (Verdict, error)

func (f StrategyFunc) Check(ctx context.Context, pincode string) (Verdict, error) {
	return f(ctx, pincode)
}

// ThresholdStrategy accepts every pincode numerically below Limit.
//
// This is the storefront's historical placeholder rule and has no known
// business basis. Deployments with real zone data should run ZoneStrategy.
type ThresholdStrategy struct {
	Limit int
}

func (t ThresholdStrategy) Check(_ context.Context, pincode string) (Verdict, error) {
	value, err := strconv.Atoi(pincode)
	if err != nil {
		return Verdict{}, fmt.Errorf("parse pincode %q: %w", pincode, err)
	}
	limit := t.Limit
	if limit <= 0 {
		limit = DefaultThresholdLimit
	}
	if value < limit {
		return Verdict{Available: true, Category: ThresholdCategory}, nil
	}
	return Verdict{Available: false}, nil
}

// ZoneFinder resolves the active delivery zone that owns a pincode.
type ZoneFinder interface {
	FindByPincode(ctx context.Context, pincode string) (*models.DeliveryZone, error)
}

// ZoneStrategy accepts pincodes that belong to an active delivery zone.
type ZoneStrategy struct {
	Zones ZoneFinder
}

func (z ZoneStrategy) Check(ctx context.Context, pincode string) (Verdict, error) {
	if z.Zones == nil {
		return Verdict{}, fmt.Errorf("zone finder not configured")
	}
	zone, err := z.Zones.FindByPincode(ctx, pincode)
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return Verdict{Available: false}, nil
	}
	if err != nil {
		return Verdict{}, err
	}
	if zone == nil || !zone.IsActive {
		return Verdict{Available: false}, nil
	}
	return Verdict{Available: true, Category: zone.Name}, nil
}

// NewStrategy picks the strategy named by BLOOMKART_PINCODE_STRATEGY.
func NewStrategy(cfg config.PincodeConfig, zones ZoneFinder) (Strategy, error) {
	switch cfg.NormalizedStrategy() {
	case "", config.PincodeStrategyThreshold:
		return ThresholdStrategy{Limit: cfg.ThresholdLimit}, nil
	case config.PincodeStrategyZones:
		if zones == nil {
			return nil, fmt.Errorf("zones strategy needs a zone finder")
		}
		return ZoneStrategy{Zones: zones}, nil
	default:
		return nil, fmt.Errorf("unknown pincode strategy %q", cfg.Strategy)
	}
}
