package combo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bloomkart/storefront-backend/internal/catalog"
	"github.com/bloomkart/storefront-backend/internal/pincode"
	"github.com/bloomkart/storefront-backend/pkg/cartapi"
	"github.com/bloomkart/storefront-backend/pkg/enums"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/metrics"
)

// MaxLineQuantity caps the quantity of a single line.
const MaxLineQuantity = 99

type variantSnapshotter interface {
	Snapshot(ctx context.Context, productID uuid.UUID, size enums.ProductSize, colorID string) (*catalog.VariantSnapshot, error)
}

type pincodeVerifier interface {
	Verify(ctx context.Context, code string) (pincode.Result, error)
}

// CartSubmitter hands a finalized combo to the cart backend.
type CartSubmitter interface {
	AddToCart(ctx context.Context, payload any) (*cartapi.Receipt, error)
}

// Service exposes the combo builder to the storefront.
type Service interface {
	Get(ctx context.Context, sessionID string) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	SetQuantity(ctx context.Context, sessionID string, ref ItemRef, quantity int) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, ref ItemRef) (*View, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
	SetPincode(ctx context.Context, sessionID, code string) (*View, error)
	VerifyPincode(ctx context.Context, sessionID, code string) (*Verification, error)
	SelectDelivery(ctx context.Context, sessionID, option string) (*View, error)
	Finalize(ctx context.Context, sessionID string, opts FinalizeOptions) (*FinalizeResult, error)
}

// AddItemInput identifies the product variant to add.
type AddItemInput struct {
	ProductID uuid.UUID
	Size      string
	ColorID   string
	Quantity  int
}

// ItemRef identifies an existing line.
type ItemRef struct {
	ProductID string
	Size      string
	ColorID   string
}

func (r ItemRef) key() (Key, error) {
	size, err := enums.ParseProductSize(r.Size)
	if err != nil {
		return Key{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
	}
	return KeyOf(r.ProductID, size, r.ColorID), nil
}

// Deps wires the collaborators of the combo service.
type Deps struct {
	Catalog   variantSnapshotter
	Verifier  pincodeVerifier
	Persister Persister
	// Cart is optional; without it Finalize only previews.
	Cart    CartSubmitter
	Pricing PricingConfig
	Logger  *logger.Logger
	Metrics *metrics.ComboMetrics
}

type service struct {
	catalog   variantSnapshotter
	verifier  pincodeVerifier
	persister Persister
	cart      CartSubmitter
	pricing   PricingConfig
	logg      *logger.Logger
	metrics   *metrics.ComboMetrics
	locks     *sessionLocks
	verifies  *generations
	newID     func() string
}

// NewService builds the combo service.
func NewService(deps Deps) (Service, error) {
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if deps.Verifier == nil {
		return nil, fmt.Errorf("pincode verifier required")
	}
	if deps.Persister == nil {
		return nil, fmt.Errorf("persister required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		catalog:   deps.Catalog,
		verifier:  deps.Verifier,
		persister: deps.Persister,
		cart:      deps.Cart,
		pricing:   deps.Pricing,
		logg:      deps.Logger,
		metrics:   deps.Metrics,
		locks:     newSessionLocks(),
		verifies:  newGenerations(),
		newID:     newComboProductID,
	}, nil
}

// withSession runs fn against the hydrated session while holding its lock.
func (s *service) withSession(ctx context.Context, sessionID string, fn func(ctx context.Context, session *Session) error) (*View, error) {
	sessionID = strings.TrimSpace(sessionID)
	if !ValidSessionID(sessionID) {
		return nil, ErrSessionRequired
	}
	unlock := s.locks.lock(sessionID)
	defer unlock()

	ctx = s.logg.WithSessionID(ctx, sessionID)
	session := OpenSession(ctx, sessionID, s.persister, s.pricing, s.logg, s.metrics)
	if fn != nil {
		if err := fn(ctx, session); err != nil {
			return nil, err
		}
	}
	return newView(sessionID, session.state, s.pricing), nil
}

func (s *service) Get(ctx context.Context, sessionID string) (*View, error) {
	return s.withSession(ctx, sessionID, nil)
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	if input.Quantity < 1 || input.Quantity > MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be between 1 and %d", MaxLineQuantity))
	}
	size, err := enums.ParseProductSize(input.Size)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid size")
	}
	// resolve outside the session lock; the catalog does not depend on session state
	snapshot, err := s.catalog.Snapshot(ctx, input.ProductID, size, input.ColorID)
	if err != nil {
		return nil, err
	}

	item := LineItem{
		ProductID: snapshot.ProductID.String(),
		Name:      snapshot.Name,
		Category:  snapshot.Category,
		Size:      snapshot.Size,
		Color:     snapshot.Color,
		UnitPrice: snapshot.UnitPrice,
		Quantity:  input.Quantity,
	}
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		if idx := session.state.Find(item.Key()); idx >= 0 && session.state.Items[idx].Quantity+item.Quantity > MaxLineQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("a combo line holds at most %d units", MaxLineQuantity))
		}
		session.Add(ctx, item)
		return nil
	})
}

func (s *service) SetQuantity(ctx context.Context, sessionID string, ref ItemRef, quantity int) (*View, error) {
	key, err := ref.key()
	if err != nil {
		return nil, err
	}
	if quantity > MaxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("quantity must be at most %d", MaxLineQuantity))
	}
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		session.SetQuantity(ctx, key, quantity)
		return nil
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, ref ItemRef) (*View, error) {
	key, err := ref.key()
	if err != nil {
		return nil, err
	}
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		session.Remove(ctx, key)
		return nil
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		session.Clear(ctx)
		return nil
	})
}

func (s *service) SetPincode(ctx context.Context, sessionID, code string) (*View, error) {
	code = strings.TrimSpace(code)
	if len(code) > pincode.Length {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, pincode.InvalidFormatMessage)
	}
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		session.SetPincode(ctx, code)
		return nil
	})
}

// VerifyPincode checks code and applies the outcome. The strategy runs
// without holding the session lock; its answer is dropped when the request
// was cancelled or a newer verification for the session started meanwhile.
func (s *service) VerifyPincode(ctx context.Context, sessionID, code string) (*Verification, error) {
	sessionID = strings.TrimSpace(sessionID)
	if !ValidSessionID(sessionID) {
		return nil, ErrSessionRequired
	}
	gen := s.verifies.begin(sessionID)
	defer s.verifies.end(sessionID, gen)

	result, err := s.verifier.Verify(ctx, code)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeStale) {
			s.metrics.IncVerification("stale")
		} else {
			s.metrics.IncVerification("error")
		}
		return nil, err
	}

	view, err := s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		if ctx.Err() != nil || !s.verifies.isCurrent(sessionID, gen) {
			return pincode.ErrStaleVerification
		}
		switch {
		case result.Reason == pincode.ReasonInvalidFormat:
			// rejected locally, nothing to record
		case result.Success:
			session.MarkVerified(ctx, result.Pincode, result.Category)
			return session.SelectDelivery(ctx, enums.DeliveryOptionStandard)
		default:
			session.MarkUnverified(ctx)
		}
		return nil
	})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeStale) {
			s.metrics.IncVerification("stale")
			s.logg.Warn(s.logg.WithSessionID(ctx, sessionID), "discarded stale pincode verification")
		}
		return nil, err
	}

	s.metrics.IncVerification(verificationLabel(result))
	return &Verification{Result: result, Combo: view}, nil
}

func verificationLabel(result pincode.Result) string {
	switch result.Reason {
	case pincode.ReasonInvalidFormat:
		return "invalid"
	case pincode.ReasonAvailable:
		return "available"
	default:
		return "unavailable"
	}
}

func (s *service) SelectDelivery(ctx context.Context, sessionID, option string) (*View, error) {
	parsed, err := enums.ParseDeliveryOption(option)
	if err != nil {
		return nil, ErrUnknownDeliveryOption
	}
	return s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		return session.SelectDelivery(ctx, parsed)
	})
}

// Finalize turns the combo into a single cart line. A successful submission
// clears the combo; a failed one leaves it untouched.
func (s *service) Finalize(ctx context.Context, sessionID string, opts FinalizeOptions) (*FinalizeResult, error) {
	var result *FinalizeResult
	view, err := s.withSession(ctx, sessionID, func(ctx context.Context, session *Session) error {
		if session.state.IsEmpty() {
			return ErrEmptyCombo
		}
		payload := BuildCartPayload(session.state, s.pricing, s.newID())
		result = &FinalizeResult{Payload: payload}

		if opts.DryRun || s.cart == nil {
			s.metrics.IncFinalize("preview")
			return nil
		}

		receipt, err := s.cart.AddToCart(ctx, payload)
		if err != nil {
			s.metrics.IncFinalize("failed")
			s.logg.Error(ctx, "combo submission failed", err)
			if pkgerrors.As(err) == nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit combo to cart")
			}
			return err
		}
		result.Submitted = true
		if receipt != nil {
			result.CartItemID = receipt.CartItemID
		}
		session.Clear(ctx)
		s.metrics.IncFinalize("submitted")
		ctx = s.logg.WithField(ctx, "combo_product_id", payload.ProductID)
		s.logg.Info(ctx, "combo submitted to cart")
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Combo = view
	return result, nil
}
