package combo

import (
	"context"

	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/metrics"
)

// Session owns one combo state and mirrors every mutation to its Persister.
// Persistence is best effort: failures are logged and counted, and the
// in-memory state stays authoritative for the current request.
//
// A Session is not safe for concurrent use; the service serializes access
// per session id.
type Session struct {
	id        string
	state     State
	persister Persister
	pricing   PricingConfig
	logg      *logger.Logger
	metrics   *metrics.ComboMetrics
}

// OpenSession hydrates the session from persister, falling back to the
// empty state when the slot is missing or unreadable.
func OpenSession(ctx context.Context, id string, persister Persister, pricing PricingConfig, logg *logger.Logger, m *metrics.ComboMetrics) *Session {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Session{
		id:        id,
		state:     NewState(),
		persister: persister,
		pricing:   pricing,
		logg:      logg,
		metrics:   m,
	}
	if persister == nil {
		return s
	}

	state, found, err := persister.Load(ctx, id)
	if err != nil {
		s.metrics.IncPersistenceFailure("load")
		s.logg.Error(ctx, "combo slot unreadable, starting empty", err)
		return s
	}
	if found {
		state.normalize(pricing.StandardDeliveryFee)
		s.state = state
	}
	return s
}

func (s *Session) ID() string {
	return s.id
}

// State returns a copy of the current state.
func (s *Session) State() State {
	return s.state.Clone()
}

// Quote prices the current state.
func (s *Session) Quote() Quote {
	return s.pricing.Quote(s.state)
}

func (s *Session) Add(ctx context.Context, item LineItem) {
	s.state.Add(item)
	s.persist(ctx, "add")
}

func (s *Session) Remove(ctx context.Context, key Key) {
	s.state.Remove(key)
	s.persist(ctx, "remove")
}

func (s *Session) SetQuantity(ctx context.Context, key Key, quantity int) {
	s.state.SetQuantity(key, quantity)
	s.persist(ctx, "set_quantity")
}

func (s *Session) SetPincode(ctx context.Context, code string) {
	s.state.SetPincode(code)
	s.persist(ctx, "set_pincode")
}

func (s *Session) MarkVerified(ctx context.Context, code, category string) {
	s.state.MarkVerified(code, category)
	s.persist(ctx, "verify_pincode")
}

func (s *Session) MarkUnverified(ctx context.Context) {
	s.state.MarkUnverified()
	s.persist(ctx, "verify_pincode")
}

// SelectDelivery applies the option with the configured standard fee.
func (s *Session) SelectDelivery(ctx context.Context, option enums.DeliveryOption) error {
	if err := s.state.SelectDelivery(option, s.pricing.StandardDeliveryFee); err != nil {
		return err
	}
	s.persist(ctx, "select_delivery")
	return nil
}

// Clear resets the state and removes the durable slot.
func (s *Session) Clear(ctx context.Context) {
	s.state.Reset()
	s.metrics.IncMutation("clear")
	if s.persister == nil {
		return
	}
	if err := s.persister.Clear(ctx, s.id); err != nil {
		s.metrics.IncPersistenceFailure("clear")
		s.logg.Error(ctx, "combo slot clear failed", err)
	}
}

func (s *Session) persist(ctx context.Context, op string) {
	s.metrics.IncMutation(op)
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, s.id, s.state); err != nil {
		s.metrics.IncPersistenceFailure("save")
		ctx = s.logg.WithField(ctx, "op", op)
		s.logg.Error(ctx, "combo slot save failed", err)
	}
}
