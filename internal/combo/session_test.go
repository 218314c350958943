package combo

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/logger"
	"github.com/bloomkart/storefront-backend/pkg/metrics"
)

type failingPersister struct {
	loadErr, saveErr, clearErr error
	saves                      int
}

func (f *failingPersister) Load(context.Context, string) (State, bool, error) {
	return NewState(), false, f.loadErr
}

func (f *failingPersister) Save(context.Context, string, State) error {
	f.saves++
	return f.saveErr
}

func (f *failingPersister) Clear(context.Context, string) error {
	return f.clearErr
}

func TestSessionPersistsEveryMutation(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	session := OpenSession(ctx, "sess-1", persister, DefaultPricing(), logger.Nop(), nil)

	session.Add(ctx, rose(1))
	session.Add(ctx, redBalloon(2))
	session.SetQuantity(ctx, rose(1).Key(), 3)
	session.SetPincode(ctx, "400001")
	session.MarkVerified(ctx, "400001", "standard")
	require.NoError(t, session.SelectDelivery(ctx, enums.DeliveryOptionStandard))

	reopened := OpenSession(ctx, "sess-1", persister, DefaultPricing(), logger.Nop(), nil)
	assertStatesEqual(t, session.State(), reopened.State())
	assert.True(t, reopened.Quote().GrandTotal.Decimal().Equal(dec("1840")))

	session.Remove(ctx, redBalloon(1).Key())
	reopened = OpenSession(ctx, "sess-1", persister, DefaultPricing(), logger.Nop(), nil)
	assert.Len(t, reopened.State().Items, 1)

	session.Clear(ctx)
	_, ok := persister.Raw("sess-1")
	assert.False(t, ok, "clear removes the slot")
}

func TestSessionHydratesDefaultsFromCorruptSlot(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	persister.slots["sess-x"] = []byte("{{{")

	reg := prometheus.NewRegistry()
	m := metrics.NewComboMetrics(reg)
	session := OpenSession(ctx, "sess-x", persister, DefaultPricing(), logger.Nop(), m)

	assert.True(t, session.State().IsEmpty())
	assert.Equal(t, enums.DeliveryOptionNone, session.State().DeliveryOption)
	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "combo_persistence_failures_total", families[0].GetName())
	assert.Equal(t, float64(1), families[0].GetMetric()[0].GetCounter().GetValue())
}

func TestSessionSwallowsSaveFailures(t *testing.T) {
	ctx := context.Background()
	persister := &failingPersister{saveErr: errors.New("disk full"), clearErr: errors.New("gone")}
	session := OpenSession(ctx, "sess-2", persister, DefaultPricing(), logger.Nop(), nil)

	session.Add(ctx, rose(2))
	assert.Equal(t, 1, persister.saves)
	assert.Equal(t, 2, session.State().Items[0].Quantity, "memory stays authoritative")

	session.Clear(ctx)
	assert.True(t, session.State().IsEmpty())
}

func TestSessionLoadErrorStartsEmpty(t *testing.T) {
	persister := &failingPersister{loadErr: errors.New("timeout")}
	session := OpenSession(context.Background(), "sess-3", persister, DefaultPricing(), nil, nil)
	assert.True(t, session.State().IsEmpty())
	assert.Equal(t, "sess-3", session.ID())
}

func TestSessionStateIsACopy(t *testing.T) {
	ctx := context.Background()
	session := OpenSession(ctx, "sess-4", nil, DefaultPricing(), nil, nil)
	session.Add(ctx, rose(1))

	snapshot := session.State()
	snapshot.Items[0].Quantity = 50
	assert.Equal(t, 1, session.State().Items[0].Quantity)
}
