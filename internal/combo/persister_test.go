package combo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/storefront-backend/pkg/enums"
	"github.com/bloomkart/storefront-backend/pkg/redis"
)

type fakeSlots struct {
	values  map[string]string
	ttls    map[string]time.Duration
	failGet error
	failSet error
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeSlots) Get(_ context.Context, key string) (string, error) {
	if f.failGet != nil {
		return "", f.failGet
	}
	v, ok := f.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (f *fakeSlots) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	if f.failSet != nil {
		return f.failSet
	}
	f.values[key] = value.(string)
	f.ttls[key] = ttl
	return nil
}

func (f *fakeSlots) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

func (f *fakeSlots) ComboSessionKey(id string) string {
	return "bk:combo_session:" + id
}

func sampleState() State {
	state := NewState()
	state.Add(rose(3))
	state.Add(redBalloon(1))
	state.MarkVerified("400001", "standard")
	_ = state.SelectDelivery(enums.DeliveryOptionStandard, dec("199"))
	return state
}

func assertStatesEqual(t *testing.T, want, got State) {
	t.Helper()
	require.Len(t, got.Items, len(want.Items))
	for i := range want.Items {
		w, g := want.Items[i], got.Items[i]
		assert.Equal(t, w.Key(), g.Key())
		assert.Equal(t, w.Name, g.Name)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Color, g.Color)
		assert.Equal(t, w.Quantity, g.Quantity)
		assert.True(t, w.UnitPrice.Equal(g.UnitPrice), "unit price %s != %s", w.UnitPrice, g.UnitPrice)
	}
	assert.Equal(t, want.Pincode, got.Pincode)
	assert.Equal(t, want.PincodeVerified, got.PincodeVerified)
	assert.Equal(t, want.DeliveryOption, got.DeliveryOption)
	assert.Equal(t, want.DeliveryCategory, got.DeliveryCategory)
	assert.True(t, want.DeliveryCharge.Equal(got.DeliveryCharge))
}

func TestEncodeUsesSlotFieldNames(t *testing.T) {
	raw, err := Encode(sampleState())
	require.NoError(t, err)
	for _, field := range []string{`"comboItems"`, `"pincode"`, `"pincodeVerified"`, `"deliveryOption"`, `"deliveryCategory"`, `"deliveryCharges"`, `"variantSize"`, `"variantColor"`} {
		assert.Contains(t, string(raw), field)
	}

	empty, err := Encode(State{})
	require.NoError(t, err)
	assert.Contains(t, string(empty), `"comboItems":[]`)
}

func TestDecodeAcceptsNumericPrices(t *testing.T) {
	state, err := Decode([]byte(`{"comboItems":[{"productId":"p1","unitPrice":499.5,"quantity":2}],"deliveryCharges":0}`))
	require.NoError(t, err)
	require.Len(t, state.Items, 1)
	assert.True(t, state.Items[0].UnitPrice.Equal(dec("499.5")))
	assert.Equal(t, enums.DeliveryOptionNone, state.DeliveryOption)
}

func TestMemoryPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	persister := NewMemoryPersister()
	want := sampleState()

	require.NoError(t, persister.Save(ctx, "sess-1", want))
	got, found, err := persister.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.True(t, found)
	assertStatesEqual(t, want, got)

	require.NoError(t, persister.Clear(ctx, "sess-1"))
	_, found, err = persister.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisPersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	slots := newFakeSlots()
	persister, err := NewRedisPersister(slots, 48*time.Hour)
	require.NoError(t, err)
	want := sampleState()

	require.NoError(t, persister.Save(ctx, "sess-9", want))
	assert.Equal(t, 48*time.Hour, slots.ttls["bk:combo_session:sess-9"])

	got, found, err := persister.Load(ctx, "sess-9")
	require.NoError(t, err)
	require.True(t, found)
	assertStatesEqual(t, want, got)

	require.NoError(t, persister.Clear(ctx, "sess-9"))
	_, found, err = persister.Load(ctx, "sess-9")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisPersisterSurfacesErrors(t *testing.T) {
	ctx := context.Background()
	slots := newFakeSlots()
	persister, _ := NewRedisPersister(slots, time.Hour)

	slots.values["bk:combo_session:bad"] = "{not json"
	state, found, err := persister.Load(ctx, "bad")
	assert.Error(t, err)
	assert.True(t, found)
	assert.True(t, state.IsEmpty())

	slots.failGet = errors.New("conn reset")
	_, _, err = persister.Load(ctx, "bad")
	assert.Error(t, err)

	slots.failSet = errors.New("oom")
	assert.Error(t, persister.Save(ctx, "x", NewState()))

	_, err = NewRedisPersister(nil, time.Hour)
	assert.Error(t, err)
}
