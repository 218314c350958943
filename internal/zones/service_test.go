package zones

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bloomkart/storefront-backend/internal/pincode"
	"github.com/bloomkart/storefront-backend/internal/repo"
	"github.com/bloomkart/storefront-backend/pkg/db/dbtest"
	pkgerrors "github.com/bloomkart/storefront-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	client := dbtest.Open(t)
	svc, err := NewService(NewRepository(repo.NewBase(client.DB())))
	require.NoError(t, err)
	return svc
}

func TestCreateZoneNormalizesPincodes(t *testing.T) {
	svc := newTestService(t)

	zone, err := svc.Create(context.Background(), ZoneInput{
		Name:     " Bengaluru South ",
		City:     "Bengaluru",
		Pincodes: []string{"560041", " 560034", "560041"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bengaluru South", zone.Name)
	assert.Equal(t, []string{"560034", "560041"}, zone.Pincodes)
	assert.True(t, zone.IsActive)

	got, err := svc.Get(context.Background(), zone.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"560034", "560041"}, got.Pincodes)
}

func TestCreateZoneRejectsBadInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ZoneInput{Name: "North", City: "Delhi", Pincodes: []string{"11000"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Create(ctx, ZoneInput{Name: "", City: "Delhi"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestPincodeBelongsToOneZone(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400001"}})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ZoneInput{Name: "Fort", City: "Mumbai", Pincodes: []string{"400001", "400002"}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
	details, ok := pkgerrors.As(err).Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"400001"}, details["pincodes"])

	_, err = svc.Create(ctx, ZoneInput{Name: "Central", City: "Pune"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))
}

func TestUpdateReplacesPincodes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	zone, err := svc.Create(ctx, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400001", "400002"}})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.Update(ctx, zone.ID, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400002", "400003"}, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, []string{"400002", "400003"}, updated.Pincodes)
	assert.False(t, updated.IsActive)

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = svc.Update(ctx, uuid.New(), ZoneInput{Name: "x", City: "y"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestFindByPincodeOnlyActiveZones(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400001"}})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Create(ctx, ZoneInput{Name: "Closed", City: "Mumbai", Pincodes: []string{"400099"}, IsActive: &inactive})
	require.NoError(t, err)

	zone, err := svc.FindByPincode(ctx, "400001")
	require.NoError(t, err)
	assert.Equal(t, "Central", zone.Name)

	_, err = svc.FindByPincode(ctx, "400099")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = svc.FindByPincode(ctx, "12a456")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestZoneStrategyAgainstDatabase(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ZoneInput{Name: "Bengaluru South", City: "Bengaluru", Pincodes: []string{"560034"}})
	require.NoError(t, err)

	verifier, err := pincode.NewVerifier(pincode.ZoneStrategy{Zones: svc}, 0)
	require.NoError(t, err)

	ok, err := verifier.Verify(ctx, "560034")
	require.NoError(t, err)
	assert.True(t, ok.Success)
	assert.Equal(t, "Bengaluru South", ok.Category)

	no, err := verifier.Verify(ctx, "110001")
	require.NoError(t, err)
	assert.False(t, no.Success)
}

func TestDeleteAndUpsert(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, isNew, err := svc.UpsertByName(ctx, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400001"}})
	require.NoError(t, err)
	assert.True(t, isNew)

	again, isNew, err := svc.UpsertByName(ctx, ZoneInput{Name: "Central", City: "Mumbai", Pincodes: []string{"400001", "400005"}})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, created.ID, again.ID)
	assert.Len(t, again.Pincodes, 2)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.True(t, pkgerrors.IsCode(svc.Delete(ctx, created.ID), pkgerrors.CodeNotFound))

	// freed pincodes can be reused
	_, err = svc.Create(ctx, ZoneInput{Name: "Fort", City: "Mumbai", Pincodes: []string{"400001"}})
	require.NoError(t, err)
}
