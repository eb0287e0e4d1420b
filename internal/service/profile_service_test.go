package service_test

import (
	"testing"

	"shop-service/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProfileService(t *testing.T) {
	f := setupFixture(t)
	profiles := service.NewProfileService(f.repo, zap.NewNop())
	u := f.user(t, true)
	ctx := ctxFor(u)

	me, err := profiles.Me(ctx)
	require.NoError(t, err)
	assert.False(t, me.HasAddress)

	_, err = profiles.CreateAddress(ctx, service.AddressInput{Province: "P", City: "C", Street: "S", PostalCode: "123", No: "1"})
	assert.ErrorIs(t, err, service.ErrValidation)

	a1, err := profiles.CreateAddress(ctx, service.AddressInput{Province: "P", City: "C", Street: "S", PostalCode: "1234567890", No: "1", IsDefault: true})
	require.NoError(t, err)
	a2, err := profiles.CreateAddress(ctx, service.AddressInput{Province: "P", City: "C", Street: "S2", PostalCode: "1234567890", No: "2", IsDefault: true})
	require.NoError(t, err)

	list, err := profiles.ListAddresses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, a2.ID, list[0].ID, "newest default goes first")
	assert.False(t, list[1].IsDefault)

	require.NoError(t, profiles.SetDefaultAddress(ctx, a1.ID))
	list, err = profiles.ListAddresses(ctx)
	require.NoError(t, err)
	assert.Equal(t, a1.ID, list[0].ID)

	other := f.user(t, true)
	assert.ErrorIs(t, profiles.SetDefaultAddress(ctxFor(other), a1.ID), service.ErrAddressNotFound)
	assert.ErrorIs(t, profiles.DeleteAddress(ctxFor(other), a1.ID), service.ErrAddressNotFound)

	require.NoError(t, profiles.DeleteAddress(ctx, a2.ID))
	assert.ErrorIs(t, profiles.DeleteAddress(ctx, uuid.New()), service.ErrAddressNotFound)

	me, err = profiles.Me(ctx)
	require.NoError(t, err)
	assert.True(t, me.HasAddress)
	assert.Len(t, me.Addresses, 1)

	_, err = profiles.UpdatePhone(ctx, "12345")
	assert.ErrorIs(t, err, service.ErrValidation)
	upd, err := profiles.UpdatePhone(ctx, "09123456789")
	require.NoError(t, err)
	require.NotNil(t, upd.PhoneNumber)

	_, err = profiles.UpdatePhone(ctxFor(other), "09123456789")
	assert.ErrorIs(t, err, service.ErrConflict)
}
