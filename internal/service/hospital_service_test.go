package service_test

import (
	"context"
	"testing"

	"hospital-directory/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateHospital(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates own record", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		updated, err := f.hospital.UpdateHospital(ctx, h, h.ID, service.HospitalUpdateInput{
			Phone:    ptr("555-0199"),
			Latitude: ptr(0.0),
		})
		require.NoError(t, err)
		assert.Equal(t, "555-0199", updated.Phone)
		assert.Equal(t, 0.0, updated.Latitude)
		assert.Equal(t, h.Name, updated.Name)
	})

	t.Run("other hospital is forbidden", func(t *testing.T) {
		f := newFixture(t)
		owner := f.register(t, "a@b.com", "secret")
		other := f.register(t, "c@d.com", "secret")

		_, err := f.hospital.UpdateHospital(ctx, other, owner.ID, service.HospitalUpdateInput{Name: ptr("Hijacked")})
		assert.ErrorIs(t, err, service.ErrForbidden)

		stored, err := f.hospital.GetHospital(ctx, owner.ID)
		require.NoError(t, err)
		assert.Equal(t, "General Hospital", stored.Name)
	})

	t.Run("no caller is unauthenticated", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		_, err := f.hospital.UpdateHospital(ctx, nil, h.ID, service.HospitalUpdateInput{})
		assert.ErrorIs(t, err, service.ErrUnauthenticated)
	})

	t.Run("email taken by another hospital", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")
		f.register(t, "c@d.com", "secret")

		_, err := f.hospital.UpdateHospital(ctx, h, h.ID, service.HospitalUpdateInput{Email: ptr("c@d.com")})
		assert.ErrorIs(t, err, service.ErrValidation)
	})

	t.Run("password change is hashed and usable", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		_, err := f.hospital.UpdateHospital(ctx, h, h.ID, service.HospitalUpdateInput{Password: ptr("new-secret")})
		require.NoError(t, err)

		stored, err := f.hospitals.GetHospitalByID(ctx, h.ID)
		require.NoError(t, err)
		assert.NotEqual(t, "new-secret", stored.Password)

		_, err = f.auth.Login(ctx, "a@b.com", "secret")
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
		f.login(t, "a@b.com", "new-secret")
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		_, err := f.hospital.UpdateHospital(ctx, h, h.ID, service.HospitalUpdateInput{Latitude: ptr(123.0)})
		assert.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestDeleteHospital(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.register(t, "a@b.com", "secret")
	other := f.register(t, "c@d.com", "secret")

	assert.ErrorIs(t, f.hospital.DeleteHospital(ctx, other, owner.ID), service.ErrForbidden)
	require.NoError(t, f.hospital.DeleteHospital(ctx, owner, owner.ID))

	_, err := f.hospital.GetHospital(ctx, owner.ID)
	assert.ErrorIs(t, err, service.ErrNotFound)

	hospitals, err := f.hospital.ListHospitals(ctx)
	require.NoError(t, err)
	require.Len(t, hospitals, 1)
	assert.Equal(t, other.ID, hospitals[0].ID)
}
