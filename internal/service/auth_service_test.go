package service_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"hospital-directory/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Run("stores a hash instead of the raw password", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		stored, err := f.hospitals.GetHospitalByID(context.Background(), h.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.Password)
		assert.NotEqual(t, "secret", stored.Password)
	})

	t.Run("serialized hospital has no password field", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		raw, err := json.Marshal(h)
		require.NoError(t, err)

		var fields map[string]any
		require.NoError(t, json.Unmarshal(raw, &fields))
		assert.NotContains(t, fields, "password")
		assert.Equal(t, "a@b.com", fields["email"])
	})

	t.Run("duplicate email fails and keeps a single record", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "a@b.com", "secret")

		_, err := f.auth.Register(context.Background(), registerInput("A@B.com ", "other"))
		assert.ErrorIs(t, err, service.ErrValidation)

		n, err := f.hospitals.CountHospitals(context.Background())
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})

	t.Run("missing fields fail validation", func(t *testing.T) {
		f := newFixture(t)
		in := registerInput("a@b.com", "")
		in.Latitude = nil

		_, err := f.auth.Register(context.Background(), in)
		require.ErrorIs(t, err, service.ErrValidation)

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
		assert.Contains(t, verr.Fields, "latitude")
	})

	t.Run("password beyond the bcrypt limit fails validation", func(t *testing.T) {
		f := newFixture(t)
		// 40 runes but 80 bytes
		_, err := f.auth.Register(context.Background(), registerInput("a@b.com", strings.Repeat("é", 40)))

		var verr *service.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
	})

	t.Run("malformed email fails validation", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.auth.Register(context.Background(), registerInput("not-an-email", "secret"))
		assert.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestLogin(t *testing.T) {
	t.Run("token resolves to the registered hospital", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		res := f.login(t, "a@b.com", "secret")
		assert.Equal(t, h.ID, res.HospitalID)
		assert.Len(t, res.Token.String(), 64)

		resolved, err := f.auth.ResolveToken(context.Background(), res.Token)
		require.NoError(t, err)
		assert.Equal(t, h.ID, resolved.ID)
	})

	t.Run("wrong password and unknown email fail the same way", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "a@b.com", "secret")

		_, errWrongPassword := f.auth.Login(context.Background(), "a@b.com", "nope")
		_, errUnknownEmail := f.auth.Login(context.Background(), "x@y.com", "secret")

		assert.ErrorIs(t, errWrongPassword, service.ErrInvalidCredentials)
		assert.ErrorIs(t, errUnknownEmail, service.ErrInvalidCredentials)
		assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
	})

	t.Run("successive logins yield distinct valid tokens", func(t *testing.T) {
		f := newFixture(t)
		h := f.register(t, "a@b.com", "secret")

		first := f.login(t, "a@b.com", "secret")
		second := f.login(t, "a@b.com", "secret")
		assert.NotEqual(t, first.Token, second.Token)

		for _, tok := range []string{first.Token.String(), second.Token.String()} {
			resolved, err := f.auth.Resolve(context.Background(), "Token "+tok)
			require.NoError(t, err)
			assert.Equal(t, h.ID, resolved.ID)
		}

		n, err := f.sessions.Len(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestResolve(t *testing.T) {
	f := newFixture(t)
	f.register(t, "a@b.com", "secret")
	res := f.login(t, "a@b.com", "secret")
	ctx := context.Background()

	tests := []struct {
		name   string
		header string
		want   error
	}{
		{name: "missing header", header: "", want: service.ErrUnauthenticated},
		{name: "bearer scheme", header: "Bearer " + res.Token.String(), want: service.ErrUnauthenticated},
		{name: "scheme without value", header: "Token ", want: service.ErrUnauthenticated},
		{name: "never issued token", header: "Token 0123456789abcdef", want: service.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.auth.Resolve(ctx, tt.header)
			assert.ErrorIs(t, err, tt.want)
			assert.NotErrorIs(t, err, service.ErrInvalidCredentials)
		})
	}

	t.Run("hospital deleted after login", func(t *testing.T) {
		caller, err := f.auth.Resolve(ctx, "Token "+res.Token.String())
		require.NoError(t, err)
		require.NoError(t, f.hospital.DeleteHospital(ctx, caller, caller.ID))

		_, err = f.auth.Resolve(ctx, "Token "+res.Token.String())
		assert.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("cleared registry forgets tokens", func(t *testing.T) {
		f := newFixture(t)
		f.register(t, "c@d.com", "secret")
		res := f.login(t, "c@d.com", "secret")
		f.sessions.Clear()

		_, err := f.auth.ResolveToken(ctx, res.Token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}

func TestParseAuthorization(t *testing.T) {
	tok, err := service.ParseAuthorization("Token abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", tok.String())

	_, err = service.ParseAuthorization("Token abc 123")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = service.ParseAuthorization("token abc123")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}
