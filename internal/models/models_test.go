package models

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to PriceStatus
		want     bool
	}{
		{PriceStatusPending, PriceStatusApproved, true},
		{PriceStatusPending, PriceStatusRejected, true},
		{PriceStatusPending, PriceStatusPending, false},
		{PriceStatusApproved, PriceStatusRejected, false},
		{PriceStatusRejected, PriceStatusApproved, false},
		{PriceStatusApproved, PriceStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidatePrice(t *testing.T) {
	valid := []string{"0.01", "40", "99999", "12.50"}
	for _, v := range valid {
		assert.NoError(t, ValidatePrice(decimal.RequireFromString(v)), v)
	}

	invalid := []string{"0", "-1", "99999.01", "1.001"}
	for _, v := range invalid {
		err := ValidatePrice(decimal.RequireFromString(v))
		require.Error(t, err, v)
		assert.True(t, errors.Is(err, ErrValidation))

		var fieldErr *ValidationError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, "price_per_unit", fieldErr.Field)
	}
}

func TestRoles(t *testing.T) {
	assert.True(t, RoleFarmer.Valid())
	assert.False(t, Role("superuser").Valid())

	assert.True(t, CanSubmit(RoleVendor))
	assert.False(t, CanSubmit(RoleAdmin))
	assert.False(t, CanSubmit(RoleConsumer))

	assert.True(t, CanReview(RoleAdmin))
	assert.False(t, CanReview(RoleVendor))

	assert.False(t, PriceStatus("archived").Valid())
	assert.False(t, PriceStatusPending.Terminal())
}

func TestUserPassword(t *testing.T) {
	user := &User{Email: "vendor@fairprice.in"}
	require.NoError(t, user.SetPassword("secret123"))

	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("secret123"))
	assert.Error(t, user.CheckPassword("wrong"))
}
