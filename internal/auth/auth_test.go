package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		user     string
		pass     string
		wantRole Role
		wantErr  bool
	}{
		{"admin", "admin", "admin", RoleAdmin, false},
		{"admin wrong password", "admin", "nope", "", true},
		{"supplier", "sup2", "sup2", RoleSupplier, false},
		{"supplier wrong password", "sup2", "sup3", "", true},
		{"unknown supplier", "sup9", "sup9", "", true},
		{"empty", "", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Login(tt.user, tt.pass)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, u.Role)
			if u.Role == RoleSupplier {
				assert.EqualValues(t, tt.user, u.SupplierID)
				assert.Equal(t, "/supplier/orders/account", u.Home())
			} else {
				assert.Empty(t, u.SupplierID)
				assert.Equal(t, "/admin/offers/account", u.Home())
			}
		})
	}
}

func TestDecodeSession(t *testing.T) {
	u, ok := DecodeSession([]byte(`{"username":"ffin","role":"supplier"}`))
	require.True(t, ok)
	assert.EqualValues(t, "ffin", u.SupplierID)

	u, ok = DecodeSession([]byte(`{"username":"admin","role":"admin","supplierId":"sup2"}`))
	require.True(t, ok)
	assert.Empty(t, u.SupplierID, "admins never carry a supplier id")

	for _, raw := range []string{`{"role":"admin"}`, `{"username":"x","role":"root"}`, `nope`, `null`} {
		_, ok := DecodeSession([]byte(raw))
		assert.False(t, ok, raw)
	}
}
