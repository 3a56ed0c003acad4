// Package auth resolves who is calling. It is a convenience gate, not
// security: credentials are fixed and nothing is signed.
package auth

import (
	"encoding/json"
	"errors"

	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleSupplier Role = "supplier"
)

type User struct {
	Username   string            `json:"username"`
	Role       Role              `json:"role"`
	SupplierID orders.SupplierID `json:"supplierId,omitempty"`
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Home is the landing page for the user's role.
func (u User) Home() string {
	if u.IsAdmin() {
		return "/admin/offers/account"
	}
	return "/supplier/orders/account"
}

// Login accepts admin/admin and, for every supplier on the roster, the
// supplier id as both username and password.
func Login(username, password string) (User, error) {
	if username == "admin" && password == "admin" {
		return User{Username: "admin", Role: RoleAdmin}, nil
	}
	id := orders.SupplierID(username)
	if id.Valid() && password == username {
		return User{Username: username, Role: RoleSupplier, SupplierID: id}, nil
	}
	return User{}, ErrInvalidCredentials
}

// Normalize repairs a persisted session. Suppliers saved before the
// supplierId field existed fall back to their username. ok is false when
// the session cannot be used and should be discarded.
func Normalize(u User) (User, bool) {
	if u.Username == "" {
		return User{}, false
	}
	switch u.Role {
	case RoleAdmin:
		return User{Username: u.Username, Role: RoleAdmin}, true
	case RoleSupplier:
		if u.SupplierID == "" {
			u.SupplierID = orders.SupplierID(u.Username)
		}
		return User{Username: u.Username, Role: RoleSupplier, SupplierID: u.SupplierID}, true
	default:
		return User{}, false
	}
}

// DecodeSession parses and normalizes a stored session blob.
func DecodeSession(raw []byte) (User, bool) {
	var u User
	if err := json.Unmarshal(raw, &u); err != nil {
		return User{}, false
	}
	return Normalize(u)
}
