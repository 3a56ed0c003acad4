package httpx

import (
	"context"
	"net/http"

	"github.com/ariefcatur/reseller-dashboard/internal/auth"
	"github.com/ariefcatur/reseller-dashboard/internal/orders"
)

// The client keeps the session and echoes it back on every request.
const (
	headerUser     = "X-User"
	headerRole     = "X-Role"
	headerSupplier = "X-Supplier-Id"
)

type userKey struct{}

func userFrom(ctx context.Context) auth.User {
	u, _ := ctx.Value(userKey{}).(auth.User)
	return u
}

func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := auth.Normalize(auth.User{
			Username:   r.Header.Get(headerUser),
			Role:       auth.Role(r.Header.Get(headerRole)),
			SupplierID: orders.SupplierID(r.Header.Get(headerSupplier)),
		})
		if !ok {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey{}, u)))
	})
}

func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !userFrom(r.Context()).IsAdmin() {
			writeError(w, http.StatusForbidden, "admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// canSee reports whether u may read or act on supplier id's orders.
func canSee(u auth.User, id orders.SupplierID) bool {
	return u.IsAdmin() || u.SupplierID == id
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	User auth.User `json:"user"`
	Home string    `json:"home"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if !decodeBody(w, r, &req) {
		return
	}
	u, err := auth.Login(req.Username, req.Password)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResp{User: u, Home: u.Home()})
}
