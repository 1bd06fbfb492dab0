package server

import (
	"net/http"

	"github.com/sounak286/RAKSHA-SATHI/token"
)

// ProtectedHandlerFunc is an http.HandlerFunc that also receives the
// verified claims of the caller.
type ProtectedHandlerFunc func(w http.ResponseWriter, r *http.Request, claims *token.Claims)

// RequireAuth validates the Bearer access token and passes its claims to
// next. Missing tokens answer 401, invalid or expired ones 403.
func (s *Server) RequireAuth(next ProtectedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.access.Authenticate(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, err)
			return
		}
		next(w, r, claims)
	}
}
