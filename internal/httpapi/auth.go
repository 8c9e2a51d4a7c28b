package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jotterhq/jotter/pkg/types"
)

type contextKey struct{ name string }

var userKey = contextKey{"user"}

// requireAuth resolves the bearer token to a user and stores it in the
// request context. Session tokens are single-valued per user; logout or a
// fresh login invalidates the old one.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			s.writeError(w, types.ErrUnauthorized)
			return
		}
		user, err := s.services.Users.Authenticate(token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

func requestUser(r *http.Request) types.User {
	user, _ := r.Context().Value(userKey).(types.User)
	return user
}
