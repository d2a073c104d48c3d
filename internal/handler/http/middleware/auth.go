package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/hris-timekeeping/internal/domain/user"
	"github.com/cmlabs-hris/hris-timekeeping/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests whose verified token is missing, invalid or
// not an access token.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil {
			response.HandleError(w, err)
			return
		}

		if token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		tokenType, ok := claims["type"].(string)
		if tokenType != "access" || !ok {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if _, err := user.ActorFromContext(r.Context()); err != nil {
			response.HandleError(w, err)
			return
		}

		next.ServeHTTP(w, r)
	})
}
