package auth

import (
	"net/http"
	"strings"

	"lendpool/handler/render"
	"lendpool/handler/request"

	"github.com/fox-one/pkg/logger"
)

// HandleAuthentication resolves the bearer token to a user, tokens maps
// access tokens to user ids
func HandleAuthentication(tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromContext(ctx)

			accessToken := getBearerToken(r)
			if accessToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, ok := tokens[accessToken]
			if !ok {
				log.Debugln("unknown access token")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(request.NewContext(ctx).WithUser(user)))
		}

		return http.HandlerFunc(fn)
	}
}

// LoginRequired rejects requests without an authenticated user
func LoginRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := request.NewContext(r.Context()).GetUser(); !ok {
			render.Unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func getBearerToken(r *http.Request) string {
	s := r.Header.Get("Authorization")
	return strings.TrimPrefix(s, "Bearer ")
}
