package http

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
)

// subjectFromContext returns the authenticated user ID, or "" when the
// token is missing or malformed.
func subjectFromContext(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	sub, _ := claims["sub"].(string)
	return sub
}
