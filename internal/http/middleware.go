package http

import (
	"net/http"
	"strings"
)

// SecurityHeaders adds security-related headers to all responses. Outside
// development responses also carry HSTS. Token-bearing auth responses and
// listing mutations are never cached.
func SecurityHeaders(development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if !development {
				h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
			}

			// Swagger UI needs scripts, styles, and images to render
			if strings.HasPrefix(r.URL.Path, "/swagger/") {
				h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' data:")
			} else {
				h.Set("Content-Security-Policy", "default-src 'none'")
			}

			if noStore(r) {
				h.Set("Cache-Control", "no-store")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func noStore(r *http.Request) bool {
	switch r.URL.Path {
	case "/api/login", "/api/register":
		return true
	}
	return r.Method != http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/listings")
}
