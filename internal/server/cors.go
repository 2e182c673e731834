package server

import "net/http"

// corsMiddleware echoes the request Origin when it is allow-listed and
// falls back to the default origin otherwise, so the header is always
// present. Preflight requests are answered immediately with 200.
func corsMiddleware(allowedOrigins []string, defaultOrigin string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := defaultOrigin
			if _, ok := allowed[r.Header.Get("Origin")]; ok {
				origin = r.Header.Get("Origin")
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, X-Requested-With")
			h.Set("Access-Control-Max-Age", "86400")
			h.Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
