package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/crytic/solcpipe/logging"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// logRequests logs every request once it has been served.
func logRequests(logger *logging.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug(r.Method, " ", r.URL.Path, " served in ", time.Since(start))
		})
	}
}

// AttachMiddleware attaches the middleware shared by every route.
func AttachMiddleware(router *mux.Router, logger *logging.Logger) {
	router.Use(logRequests(logger))
}

// WithCors wraps h so the allowed origins may call it from a browser. Preflight requests are answered before they
// reach the router. With no origins, h is returned as is.
func WithCors(h http.Handler, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		return h
	}
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	})
	return c.Handler(h)
}

// OriginChecker returns a websocket origin check which accepts the allowed origins. With no origins it returns nil,
// which leaves the websocket default of same origin only.
func OriginChecker(allowedOrigins []string) func(r *http.Request) bool {
	if len(allowedOrigins) == 0 {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
	}
}
