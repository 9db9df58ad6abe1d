// Package server is a small HTTP demo surface over the regex/parse engine:
// it exposes pattern compilation, matching, and parse-tree inspection as a
// JSON API, with an authenticated endpoint for clearing the compiled-pattern
// cache. There is one principal (whoever holds the configured API token),
// not a user database.
package server

import (
	"net/http"
	"time"

	"github.com/dekarrin/parsekit/server/api"
	"github.com/dekarrin/parsekit/server/auth"
	"github.com/dekarrin/parsekit/server/middle"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Config holds the parameters needed to stand up the demo server.
type Config struct {
	// Cache is the compiled-pattern cache backing /compile and /match. May
	// be nil, in which case every pattern is compiled fresh on every
	// request.
	Cache api.Cache

	// APIToken is the plaintext token clients must send in the JSON body of
	// POST /auth in order to receive a session JWT. Empty disables auth
	// entirely: /cache/clear becomes unauthenticated, which is only
	// appropriate for local experimentation.
	APIToken string

	// UnauthDelay is how long a rejected request to /auth or /cache/clear is
	// made to wait before its response is sent, to deprioritize such
	// requests, mirroring the UnauthDelayMillis server config
	// knob.
	UnauthDelay time.Duration
}

// New builds the router for the demo server. The caller is responsible for
// passing the result to an *http.Server (or http.ListenAndServe directly).
func New(cfg Config) (http.Handler, error) {
	a := &api.API{Cache: cfg.Cache, UnauthDelay: cfg.UnauthDelay}

	var sessions *auth.Issuer
	if cfg.APIToken != "" {
		var err error
		sessions, err = auth.NewIssuer(cfg.APIToken)
		if err != nil {
			return nil, err
		}
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middle.DontPanic())

	r.Route(api.PathPrefix, func(r chi.Router) {
		r.Post("/compile", a.HTTPCompile())
		r.Post("/match", a.HTTPMatch())
		r.Post("/parse", a.HTTPParse())

		if sessions != nil {
			r.Post("/auth", sessions.HTTPLogin(cfg.UnauthDelay))

			r.Group(func(r chi.Router) {
				r.Use(middle.RequireAuth(sessions.Secret(), cfg.UnauthDelay))
				r.Post("/cache/clear", a.HTTPClearCache())
			})
		} else {
			r.Post("/cache/clear", a.HTTPClearCache())
		}
	})

	return r, nil
}

// requestID stamps every request with an X-Request-Id header, using
// google/uuid, so the API's log lines can correlate a request across its
// handler and middleware.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("X-Request-Id") == "" {
			req.Header.Set("X-Request-Id", uuid.NewString())
		}
		w.Header().Set("X-Request-Id", req.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, req)
	})
}
