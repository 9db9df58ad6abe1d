// Package middle contains middleware for use with the parsekit HTTP demo
// server.
package middle

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/dekarrin/parsekit/server/result"
	"github.com/dekarrin/parsekit/server/serr"
	"github.com/golang-jwt/jwt/v5"
)

type mwFunc http.HandlerFunc

func (sf mwFunc) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	sf(w, req)
}

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

// AuthOK is set true in a request's context once its bearer token has been
// validated by an AuthHandler.
const AuthOK AuthKey = iota

// AuthHandler is middleware that extracts a bearer JWT from the request,
// validates it was signed with secret, and rejects the request with an
// HTTP-401 if it was not. There is only one principal in the demo server (the
// holder of the configured API token), so unlike a multi-user auth handler
// there is no lookup step: the token's signature is the entire check.
type AuthHandler struct {
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := bearerToken(req)
	if err == nil {
		_, err = jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
			return ah.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer("parsekit"), jwt.WithLeeway(time.Minute))
	}

	if err != nil {
		wrapped := serr.New("invalid or missing session token", err, serr.ErrPermissions)
		r := result.FromError(http.StatusUnauthorized, "You are not authorized to do that", wrapped).
			WithHeader("WWW-Authenticate", `Bearer realm="parsekit", charset="utf-8"`)
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthOK, true)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func bearerToken(req *http.Request) (string, error) {
	hdr := req.Header.Get("Authorization")
	if hdr == "" {
		return "", fmt.Errorf("no Authorization header present")
	}
	const prefix = "Bearer "
	if len(hdr) <= len(prefix) || hdr[:len(prefix)] != prefix {
		return "", fmt.Errorf("Authorization header is not a bearer token")
	}
	return hdr[len(prefix):], nil
}

// RequireAuth returns a Middleware that rejects any request without a valid
// bearer token signed with secret.
func RequireAuth(secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{secret: secret, unauthedDelay: unauthDelay, next: next}
	}
}

// DontPanic returns a Middleware that performs a panic check as it exits. If
// the function is panicking, it will write out an HTTP response with a generic
// message to the client and add it to the log.
func DontPanic() Middleware {
	return func(next http.Handler) http.Handler {
		return mwFunc(func(w http.ResponseWriter, r *http.Request) {
			defer panicTo500(w, r)
			next.ServeHTTP(w, r)
		})
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		r := result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		)
		r.WriteResponse(w)
		return true
	}
	return false
}
