// Package api provides HTTP handlers for the parsekit demo server: compiling
// patterns, matching strings against them, parsing input with an arbitrary
// grammar, and clearing the compiled-pattern cache.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/parsekit/server/result"
	"github.com/dekarrin/parsekit/server/serr"
	"github.com/google/uuid"
)

const (
	// PathPrefix is the prefix of all paths in the API. Routers should mount
	// a sub-router that routes all requests to the API at this path.
	PathPrefix = "/api/v1"
)

// Cache is the subset of internal/cache's compiled-pattern cache the API
// needs. It is an interface here (rather than a direct dependency on the
// cache's concrete type) so the handlers can run against any implementation,
// such as an in-memory one.
type Cache interface {
	Get(pattern string) (*automaton.DFA, bool, error)
	Put(pattern string, dfa *automaton.DFA) error
	Clear() error
}

// API holds parameters for endpoints needed to run. To use API, create one
// and then assign the result of its HTTP* methods as handlers to a router.
type API struct {
	// Cache is the compiled-pattern cache backing /compile and /match. May be
	// nil, in which case every pattern is compiled fresh on every request.
	Cache Cache

	// UnauthDelay is the amount of time that a request will pause before
	// responding with an HTTP-401 or HTTP-500, to deprioritize such requests
	// from processing and I/O.
	UnauthDelay time.Duration
}

// v must be a pointer to a type. Will return error such that
// errors.Is(err, serr.ErrBodyUnmarshal) returns true if it is a problem
// decoding the JSON itself.
func parseJSON(req *http.Request, v interface{}) error {
	contentType := req.Header.Get("Content-Type")

	if strings.ToLower(contentType) != "application/json" {
		return fmt.Errorf("request content-type is not application/json")
	}

	bodyData, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}
	defer func() {
		req.Body.Close()
		req.Body = io.NopCloser(bytes.NewBuffer(bodyData))
	}()

	err = json.Unmarshal(bodyData, v)
	if err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}

	return nil
}

// EndpointFunc is the signature every handler registered with httpEndpoint
// must have: read whatever it needs from req, and return the Result to send.
type EndpointFunc func(req *http.Request) result.Result

func (a *API) httpEndpoint(ep EndpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)
		r := ep(req)

		if r.Status == 0 {
			logHttpResponse("ERROR", req, http.StatusInternalServerError, "endpoint result was never populated")
			http.Error(w, "An internal server error occurred", http.StatusInternalServerError)
			return
		}

		if err := r.PrepareMarshaledResponse(); err != nil {
			newResp := result.Err(r.Status, "An internal server error occurred", "could not marshal JSON response: "+err.Error())
			newResp.WriteResponse(w)
			return
		}

		if r.IsErr {
			logHttpResponse("ERROR", req, r.Status, r.InternalMsg)
		} else {
			logHttpResponse("INFO", req, r.Status, r.InternalMsg)
		}

		if r.Status == http.StatusUnauthorized || r.Status == http.StatusForbidden || r.Status == http.StatusInternalServerError {
			time.Sleep(a.UnauthDelay)
		}

		r.WriteResponse(w)
	}
}

func panicTo500(w http.ResponseWriter, req *http.Request) (panicVal interface{}) {
	if panicErr := recover(); panicErr != nil {
		result.TextErr(
			http.StatusInternalServerError,
			"An internal server error occurred",
			fmt.Sprintf("panic: %v\nSTACK TRACE: %s", panicErr, string(debug.Stack())),
		).WriteResponse(w)
		return true
	}
	return false
}

func logHttpResponse(level string, req *http.Request, respStatus int, msg string) {
	if len(level) > 5 {
		level = level[0:5]
	}
	for len(level) < 5 {
		level += " "
	}

	remoteAddrParts := strings.SplitN(req.RemoteAddr, ":", 2)
	remoteIP := remoteAddrParts[0]

	reqID := req.Header.Get("X-Request-Id")
	if reqID == "" {
		reqID = uuid.Nil.String()
	}

	log.Printf("%s %s %s %s %s: HTTP-%d %s", level, reqID, remoteIP, req.Method, req.URL.Path, respStatus, msg)
}
