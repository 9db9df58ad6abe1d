package api

import (
	"fmt"
	"net/http"

	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/dekarrin/parsekit/regex"
	"github.com/dekarrin/parsekit/server/result"
	"github.com/dekarrin/parsekit/server/serr"
)

// CompileRequest is the body of POST /compile.
type CompileRequest struct {
	Pattern string `json:"pattern"`
}

// CompileResponse reports whether Pattern was freshly compiled or came from
// the cache.
type CompileResponse struct {
	Pattern string `json:"pattern"`
	Cached  bool   `json:"cached"`
}

// MatchRequest is the body of POST /match.
type MatchRequest struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
}

// MatchResponse reports whether Input was accepted by Pattern.
type MatchResponse struct {
	Matched bool `json:"matched"`
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Pattern string `json:"pattern"`
}

// ParseResponse holds the regex grammar's parse tree for Pattern, rendered
// as indented text via the parse package's Tree.String().
type ParseResponse struct {
	Pattern string `json:"pattern"`
	Tree    string `json:"tree"`
}

// resolveDFA compiles pattern, consulting and populating the cache if one is
// configured. The bool return reports whether the result came from the
// cache. Errors are tagged with serr.CategoryCompile or serr.CategoryCache
// depending on which step produced them, so a client (or the server log)
// can tell a malformed pattern from a cache outage without parsing message
// text.
func (a *API) resolveDFA(pattern string) (*automaton.DFA, bool, error) {
	if a.Cache != nil {
		if dfa, ok, err := a.Cache.Get(pattern); err != nil {
			return nil, false, serr.WrapCache(fmt.Sprintf("read cache for %q", pattern), err)
		} else if ok {
			return dfa, true, nil
		}
	}

	dfa, err := regex.Compile(pattern)
	if err != nil {
		return nil, false, serr.WrapCompile(fmt.Sprintf("compile %q", pattern), err)
	}

	if a.Cache != nil {
		if err := a.Cache.Put(pattern, dfa); err != nil {
			// caching failure doesn't invalidate the compile; the pattern
			// still works, it just won't be fast next time.
			return dfa, false, nil
		}
	}

	return dfa, false, nil
}

// HTTPCompile handles POST /compile: compile (and cache) a pattern.
func (a *API) HTTPCompile() http.HandlerFunc {
	return a.httpEndpoint(func(req *http.Request) result.Result {
		var body CompileRequest
		if err := parseJSON(req, &body); err != nil {
			return result.FromError(http.StatusBadRequest, "Could not parse request body", err)
		}

		_, cached, err := a.resolveDFA(body.Pattern)
		if err != nil {
			return result.FromError(http.StatusBadRequest, "Pattern could not be compiled", err)
		}

		return result.OK(CompileResponse{Pattern: body.Pattern, Cached: cached})
	})
}

// HTTPMatch handles POST /match: compile (and cache) Pattern, then test
// Input against it.
func (a *API) HTTPMatch() http.HandlerFunc {
	return a.httpEndpoint(func(req *http.Request) result.Result {
		var body MatchRequest
		if err := parseJSON(req, &body); err != nil {
			return result.FromError(http.StatusBadRequest, "Could not parse request body", err)
		}

		dfa, _, err := a.resolveDFA(body.Pattern)
		if err != nil {
			return result.FromError(http.StatusBadRequest, "Pattern could not be compiled", err)
		}

		return result.OK(MatchResponse{Matched: dfa.Match(body.Input)})
	})
}

// HTTPParse handles POST /parse: return the regex grammar's derivation of
// Pattern, without reducing it to an automaton. Unlike /compile, this never
// touches the cache, since the parse tree is a debugging view rather than a
// reusable compiled artifact.
func (a *API) HTTPParse() http.HandlerFunc {
	return a.httpEndpoint(func(req *http.Request) result.Result {
		var body ParseRequest
		if err := parseJSON(req, &body); err != nil {
			return result.FromError(http.StatusBadRequest, "Could not parse request body", err)
		}

		tree, err := regex.ParseTree(body.Pattern)
		if err != nil {
			wrapped := serr.WrapParse(fmt.Sprintf("parse %q", body.Pattern), err)
			return result.FromError(http.StatusBadRequest, "Pattern could not be parsed", wrapped)
		}

		return result.OK(ParseResponse{Pattern: body.Pattern, Tree: tree.String()})
	})
}

// HTTPClearCache handles POST /cache/clear: empty the compiled-pattern
// cache. When the server has an API token configured it is mounted behind
// RequireAuth, since it discards work every other client has already paid
// for; without a token it is mounted unauthenticated.
func (a *API) HTTPClearCache() http.HandlerFunc {
	return a.httpEndpoint(func(req *http.Request) result.Result {
		if a.Cache == nil {
			return result.OK(nil, "no cache configured")
		}
		if err := a.Cache.Clear(); err != nil {
			wrapped := serr.WrapCache("clear pattern cache", err)
			return result.FromError(http.StatusInternalServerError, "An internal server error occurred", wrapped)
		}
		return result.NoContent("cache cleared")
	})
}
