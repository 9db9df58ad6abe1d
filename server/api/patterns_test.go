package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dekarrin/parsekit/internal/core/automaton"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is a minimal in-memory Cache used only for exercising the
// handlers; it does not need to persist anything across a test.
type memCache struct {
	m       map[string]*automaton.DFA
	cleared bool
}

func newMemCache() *memCache {
	return &memCache{m: map[string]*automaton.DFA{}}
}

func (c *memCache) Get(pattern string) (*automaton.DFA, bool, error) {
	dfa, ok := c.m[pattern]
	return dfa, ok, nil
}

func (c *memCache) Put(pattern string, dfa *automaton.DFA) error {
	c.m[pattern] = dfa
	return nil
}

func (c *memCache) Clear() error {
	c.cleared = true
	c.m = map[string]*automaton.DFA{}
	return nil
}

func postJSON(t *testing.T, h http.HandlerFunc, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHTTPCompile_ValidPatternCachesOnFirstCall(t *testing.T) {
	c := newMemCache()
	a := &API{Cache: c}

	w := postJSON(t, a.HTTPCompile(), CompileRequest{Pattern: "a+"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CompileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a+", resp.Pattern)
	assert.False(t, resp.Cached)

	w2 := postJSON(t, a.HTTPCompile(), CompileRequest{Pattern: "a+"})
	var resp2 CompileResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.True(t, resp2.Cached)
}

func TestHTTPCompile_InvalidPatternIsBadRequest(t *testing.T) {
	a := &API{Cache: newMemCache()}
	w := postJSON(t, a.HTTPCompile(), CompileRequest{Pattern: "("})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHTTPMatch_AcceptsAndRejects(t *testing.T) {
	a := &API{Cache: newMemCache()}

	w := postJSON(t, a.HTTPMatch(), MatchRequest{Pattern: "a+b", Input: "aaab"})
	require.Equal(t, http.StatusOK, w.Code)
	var resp MatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Matched)

	w2 := postJSON(t, a.HTTPMatch(), MatchRequest{Pattern: "a+b", Input: "b"})
	var resp2 MatchResponse
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp2))
	assert.False(t, resp2.Matched)
}

func TestHTTPParse_ReturnsTree(t *testing.T) {
	a := &API{Cache: newMemCache()}
	w := postJSON(t, a.HTTPParse(), ParseRequest{Pattern: "ab"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp ParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Tree)
}

func TestHTTPClearCache_ClearsAndReportsNoContent(t *testing.T) {
	c := newMemCache()
	c.m["a"] = nil
	a := &API{Cache: c}

	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	w := httptest.NewRecorder()
	a.HTTPClearCache().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.True(t, c.cleared)
}

func TestHTTPClearCache_NoCacheConfigured(t *testing.T) {
	a := &API{}
	req := httptest.NewRequest(http.MethodPost, "/cache/clear", nil)
	w := httptest.NewRecorder()
	a.HTTPClearCache().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
