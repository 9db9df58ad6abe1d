// Package auth issues and validates the demo server's bearer-JWT sessions
// against its single configured API token. It is grounded on
// server/server.go's Login/generateJWTForUser and server/token.go's
// verifyJWT, simplified from a per-user signing key (derived from a user
// record's stored password hash and logout time) down to a single
// process-lifetime secret, since the demo server has exactly one
// principal.
package auth

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/parsekit/server/result"
	"github.com/dekarrin/parsekit/server/serr"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// issuer identifies tokens minted by this server in the JWT "iss" claim.
const issuer = "parsekit"

// Issuer holds the configured API token's bcrypt hash and a process-lifetime
// HMAC secret derived from it, and mints/validates session JWTs against
// them.
type Issuer struct {
	tokenHash []byte
	secret    []byte
}

// NewIssuer hashes token with bcrypt (so the plaintext is never held longer
// than this call) and derives a signing secret from the hash, the way the
// teacher derives its per-user signing key from a stored password hash
// rather than a raw secret.
func NewIssuer(token string) (*Issuer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash API token: %w", err)
	}
	// the hash itself, not the plaintext it was derived from, is what
	// signs sessions; a leaked session JWT does not expose the token.
	secret := make([]byte, len(hash))
	copy(secret, hash)
	return &Issuer{tokenHash: hash, secret: secret}, nil
}

// Secret returns the HMAC key session JWTs are signed and validated with.
func (iss *Issuer) Secret() []byte {
	return iss.secret
}

// loginRequest is the body of POST /auth.
type loginRequest struct {
	Token string `json:"token"`
}

// loginResponse is the body returned by a successful POST /auth.
type loginResponse struct {
	Token string `json:"token"`
}

// HTTPLogin handles POST /auth: exchange the plaintext API token for a
// signed session JWT, good for one hour.
func (iss *Issuer) HTTPLogin(unauthDelay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body loginRequest
		if err := decodeJSON(req, &body); err != nil {
			result.FromError(http.StatusBadRequest, "Could not parse request body", err).WriteResponse(w)
			return
		}

		if err := bcrypt.CompareHashAndPassword(iss.tokenHash, []byte(body.Token)); err != nil {
			time.Sleep(unauthDelay)
			wrapped := serr.New("bad API token", err, serr.ErrPermissions)
			result.FromError(http.StatusUnauthorized, "You are not authorized to do that", wrapped).
				WithHeader("WWW-Authenticate", `Bearer realm="parsekit", charset="utf-8"`).
				WriteResponse(w)
			return
		}

		claims := jwt.MapClaims{
			"iss": issuer,
			"exp": time.Now().Add(time.Hour).Unix(),
		}
		tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
		signed, err := tok.SignedString(iss.secret)
		if err != nil {
			result.InternalServerError(err.Error()).WriteResponse(w)
			return
		}

		result.OK(loginResponse{Token: signed}).WriteResponse(w)
	}
}

func decodeJSON(req *http.Request, v interface{}) error {
	if strings.ToLower(req.Header.Get("Content-Type")) != "application/json" {
		return serr.New("request content-type is not application/json", serr.ErrBadArgument)
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("could not read request body: %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return serr.New("malformed JSON in request", err, serr.ErrBodyUnmarshal)
	}
	return nil
}
