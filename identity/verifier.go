// Package identity verifies Google sign-in ID tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every token that cannot be trusted: missing,
// malformed, badly signed, expired, or issued for another client.
var ErrInvalidToken = errors.New("invalid identity token")

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// Identity is the verified subset of the token claims.
type Identity struct {
	Email string
	Name  string
}

// Verifier turns a raw ID token into a verified identity.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (Identity, error)
}

// Claims carried by a Google ID token that we care about.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// GoogleVerifier checks RS256 ID tokens against the keys published by Google.
type GoogleVerifier struct {
	audience string
	keys     KeySource
	parser   *jwt.Parser
}

// NewGoogleVerifier builds a verifier expecting tokens minted for clientID.
func NewGoogleVerifier(clientID string, keys KeySource) *GoogleVerifier {
	return &GoogleVerifier{
		audience: clientID,
		keys:     keys,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithAudience(clientID),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(30*time.Second),
		),
	}
}

func (v *GoogleVerifier) Verify(ctx context.Context, rawToken string) (Identity, error) {
	if rawToken == "" {
		return Identity{}, fmt.Errorf("%w: token missing", ErrInvalidToken)
	}
	if v.audience == "" {
		return Identity{}, fmt.Errorf("%w: no client id configured", ErrInvalidToken)
	}

	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, _ := t.Header["kid"].(string)
		return v.keys.Key(ctx, kid)
	})
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !googleIssuers[claims.Issuer] {
		return Identity{}, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidToken, claims.Issuer)
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: email claim missing", ErrInvalidToken)
	}
	return Identity{Email: claims.Email, Name: claims.Name}, nil
}
