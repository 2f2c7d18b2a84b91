package identity

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// KeySource resolves the RSA public key for a token's kid.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// StaticKeys is a fixed key set.
type StaticKeys map[string]*rsa.PublicKey

func (s StaticKeys) Key(_ context.Context, kid string) (*rsa.PublicKey, error) {
	k, ok := s[kid]
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return k, nil
}

const (
	defaultKeyTTL = time.Hour

	// minForcedRefresh bounds how often an unknown kid may trigger a fetch
	// while the cached set is still fresh.
	minForcedRefresh = time.Minute
)

// JWKS fetches a JSON Web Key Set over HTTP and caches it for the max-age the
// server advertises. An unknown kid forces a refetch at most once per
// minForcedRefresh; concurrent fetches are collapsed into one.
type JWKS struct {
	url    string
	client *http.Client
	group  singleflight.Group

	mu        sync.Mutex
	keys      map[string]*rsa.PublicKey
	expires   time.Time
	fetchedAt time.Time
	now       func() time.Time
}

func NewJWKS(url string, client *http.Client) *JWKS {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &JWKS{url: url, client: client, now: time.Now}
}

func (j *JWKS) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	j.mu.Lock()
	k, ok := j.keys[kid]
	now := j.now()
	fresh := now.Before(j.expires)
	throttled := fresh && now.Sub(j.fetchedAt) < minForcedRefresh
	j.mu.Unlock()

	if ok && fresh {
		return k, nil
	}
	if throttled {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}

	if _, err, _ := j.group.Do("certs", func() (interface{}, error) {
		return nil, j.refresh(ctx)
	}); err != nil {
		return nil, err
	}

	j.mu.Lock()
	k, ok = j.keys[kid]
	j.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("unknown key id %q", kid)
	}
	return k, nil
}

type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	N   string `json:"n"`
	E   string `json:"e"`
}

func (j *JWKS) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.url, nil)
	if err != nil {
		return err
	}
	resp, err := j.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch certs: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch certs: status %d", resp.StatusCode)
	}

	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("decode certs: %w", err)
	}

	keys := make(map[string]*rsa.PublicKey, len(set.Keys))
	for _, k := range set.Keys {
		if k.Kty != "RSA" {
			continue
		}
		pub, err := parseRSA(k.N, k.E)
		if err != nil {
			log.Warn().Err(err).Str("kid", k.Kid).Msg("identity: skipping malformed key")
			continue
		}
		keys[k.Kid] = pub
	}
	if len(keys) == 0 {
		return errors.New("fetch certs: no usable keys")
	}

	ttl := maxAge(resp.Header.Get("Cache-Control"))
	j.mu.Lock()
	j.keys = keys
	j.fetchedAt = j.now()
	j.expires = j.fetchedAt.Add(ttl)
	expires := j.expires
	j.mu.Unlock()
	log.Debug().Int("keys", len(keys)).Time("expires", expires).Msg("identity: certs refreshed")
	return nil
}

func parseRSA(n, e string) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(n)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(e)
	if err != nil {
		return nil, err
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nb),
		E: int(new(big.Int).SetBytes(eb).Int64()),
	}, nil
}

func maxAge(cacheControl string) time.Duration {
	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		if v, ok := strings.CutPrefix(part, "max-age="); ok {
			if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
				return time.Duration(secs) * time.Second
			}
		}
	}
	return defaultKeyTTL
}
