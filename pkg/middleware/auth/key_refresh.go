package auth

import (
	"context"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const minKeyRefresh = 5 * time.Second

// RunKeyRefresh refetches the assertion key every cache TTL until ctx ends.
// It returns immediately when no key URL is configured.
func (m *Middleware) RunKeyRefresh(ctx context.Context) {
	if m.assertKeyURL == "" {
		return
	}
	for {
		wait := max(m.getCacheTTL(), minKeyRefresh)
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
		if err := m.refreshAssertionKey(ctx); err != nil && ctx.Err() == nil {
			m.log.Warn("assertion key refresh failed", zap.String("url", m.assertKeyURL), zap.Error(err))
		}
	}
}

func (m *Middleware) refreshAssertionKey(ctx context.Context) error {
	if m.assertKeyURL == "" {
		return errors.New("ASSERTION_KEY_URL not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.assertKeyURL, nil)
	if err != nil {
		return err
	}
	if etag := m.getETag(); etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	req.Header.Set("Accept", "application/json, application/x-pem-file, */*")

	res, err := m.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	// Honor 304 with previous key
	if res.StatusCode == http.StatusNotModified && m.getKey() != nil {
		m.mu.Lock()
		m.updateCacheTTLLocked(res.Header)
		m.lastFetch = time.Now()
		m.mu.Unlock()
		return nil
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("key fetch %s: %s", m.assertKeyURL, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return err
	}
	var pub *rsa.PublicKey
	ct := strings.ToLower(res.Header.Get("Content-Type"))
	if strings.Contains(ct, "json") || strings.HasSuffix(strings.ToLower(m.assertKeyURL), ".json") {
		pub, err = decodeJWKS(body, m.assertKeyKID)
	} else {
		pub, err = ParsePublicKeyPEM(body)
	}
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.assertKey = pub
	m.assertETag = res.Header.Get("ETag")
	m.updateCacheTTLLocked(res.Header)
	m.lastFetch = time.Now()
	m.mu.Unlock()
	return nil
}

type jwk struct {
	Kty string `json:"kty"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// decodeJWKS picks the key with the given kid, or the first RSA signing key.
func decodeJWKS(body []byte, kid string) (*rsa.PublicKey, error) {
	var set struct {
		Keys []jwk `json:"keys"`
	}
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("jwks: %w", err)
	}

	var sel *jwk
	for i := range set.Keys {
		k := &set.Keys[i]
		if k.Kty != "RSA" {
			continue
		}
		if kid != "" {
			if k.Kid == kid {
				sel = k
				break
			}
			continue
		}
		if (k.Use == "" || k.Use == "sig") && (k.Alg == "" || strings.EqualFold(k.Alg, "RS256")) {
			sel = k
			break
		}
	}
	if sel == nil {
		return nil, errors.New("no suitable RSA key in JWKS")
	}

	n, err := b64url(sel.N)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.n: %w", err)
	}
	e, err := b64url(sel.E)
	if err != nil {
		return nil, fmt.Errorf("bad jwks.e: %w", err)
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(n), E: bytesToInt(e)}, nil
}

// ParsePublicKeyPEM reads a PKIX "PUBLIC KEY" or PKCS#1 "RSA PUBLIC KEY" block.
func ParsePublicKeyPEM(b []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("no PEM block found")
	}
	if block.Type == "RSA PUBLIC KEY" {
		return x509.ParsePKCS1PublicKey(block.Bytes)
	}
	keyAny, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rk, ok := keyAny.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("PEM is not an RSA public key")
	}
	return rk, nil
}

// updateCacheTTLLocked applies Cache-Control max-age; m.mu must be held.
func (m *Middleware) updateCacheTTLLocked(h http.Header) {
	for _, p := range strings.Split(h.Get("Cache-Control"), ",") {
		p = strings.TrimSpace(strings.ToLower(p))
		if v, ok := strings.CutPrefix(p, "max-age="); ok {
			if s, err := strconv.Atoi(v); err == nil && time.Duration(s)*time.Second >= minKeyRefresh {
				m.cacheTTL = time.Duration(s) * time.Second
				return
			}
		}
	}
}

func (m *Middleware) getKey() *rsa.PublicKey {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assertKey
}

func (m *Middleware) getETag() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.assertETag
}

func (m *Middleware) getCacheTTL() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cacheTTL
}
