package auth

import (
	"crypto/rsa"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config holds everything the middleware needs. ConfigFromEnv fills it from
// the process environment.
type Config struct {
	SessionAPI    string
	SessionCookie string
	AdminRole     string
	DevBypass     bool

	AssertCookie   string
	AssertKeyURL   string // JWKS or PEM endpoint
	AssertKeyKID   string
	AssertIssuer   string
	AssertAudience string
	AssertLeeway   time.Duration
	// AssertKey pins a verification key; AssertKeyURL refreshes replace it.
	AssertKey *rsa.PublicKey

	HTTPClient HTTPDoer
	Logger     *zap.Logger
}

type Middleware struct {
	httpClient HTTPDoer
	log        *zap.Logger
	sessionAPI string
	cookieName string
	adminRole  string
	devBypass  bool

	assertCookieName string
	assertKeyURL     string
	assertKeyKID     string
	assertIssuer     string
	assertAudience   string
	assertLeeway     time.Duration

	// guarded by mu
	mu         sync.RWMutex
	assertKey  *rsa.PublicKey
	assertETag string
	cacheTTL   time.Duration
	lastFetch  time.Time
}

// New builds a Middleware from cfg, filling defaults for the HTTP client,
// logger, assertion cookie name and leeway.
func New(cfg Config) *Middleware {
	m := &Middleware{
		httpClient:       cfg.HTTPClient,
		log:              cfg.Logger,
		sessionAPI:       cfg.SessionAPI,
		cookieName:       cfg.SessionCookie,
		adminRole:        cfg.AdminRole,
		devBypass:        cfg.DevBypass,
		assertCookieName: cfg.AssertCookie,
		assertKeyURL:     cfg.AssertKeyURL,
		assertKeyKID:     cfg.AssertKeyKID,
		assertIssuer:     cfg.AssertIssuer,
		assertAudience:   cfg.AssertAudience,
		assertLeeway:     cfg.AssertLeeway,
		assertKey:        cfg.AssertKey,
		cacheTTL:         time.Hour, // overridable by Cache-Control
	}
	if m.httpClient == nil {
		m.httpClient = &http.Client{
			Transport: &http.Transport{MaxIdleConns: 10, IdleConnTimeout: 30 * time.Second},
			Timeout:   8 * time.Second,
		}
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.assertCookieName == "" {
		m.assertCookieName = "assert"
	}
	if m.assertLeeway < 0 {
		m.assertLeeway = 0
	}
	return m
}
