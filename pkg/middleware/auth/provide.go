package auth

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigFromEnv reads the auth settings from the environment. A key file
// named by ASSERTION_PUBLIC_KEY_FILE that cannot be read is reported as an
// error rather than silently disabling assertions.
func ConfigFromEnv() (Config, error) {
	cfg := Config{
		SessionAPI:     strings.TrimSpace(os.Getenv("SESSION_STATE_API")),
		SessionCookie:  strings.TrimSpace(os.Getenv("SESSION_COOKIE_NAME")),
		AdminRole:      strings.TrimSpace(os.Getenv("ADMIN_ROLE_NAME")),
		DevBypass:      os.Getenv("AUTH_DEV_BYPASS") == "true",
		AssertCookie:   strings.TrimSpace(os.Getenv("ASSERTION_COOKIE_NAME")),
		AssertKeyURL:   strings.TrimSpace(os.Getenv("ASSERTION_KEY_URL")),
		AssertKeyKID:   strings.TrimSpace(os.Getenv("ASSERTION_KEY_KID")),
		AssertIssuer:   strings.TrimSpace(os.Getenv("ASSERTION_ISSUER")),
		AssertAudience: strings.TrimSpace(os.Getenv("ASSERTION_AUDIENCE")),
		AssertLeeway:   60 * time.Second,
	}
	if v := strings.TrimSpace(os.Getenv("ASSERTION_LEEWAY_SECONDS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.AssertLeeway = time.Duration(n) * time.Second
		}
	}
	if p := strings.TrimSpace(os.Getenv("ASSERTION_PUBLIC_KEY_FILE")); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return Config{}, err
		}
		key, err := ParsePublicKeyPEM(b)
		if err != nil {
			return Config{}, err
		}
		cfg.AssertKey = key
	}
	return cfg, nil
}

// ProvideAuthentication wires env config. The first key fetch runs at start
// and is non-fatal; refreshes stop with the app.
func ProvideAuthentication(lc fx.Lifecycle, log *zap.Logger) (*Middleware, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Logger = log
	m := New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(start context.Context) error {
			if m.assertKeyURL == "" {
				return nil
			}
			if err := m.refreshAssertionKey(start); err != nil {
				m.log.Warn("assertion key fetch failed", zap.String("url", m.assertKeyURL), zap.Error(err))
			}
			go m.RunKeyRefresh(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return m, nil
}

var Module = fx.Options(
	fx.Provide(ProvideAuthentication),
)
