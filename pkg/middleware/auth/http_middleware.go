package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware resolves the caller and stores it in the request context. The
// order is: dev headers (when enabled), assertion cookie, bearer assertion,
// then the session API. Requests without credentials continue anonymously;
// route guards decide whether that is enough.
func (m *Middleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			serve := func(u User) {
				next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
			}

			// Dev bypass for local testing (never enable in prod)
			if m.devBypass {
				if u := devUserFromHeaders(r); u.Username != "" {
					serve(u)
					return
				}
			}

			if m.getKey() != nil {
				if ac, _ := r.Cookie(m.assertCookieName); ac != nil && ac.Value != "" {
					u, err := m.validateAssertion(ac.Value)
					if err == nil {
						serve(u)
						return
					}
					m.log.Debug("assertion cookie rejected", zap.Error(err))
				}
				if tok := bearerToken(r); tok != "" {
					u, err := m.validateAssertion(tok)
					if err != nil {
						m.log.Debug("bearer assertion rejected", zap.Error(err))
						http.Error(w, "Unauthorized", http.StatusUnauthorized)
						return
					}
					serve(u)
					return
				}
			}

			if m.cookieName != "" {
				if c, err := r.Cookie(m.cookieName); err == nil && c.Value != "" {
					u, err := m.validateSession(r.Context(), c)
					if err != nil || u.Username == "" {
						http.Error(w, "Unauthorized", http.StatusUnauthorized)
						return
					}
					serve(u)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

func (m *Middleware) validateSession(ctx context.Context, c *http.Cookie) (User, error) {
	if m.sessionAPI == "" {
		return User{}, errors.New("SESSION_STATE_API not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.sessionAPI, nil)
	if err != nil {
		return User{}, err
	}
	req.Header.Set("Accept", "application/json")
	req.AddCookie(c)

	res, err := m.httpClient.Do(req)
	if err != nil {
		return User{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return User{}, fmt.Errorf("session api status %d", res.StatusCode)
	}

	var u User
	if err := json.NewDecoder(res.Body).Decode(&u); err != nil {
		return User{}, err
	}
	return u, nil
}
