package auth

import (
	"errors"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

type assertionClaims struct {
	jwt.RegisteredClaims
	Ver   int      `json:"ver"`
	SID   string   `json:"sid"`
	UID   string   `json:"uid"`
	Org   string   `json:"org"`
	Roles []string `json:"roles"`
	Role  string   `json:"role"`
}

func (m *Middleware) validateAssertion(raw string) (User, error) {
	pub := m.getKey()
	if pub == nil {
		return User{}, errors.New("assertion key not configured")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.assertLeeway),
	}
	if m.assertIssuer != "" {
		opts = append(opts, jwt.WithIssuer(m.assertIssuer))
	}
	if m.assertAudience != "" {
		opts = append(opts, jwt.WithAudience(m.assertAudience))
	}

	var claims assertionClaims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return pub, nil
	})
	if err != nil {
		return User{}, err
	}
	if !tok.Valid {
		return User{}, errors.New("invalid assertion")
	}

	username := firstNonEmpty(claims.UID, claims.Subject)
	if username == "" {
		return User{}, errors.New("missing uid")
	}

	role := claims.Role
	if role == "" {
		if i := slices.IndexFunc(claims.Roles, func(s string) bool { return s != "" }); i >= 0 {
			role = claims.Roles[i]
		}
	}

	return User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "assert"},
		Role:                 Role{Name: role},
	}, nil
}
