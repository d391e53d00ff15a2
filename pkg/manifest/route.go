package manifest

import (
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
)

// DefaultMaxBodyBytes caps request bodies when policy.max_body_bytes is unset.
const DefaultMaxBodyBytes = 1 << 20

// Route describes a single HTTP route.
type Route struct {
	Path    string `toml:"path"`
	Method  string `toml:"method"`
	Guard   Guard  `toml:"guard"`
	Policy  Policy `toml:"policy"`
	Handler HSpec  `toml:"handler"`
	// Codec overrides [codec] output for this route.
	Codec string `toml:"codec"`
}

type Guard struct {
	Roles       []string `toml:"roles"`
	Users       []string `toml:"users"`
	RequireAuth bool     `toml:"require_auth"`
}

type Policy struct {
	TimeoutMS    int   `toml:"timeout_ms"`
	MaxBodyBytes int64 `toml:"max_body_bytes"`
}

type HSpec struct {
	Type         HandlerType `toml:"type"`
	Name         string      `toml:"name"`
	Family       string      `toml:"family"`
	Transformers []string    `toml:"transformers"`
}

// normalize path/method/codec
func (r *Route) normalize() error {
	if r.Path == "" {
		return errors.New("path is required")
	}
	if !strings.HasPrefix(r.Path, "/") {
		r.Path = "/" + r.Path
	}
	if r.Path != "/" {
		r.Path = path.Clean(r.Path)
	}
	r.Method = strings.ToUpper(strings.TrimSpace(r.Method))
	if r.Method == "" {
		if r.Handler.Type == HandlerCanonicalize {
			r.Method = http.MethodPost
		} else {
			r.Method = http.MethodGet
		}
	}
	r.Handler.Family = strings.TrimSpace(r.Handler.Family)
	r.Handler.Name = strings.TrimSpace(r.Handler.Name)
	if r.Codec != "" {
		out, err := normalizeOutput(r.Codec)
		if err != nil {
			return fmt.Errorf("codec: %w", err)
		}
		r.Codec = out
	}
	if r.Policy.MaxBodyBytes == 0 {
		r.Policy.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return nil
}

// validate fields that are independent of global state.
func (r *Route) validate() error {
	switch r.Handler.Type {
	case HandlerInproc:
		if r.Handler.Name == "" {
			return errors.New("handler.name required for inproc")
		}
	case HandlerCanonicalize, HandlerSchema, HandlerLabels:
		if r.Handler.Family == "" {
			return fmt.Errorf("handler.family required for %s", r.Handler.Type)
		}
	default:
		return fmt.Errorf("unknown handler type %q", r.Handler.Type)
	}

	if len(r.Handler.Transformers) > 0 && r.Handler.Type != HandlerCanonicalize {
		return fmt.Errorf("handler.transformers only apply to %s", HandlerCanonicalize)
	}
	if r.Handler.Type == HandlerCanonicalize && r.Method == http.MethodGet {
		return errors.New("canonicalize routes need a request body; GET is not allowed")
	}
	if r.Policy.TimeoutMS < 0 {
		return errors.New("policy.timeout_ms must be >= 0")
	}
	if r.Policy.MaxBodyBytes < 0 {
		return errors.New("policy.max_body_bytes must be >= 0")
	}
	return nil
}
