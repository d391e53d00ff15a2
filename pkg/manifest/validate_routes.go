package manifest

import "fmt"

// validateRoutes normalizes and checks every route, rejecting duplicate
// method and path pairs.
func (c *Config) validateRoutes() error {
	seen := make(map[string]int, len(c.Routes))
	for i := range c.Routes {
		if err := c.Routes[i].normalize(); err != nil {
			return fmt.Errorf("route %d: %w", i, err)
		}
		rt := c.Routes[i]
		if err := rt.validate(); err != nil {
			return fmt.Errorf("route %d (%s %s): %w", i, rt.Method, rt.Path, err)
		}
		key := rt.Method + " " + rt.Path
		if j, dup := seen[key]; dup {
			return fmt.Errorf("route %d (%s): duplicates route %d", i, key, j)
		}
		seen[key] = i
	}
	return nil
}

// ValidateRefs checks that every family, transformer and inproc handler a
// route names is known to r.
func (c *Config) ValidateRefs(r Resolver) error {
	for i, rt := range c.Routes {
		h := rt.Handler
		switch h.Type {
		case HandlerInproc:
			if !r.HasHandler(h.Name) {
				return fmt.Errorf("route %d (%s %s): inproc handler %q not registered", i, rt.Method, rt.Path, h.Name)
			}
		default:
			if !r.HasFamily(h.Family) {
				return fmt.Errorf("route %d (%s %s): family %q not registered", i, rt.Method, rt.Path, h.Family)
			}
			for _, n := range h.Transformers {
				if !r.HasTransformer(h.Family, n) {
					return fmt.Errorf("route %d (%s %s): transformer %q not registered for family %q", i, rt.Method, rt.Path, n, h.Family)
				}
			}
		}
	}
	return nil
}
