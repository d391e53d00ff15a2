package variant

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/invopop/jsonschema"
	"github.com/joeydtaylor/steeze-codec/pkg/codec"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Schema returns a JSON Schema describing the family: a oneOf with one branch
// per registered subtype, each pinning the discriminator to its label.
func (c *Codec[B]) Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		AllowAdditionalProperties: !codec.IsStrict(c.engine),
	}

	root := &jsonschema.Schema{
		Version: jsonschema.Version,
		Title:   typeName(c.reg.base),
	}
	for _, label := range c.reg.Labels() {
		t, ok := c.reg.TypeFor(label)
		if !ok {
			continue
		}
		s := r.ReflectFromType(t)
		s.Version = ""
		s.Title = label
		if s.Properties == nil {
			s.Properties = orderedmap.New[string, *jsonschema.Schema]()
		}
		s.Properties.Set(c.field, &jsonschema.Schema{Type: "string", Const: label})
		if err := s.Properties.MoveToFront(c.field); err != nil {
			return nil, fmt.Errorf("variant: schema for %q: %w", label, err)
		}
		s.Required = append([]string{c.field}, slices.DeleteFunc(slices.Clone(s.Required), func(k string) bool { return k == c.field })...)
		root.OneOf = append(root.OneOf, s)
	}

	out, err := json.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("variant: marshal schema: %w", err)
	}
	return out, nil
}
