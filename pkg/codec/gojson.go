package codec

import gojson "github.com/goccy/go-json"

type goJSON struct{}

// GoJSON is a lenient codec backed by github.com/goccy/go-json. Its output is
// byte-compatible with JSONLenient.
var GoJSON Codec = goJSON{}

func (goJSON) Marshal(v any) ([]byte, error) {
	if o, ok := v.(*Object); ok {
		return MarshalObject(o)
	}
	return gojson.MarshalNoEscape(v)
}

func (goJSON) Unmarshal(data []byte, v any) error { return gojson.Unmarshal(data, v) }

func (goJSON) ContentType() string          { return "application/json" }
func (goJSON) Name() string                 { return "go-json" }
func (goJSON) DisallowsUnknownFields() bool { return false }
