// pkg/codec/jsoncodec.go
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cyberphone/json-canonicalization/go/src/webpki.org/jsoncanonicalizer"
)

// Codec is the structural JSON engine the rest of the module calls into.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
	Name() string
}

// Strictness is implemented by codecs that can report whether they reject
// object keys the target type does not declare.
type Strictness interface {
	DisallowsUnknownFields() bool
}

type jsonStrict struct{}

// JSONStrict rejects unknown fields and trailing content on decode.
var JSONStrict Codec = jsonStrict{}

func (jsonStrict) Marshal(v any) ([]byte, error) { return marshalNoEscape(v) }

func (jsonStrict) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	// Probe for trailing data (must be EOF)
	var extra any
	if err := dec.Decode(&extra); err != io.EOF {
		return fmt.Errorf("json trailing content")
	}
	return nil
}

func (jsonStrict) ContentType() string          { return "application/json" }
func (jsonStrict) Name() string                 { return "json-strict" }
func (jsonStrict) DisallowsUnknownFields() bool { return true }

type jsonLenient struct{}

// JSONLenient ignores object keys the target type does not declare.
var JSONLenient Codec = jsonLenient{}

func (jsonLenient) Marshal(v any) ([]byte, error) { return marshalNoEscape(v) }

func (jsonLenient) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	return nil
}

func (jsonLenient) ContentType() string          { return "application/json" }
func (jsonLenient) Name() string                 { return "json" }
func (jsonLenient) DisallowsUnknownFields() bool { return false }

type jsonPretty struct{ jsonLenient }

// JSONPretty writes two-space indented output and decodes leniently.
// Key order of the encoded value is kept.
var JSONPretty Codec = jsonPretty{}

func (jsonPretty) Marshal(v any) ([]byte, error) {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("json indent: %w", err)
	}
	return buf.Bytes(), nil
}

func (jsonPretty) Name() string { return "json-pretty" }

type jsonCanonical struct{ jsonLenient }

// JSONCanonical writes RFC 8785 canonical JSON: sorted keys, normalized numbers.
// The discriminator-first layout of tagged variants is not kept in this mode.
var JSONCanonical Codec = jsonCanonical{}

func (jsonCanonical) Marshal(v any) ([]byte, error) {
	raw, err := marshalNoEscape(v)
	if err != nil {
		return nil, err
	}
	out, err := jsoncanonicalizer.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("json canonicalize: %w", err)
	}
	return out, nil
}

func (jsonCanonical) Name() string { return "json-canonical" }

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json", "compact", "":
		return JSONLenient, true
	case "json-strict", "strict":
		return JSONStrict, true
	case "json-pretty", "pretty":
		return JSONPretty, true
	case "json-canonical", "canonical":
		return JSONCanonical, true
	case "go-json":
		return GoJSON, true
	default:
		return nil, false
	}
}

// IsStrict reports whether c rejects unknown object keys on decode.
func IsStrict(c Codec) bool {
	s, ok := c.(Strictness)
	return ok && s.DisallowsUnknownFields()
}

func marshalNoEscape(v any) ([]byte, error) {
	if o, ok := v.(*Object); ok {
		return MarshalObject(o)
	}
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
