package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is a JSON object whose members keep their insertion order.
// Member values are kept as raw JSON so nested structures are never re-typed.
type Object = orderedmap.OrderedMap[string, json.RawMessage]

// ErrNotObject is returned by ParseObject when the input is valid JSON but not an object.
var ErrNotObject = errors.New("json value is not an object")

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return orderedmap.New[string, json.RawMessage]()
}

// ParseObject parses data into an ordered object.
func ParseObject(data []byte) (*Object, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, fmt.Errorf("json parse: invalid JSON")
	}
	if len(data) == 0 || data[0] != '{' {
		return nil, fmt.Errorf("json parse: %w (got %s)", ErrNotObject, Kind(data))
	}
	obj := NewObject()
	if err := obj.UnmarshalJSON(data); err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}
	return obj, nil
}

// ToObject encodes v with c and parses the result as an ordered object.
func ToObject(c Codec, v any) (*Object, error) {
	raw, err := c.Marshal(v)
	if err != nil {
		return nil, err
	}
	return ParseObject(raw)
}

// MarshalObject writes obj compactly in member order. Unlike
// Object.MarshalJSON it leaves <, > and & unescaped, matching the codecs.
func MarshalObject(obj *Object) ([]byte, error) {
	if obj == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		if pair != obj.Oldest() {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(pair.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if len(pair.Value) == 0 {
			return nil, fmt.Errorf("json object: member %q has no value", pair.Key)
		}
		if err := json.Compact(&buf, pair.Value); err != nil {
			return nil, fmt.Errorf("json object: member %q: %w", pair.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Kind names the JSON kind of a raw, already validated value.
func Kind(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "empty"
	}
	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}

// IsNull reports whether raw is the JSON literal null.
func IsNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
