package adapters

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// UUID is a 128-bit identifier encoded as its canonical string.
type UUID struct {
	uuid.UUID
}

// NewUUID returns a random (version 4) UUID.
func NewUUID() (UUID, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return UUID{}, err
	}
	return UUID{UUID: u}, nil
}

// ParseUUID parses the canonical textual form.
func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, err
	}
	return UUID{UUID: u}, nil
}

// MustParseUUID is ParseUUID that panics on error.
func MustParseUUID(s string) UUID {
	return UUID{UUID: uuid.MustParse(s)}
}

// UUIDFromBits builds a UUID from its most and least significant 64-bit halves.
func UUIDFromBits(most, least int64) UUID {
	var u UUID
	binary.BigEndian.PutUint64(u.UUID[:8], uint64(most))
	binary.BigEndian.PutUint64(u.UUID[8:], uint64(least))
	return u
}

// MostSignificantBits returns the high 64 bits as a signed integer.
func (u UUID) MostSignificantBits() int64 { return int64(binary.BigEndian.Uint64(u.UUID[:8])) }

// LeastSignificantBits returns the low 64 bits as a signed integer.
func (u UUID) LeastSignificantBits() int64 { return int64(binary.BigEndian.Uint64(u.UUID[8:])) }

func (u UUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *UUID) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	switch leading(data) {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("adapters: uuid: %w", err)
		}
		parsed, err := ParseUUID(s)
		if err != nil {
			return fmt.Errorf("adapters: uuid: %w", err)
		}
		*u = parsed
	case '{':
		var bits struct {
			Most  *int64 `json:"mostSigBits"`
			Least *int64 `json:"leastSigBits"`
		}
		if err := json.Unmarshal(data, &bits); err != nil {
			return fmt.Errorf("adapters: uuid: %w", err)
		}
		if bits.Most == nil || bits.Least == nil {
			return fmt.Errorf("adapters: uuid: fields %q and %q are required", "mostSigBits", "leastSigBits")
		}
		*u = UUIDFromBits(*bits.Most, *bits.Least)
	default:
		return unsupported("uuid", data)
	}
	return nil
}
