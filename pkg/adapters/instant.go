package adapters

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Instant is a point on the UTC time line with nanosecond precision.
type Instant struct {
	time.Time
}

// InstantOf wraps t, normalized to UTC.
func InstantOf(t time.Time) Instant {
	return Instant{Time: t.UTC()}
}

// InstantFromEpoch builds an Instant from epoch seconds and a nanosecond
// adjustment. Nanos outside [0, 1e9) carry into seconds.
func InstantFromEpoch(seconds, nanos int64) Instant {
	return Instant{Time: time.Unix(seconds, nanos).UTC()}
}

// EpochSecond returns the seconds since the Unix epoch.
func (i Instant) EpochSecond() int64 { return i.Unix() }

// Nano returns the nanosecond-of-second, always in [0, 1e9).
func (i Instant) Nano() int64 { return int64(i.Nanosecond()) }

type instantJSON struct {
	Seconds *int64 `json:"seconds"`
	Nanos   int64  `json:"nanos"`
}

func (i Instant) MarshalJSON() ([]byte, error) {
	s := i.EpochSecond()
	return json.Marshal(instantJSON{Seconds: &s, Nanos: i.Nano()})
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		return nil
	}
	switch leading(data) {
	case '{':
		var ij instantJSON
		if err := json.Unmarshal(data, &ij); err != nil {
			return fmt.Errorf("adapters: instant: %w", err)
		}
		if ij.Seconds == nil {
			return fmt.Errorf("adapters: instant: missing field %q", "seconds")
		}
		*i = InstantFromEpoch(*ij.Seconds, ij.Nanos)
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("adapters: instant: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return fmt.Errorf("adapters: instant: %w", err)
		}
		*i = InstantOf(t)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("adapters: instant: %w", err)
		}
		sec, nsec, err := parseEpoch(n.String())
		if err != nil {
			return fmt.Errorf("adapters: instant: %w", err)
		}
		*i = InstantFromEpoch(sec, nsec)
	default:
		return unsupported("instant", data)
	}
	return nil
}

// parseEpoch reads decimal epoch seconds ("1700000000", "-1.5") without going
// through float64, so nanosecond digits survive.
func parseEpoch(s string) (int64, int64, error) {
	if strings.ContainsAny(s, "eE") {
		return 0, 0, fmt.Errorf("exponent form %q not supported for epoch seconds", s)
	}
	whole, frac, _ := strings.Cut(s, ".")
	neg := strings.HasPrefix(whole, "-")
	sec, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if frac == "" {
		return sec, 0, nil
	}
	if len(frac) > 9 {
		frac = frac[:9]
	}
	frac += strings.Repeat("0", 9-len(frac))
	nsec, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	if neg {
		nsec = -nsec
	}
	return sec, nsec, nil
}
