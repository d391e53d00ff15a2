// Package adapters provides JSON representations for a few common value
// types. Each type accepts a structured (object) form and a compact
// (single primitive or array) form on decode, and always encodes one fixed
// form:
//
//	Color    {"rgb": -65536}                      also: -65536
//	Instant  {"seconds": 1700000000, "nanos": 5}  also: "2023-11-14T22:13:20.000000005Z", 1700000000
//	Point    {"x": 3, "y": 4}                     also: [3, 4]
//	UUID     "f47ac10b-58cc-4372-a567-0e02b2c3d479"  also: {"mostSigBits": ..., "leastSigBits": ...}
//
// JSON null leaves the receiver unchanged.
package adapters

import (
	"bytes"
	"fmt"
)

func leading(data []byte) byte {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return 0
	}
	return data[0]
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func unsupported(kind string, data []byte) error {
	return fmt.Errorf("adapters: cannot decode %s from %.32q", kind, data)
}
