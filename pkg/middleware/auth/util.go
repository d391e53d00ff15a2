package auth

import "encoding/base64"

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func b64url(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(s)
}

// bytesToInt decodes a big-endian RSA exponent; empty means 65537.
func bytesToInt(b []byte) int {
	n := 0
	for _, v := range b {
		n = n<<8 | int(v)
	}
	if n == 0 {
		return 65537
	}
	return n
}
